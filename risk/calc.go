package risk

import "github.com/rustyeddy/cryptopilot/signals"

// LiquidationBuffer keeps the stop this fraction away from the liquidation
// price, on the entry side.
const LiquidationBuffer = 0.05

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// LiquidationPrice is the price at which collateral posted at the given
// leverage is exhausted. A leverage <= 0 means unleveraged, liquidation at
// zero for longs and unbounded for shorts; callers validate leverage first.
func LiquidationPrice(side signals.Side, entry, leverage float64) float64 {
	if side == signals.Long {
		return entry * (1 - 1/leverage)
	}
	return entry * (1 + 1/leverage)
}

// StopLoss places a percentage stop and clamps it against the liquidation
// buffer:
//
//	LONG:  max(entry*(1-slPct), liquidation*1.05)
//	SHORT: min(entry*(1+slPct), liquidation*0.95)
//
// At high leverage the clamp can move the stop past the nominal percentage,
// and for shorts onto the far side of entry. That is the documented formula.
func StopLoss(side signals.Side, entry, slPct, leverage float64) float64 {
	liq := LiquidationPrice(side, entry, leverage)
	if side == signals.Long {
		return max(entry*(1-slPct), liq*(1+LiquidationBuffer))
	}
	return min(entry*(1+slPct), liq*(1-LiquidationBuffer))
}

// TakeProfit places the target tpPct away from entry in the trade's favour.
func TakeProfit(side signals.Side, entry, tpPct float64) float64 {
	if side == signals.Long {
		return entry * (1 + tpPct)
	}
	return entry * (1 - tpPct)
}

// PnL is the realized profit of closing qty units opened at entry at exit.
func PnL(side signals.Side, entry, exit, qty float64) float64 {
	if side == signals.Long {
		return (exit - entry) * qty
	}
	return (entry - exit) * qty
}

// RR is reward over risk. A zero risk yields 0.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}
