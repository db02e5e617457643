package strategies

import (
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/regime"
	"github.com/rustyeddy/cryptopilot/risk"
	"github.com/rustyeddy/cryptopilot/signals"
)

// Params are the account-level settings every proposal is built with.
type Params struct {
	TakeProfitPct float64 // 0.25
	StopLossPct   float64 // 0.10
	Leverage      float64 // 20
	RiskAmount    float64 // cash at risk per trade
}

// Build turns a firing strategy into a signal. It does not check Active.
func Build(s Strategy, in Input, p Params) signals.Signal {
	snap := in.Snapshot
	side := signals.SideFor(in.Class.Trend)
	entry := snap.Close

	stop := risk.StopLoss(side, entry, p.StopLossPct, p.Leverage)
	conf := s.Confidence()

	return signals.Signal{
		Symbol:    in.Symbol,
		Timeframe: in.Timeframe,
		Strategy:  s.Name(),
		Side:      side,

		Entry:       entry,
		StopLoss:    stop,
		TakeProfit:  risk.TakeProfit(side, entry, p.TakeProfitPct),
		Liquidation: risk.LiquidationPrice(side, entry, p.Leverage),

		RSI:    snap.RSI,
		Trend:  in.Class.Trend,
		Regime: in.Class.Regime,

		Confidence:   conf,
		PositionSize: risk.PositionSize(p.RiskAmount, entry, stop),
		ForecastPnL:  market.Round(p.TakeProfitPct*100*conf/100, 2),
		Score:        market.Round(conf+snap.RSI/2, 2),

		MACDHist:    snap.MACDHist.V,
		HasMACD:     snap.MACDHist.Valid,
		BBBreakout:  snap.BBBreakout(),
		VolumeSpike: snap.VolumeSpike(),
		DailyChange: market.PctChange(snap.PrevClose, snap.Close),

		Timestamp: in.Now.UTC(),
	}
}

// Propose returns the strategy's signal for in, or false when the rule does
// not fire or the higher timeframes veto its side.
func Propose(s Strategy, in Input, p Params) (signals.Signal, bool) {
	if !s.Active(in) {
		return signals.Signal{}, false
	}
	if !Allowed(signals.SideFor(in.Class.Trend), in.Votes) {
		return signals.Signal{}, false
	}
	return Build(s, in, p), true
}

// Evaluate runs every strategy against in. Several may fire for the same
// symbol; each yields an independent signal, in strategy order.
func Evaluate(strats []Strategy, in Input, p Params) []signals.Signal {
	var out []signals.Signal
	for _, s := range strats {
		if sig, ok := Propose(s, in, p); ok {
			out = append(out, sig)
		}
	}
	return out
}

// Allowed vetoes trading against the higher-timeframe majority: a LONG is
// refused when bearish votes outnumber bullish ones, and vice versa.
func Allowed(side signals.Side, v regime.Votes) bool {
	if v.Bullish > v.Bearish && side == signals.Short {
		return false
	}
	if v.Bearish > v.Bullish && side == signals.Long {
		return false
	}
	return true
}
