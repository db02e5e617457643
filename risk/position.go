package risk

// Inputs describes one sizing request.
type Inputs struct {
	Balance      float64
	RiskFraction float64 // 0.02
	EntryPrice   float64
	StopPrice    float64
}

// Result is the outcome of Calculate. Quantity is zero for a degenerate
// stop (stop == entry); the caller still records the trade.
type Result struct {
	Quantity    float64
	RiskPerUnit float64
	RiskAmount  float64
}

// RiskAmount is the cash put at risk on one trade.
func RiskAmount(balance, fraction float64) float64 {
	return balance * fraction
}

// PositionSize divides the risk budget by the stop distance. A zero stop
// distance yields 0 rather than an error.
func PositionSize(riskAmount, entry, stop float64) float64 {
	perUnit := abs(entry - stop)
	if perUnit <= 0 {
		return 0
	}
	return riskAmount / perUnit
}

// Calculate sizes a position so that hitting the stop loses
// Balance*RiskFraction.
func Calculate(in Inputs) Result {
	riskAmt := RiskAmount(in.Balance, in.RiskFraction)
	return Result{
		Quantity:    PositionSize(riskAmt, in.EntryPrice, in.StopPrice),
		RiskPerUnit: abs(in.EntryPrice - in.StopPrice),
		RiskAmount:  riskAmt,
	}
}
