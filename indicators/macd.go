package indicators

import "fmt"

// MACD defaults.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the three aligned MACD outputs.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// MACD computes the moving-average convergence-divergence of values.
//
// The line is EMA(fast) - EMA(slow) wherever both are defined. The signal
// line is the EMA of the defined part of the line, re-padded to stay aligned
// with values. The histogram is line - signal wherever both are defined.
func MACD(values []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}, fmt.Errorf("periods must be positive, got %d/%d/%d", fast, slow, signal)
	}

	emaFast, err := EMA(values, fast)
	if err != nil {
		return MACDResult{}, fmt.Errorf("macd fast: %w", err)
	}
	emaSlow, err := EMA(values, slow)
	if err != nil {
		return MACDResult{}, fmt.Errorf("macd slow: %w", err)
	}

	n := len(values)
	line := make(Series, n)
	for i := range line {
		if emaFast[i].Valid && emaSlow[i].Valid {
			line[i] = Some(emaFast[i].V - emaSlow[i].V)
		}
	}

	defined := line.Defined()
	sig, err := EMA(defined, signal)
	if err != nil {
		return MACDResult{}, fmt.Errorf("macd signal: %w", err)
	}

	pad := n - len(sig)
	signalLine := make(Series, n)
	copy(signalLine[pad:], sig)

	hist := make(Series, n)
	for i := range hist {
		if line[i].Valid && signalLine[i].Valid {
			hist[i] = Some(line[i].V - signalLine[i].V)
		}
	}

	return MACDResult{Line: line, Signal: signalLine, Histogram: hist}, nil
}
