package indicators

import "github.com/rustyeddy/cryptopilot/market"

const (
	// DefaultRSIPeriod is the classic Wilder lookback.
	DefaultRSIPeriod = 14

	// NeutralRSI is returned when there are too few deltas to measure.
	NeutralRSI = 50.0
)

// RSI returns the Relative Strength Index of the most recent period deltas,
// using a simple (not Wilder-smoothed) average of gains and losses.
//
// Fewer than period deltas yields NeutralRSI. An average loss of exactly
// zero yields 100. The result is rounded to 2 decimal places.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes)-1 < period {
		return NeutralRSI
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return market.Round(100-100/(1+rs), 2)
}
