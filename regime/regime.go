// Package regime classifies market behaviour from the latest indicator
// values.
package regime

import "math"

// Trend is the direction of the short baseline relative to the long one.
type Trend string

const (
	Bullish Trend = "bullish"
	Bearish Trend = "bearish"
	// Neutral only appears in higher-timeframe votes; Classify never
	// returns it.
	Neutral Trend = "neutral"
)

// Regime is the classified market mode.
type Regime string

const (
	Trending      Regime = "trend"
	MeanReversion Regime = "mean_reversion"
	Scalp         Regime = "scalp"
)

// Classification thresholds.
const (
	TrendSpread   = 0.01
	OversoldRSI   = 35.0
	OverboughtRSI = 65.0
)

// Classification is the (trend, regime) pair derived from one sample.
type Classification struct {
	Trend  Trend
	Regime Regime
}

// Classify derives trend and regime from the latest 20-period SMA, the
// latest 50-period SMA and the latest RSI. It keeps no history.
//
// A spread of exactly 1% is not a trend, and an RSI of exactly 35 or 65 is
// not a mean-reversion extreme.
func Classify(sma20, sma50, rsi float64) Classification {
	c := Classification{Trend: Bearish}
	if sma20 > sma50 {
		c.Trend = Bullish
	}

	switch {
	case math.Abs(sma20-sma50)/sma50 > TrendSpread:
		c.Regime = Trending
	case rsi < OversoldRSI || rsi > OverboughtRSI:
		c.Regime = MeanReversion
	default:
		c.Regime = Scalp
	}
	return c
}
