package regime

import "github.com/rustyeddy/cryptopilot/indicators"

// MinTimeframeCloses is the shortest higher-timeframe history that gets a
// directional vote; anything shorter votes Neutral.
const MinTimeframeCloses = 50

// TimeframeTrend votes on the direction of a higher timeframe: bullish when
// the close is above SMA(50) and EMA(9) is above EMA(21), bearish for the
// mirror image, neutral otherwise.
func TimeframeTrend(closes []float64) Trend {
	if len(closes) < MinTimeframeCloses {
		return Neutral
	}

	ema9, err := indicators.EMA(closes, 9)
	if err != nil {
		return Neutral
	}
	ema21, err := indicators.EMA(closes, 21)
	if err != nil {
		return Neutral
	}
	sma50, err := indicators.SMA(closes, 50)
	if err != nil {
		return Neutral
	}

	last := closes[len(closes)-1]
	fast, slow, base := ema9.Last().V, ema21.Last().V, sma50.Last().V
	switch {
	case last > base && fast > slow:
		return Bullish
	case last < base && fast < slow:
		return Bearish
	default:
		return Neutral
	}
}

// Votes tallies higher-timeframe trends.
type Votes struct {
	Bullish int
	Bearish int
	Neutral int
}

// Tally counts the trend of each timeframe.
func Tally(trends map[string]Trend) Votes {
	var v Votes
	for _, t := range trends {
		switch t {
		case Bullish:
			v.Bullish++
		case Bearish:
			v.Bearish++
		default:
			v.Neutral++
		}
	}
	return v
}
