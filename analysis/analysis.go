// Package analysis runs the indicator stack over one symbol's bars and
// hands the result to the strategies. Everything here is pure, so symbols
// can be analysed in parallel.
package analysis

import (
	"fmt"
	"time"

	"github.com/rustyeddy/cryptopilot/indicators"
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/regime"
	"github.com/rustyeddy/cryptopilot/signals"
	"github.com/rustyeddy/cryptopilot/strategies"
)

// MinBars is the shortest series that is analysed. SMA(50) is the longest
// window in the stack.
const MinBars = 50

// Indicator windows.
const (
	FastEMA      = 9
	SlowEMA      = 21
	ShortSMA     = 20
	LongSMA      = 50
	VolumeWindow = 20
)

// Input is one symbol's price history. HigherTimeframes is optional and
// keyed by timeframe label, e.g. "4h".
type Input struct {
	Symbol           string
	Timeframe        string
	Bars             market.Series
	HigherTimeframes map[string]market.Series
}

// Report is the full analysis of one symbol.
type Report struct {
	Symbol   string
	Snapshot strategies.Snapshot
	Class    regime.Classification
	Trends   map[string]regime.Trend
	Votes    regime.Votes
	Signals  []signals.Signal
}

// Analyze returns the signals the strategies produce for in. A short or
// empty series returns an error wrapping indicators.ErrInsufficientData.
func Analyze(in Input, strats []strategies.Strategy, p strategies.Params, now time.Time) ([]signals.Signal, error) {
	r, err := Run(in, strats, p, now)
	if err != nil {
		return nil, err
	}
	return r.Signals, nil
}

// Run is Analyze with the intermediate state kept.
func Run(in Input, strats []strategies.Strategy, p strategies.Params, now time.Time) (Report, error) {
	snap, err := Snap(in.Bars)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", in.Symbol, err)
	}

	r := Report{
		Symbol:   in.Symbol,
		Snapshot: snap,
		Class:    regime.Classify(snap.SMA20, snap.SMA50, snap.RSI),
		Trends:   HigherTrends(in.HigherTimeframes),
	}
	r.Votes = regime.Tally(r.Trends)

	r.Signals = strategies.Evaluate(strats, strategies.Input{
		Symbol:    in.Symbol,
		Timeframe: in.Timeframe,
		Bars:      in.Bars,
		Snapshot:  snap,
		Class:     r.Class,
		Votes:     r.Votes,
		Now:       now,
	}, p)
	return r, nil
}

// Snap computes the latest indicator values of bars.
func Snap(bars market.Series) (strategies.Snapshot, error) {
	if len(bars) < MinBars {
		return strategies.Snapshot{}, fmt.Errorf("%w: have %d bars, need %d",
			indicators.ErrInsufficientData, len(bars), MinBars)
	}
	if err := bars.Validate(); err != nil {
		return strategies.Snapshot{}, err
	}

	closes := bars.Closes()
	volumes := bars.Volumes()
	n := len(closes)

	var (
		s   strategies.Snapshot
		err error
	)
	s.Close = closes[n-1]
	s.PrevClose = closes[n-2]
	s.Volume = volumes[n-1]

	if s.EMA9, err = last(indicators.EMA(closes, FastEMA)); err != nil {
		return s, err
	}
	if s.EMA21, err = last(indicators.EMA(closes, SlowEMA)); err != nil {
		return s, err
	}
	if s.SMA20, err = last(indicators.SMA(closes, ShortSMA)); err != nil {
		return s, err
	}
	if s.SMA50, err = last(indicators.SMA(closes, LongSMA)); err != nil {
		return s, err
	}
	s.RSI = indicators.RSI(closes, indicators.DefaultRSIPeriod)

	macd, err := indicators.MACD(closes, indicators.DefaultMACDFast, indicators.DefaultMACDSlow, indicators.DefaultMACDSignal)
	if err != nil {
		return s, err
	}
	s.MACDHist = macd.Histogram.Last()

	bands, err := indicators.BollingerBands(closes, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerStdDev)
	if err != nil {
		return s, err
	}
	b := bands[len(bands)-1]
	s.BBUpper, s.BBLower = b.Upper, b.Lower

	if s.AvgVolume, err = indicators.AverageVolume(volumes, VolumeWindow); err != nil {
		return s, err
	}
	return s, nil
}

// HigherTrends votes on each higher timeframe. It returns nil for no input.
func HigherTrends(tfs map[string]market.Series) map[string]regime.Trend {
	if len(tfs) == 0 {
		return nil
	}
	out := make(map[string]regime.Trend, len(tfs))
	for tf, bars := range tfs {
		out[tf] = regime.TimeframeTrend(bars.Closes())
	}
	return out
}

func last(s indicators.Series, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	v := s.Last()
	if !v.Valid {
		return 0, indicators.ErrInsufficientData
	}
	return v.V, nil
}
