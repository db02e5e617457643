// Package strategies turns the latest indicator state of one symbol into
// trade proposals. Each Strategy only decides whether it fires; Build
// places entry, stop, target and size the same way for all of them.
package strategies

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/cryptopilot/indicators"
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/regime"
)

// Strategy is one activation rule.
type Strategy interface {
	// Name is the label recorded on signals, e.g. "Mean-Reversion".
	Name() string

	// Confidence is the base confidence (0-100) of signals it emits.
	Confidence() float64

	// Active reports whether the rule fires for this input.
	Active(in Input) bool
}

// Snapshot is the latest indicator state of one series.
type Snapshot struct {
	Close     float64
	PrevClose float64

	EMA9  float64
	EMA21 float64
	SMA20 float64
	SMA50 float64
	RSI   float64

	MACDHist indicators.Value
	BBUpper  indicators.Value
	BBLower  indicators.Value

	Volume    float64
	AvgVolume float64 // trailing 20 bars, latest included
}

// VolumeSpike reports whether the latest volume exceeds 1.5x the trailing
// average.
func (s Snapshot) VolumeSpike() bool {
	return s.Volume > s.AvgVolume*VolumeSpikeFactor
}

// BBBreakout reports whether the close sits outside the Bollinger envelope.
func (s Snapshot) BBBreakout() bool {
	if !s.BBUpper.Valid || !s.BBLower.Valid {
		return false
	}
	return s.Close > s.BBUpper.V || s.Close < s.BBLower.V
}

// Input is everything a strategy may look at for one symbol.
type Input struct {
	Symbol    string
	Timeframe string
	Bars      market.Series
	Snapshot  Snapshot
	Class     regime.Classification

	// Votes from higher timeframes; the zero value allows both sides.
	Votes regime.Votes

	Now time.Time
}

type factory func() Strategy

var registry = map[string]factory{
	"trend":          func() Strategy { return Trend{} },
	"mean-reversion": func() Strategy { return MeanReversion{} },
	"scalp":          func() Strategy { return Scalp{} },
}

// Register adds a strategy constructor under name. Names are matched
// case-insensitively and "_" is treated as "-".
func Register(name string, f func() Strategy) {
	registry[normalize(name)] = f
}

// ByName resolves a registered strategy.
func ByName(name string) (Strategy, error) {
	f, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// ByNames resolves every name, failing on the first unknown one.
func ByNames(names []string) ([]Strategy, error) {
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, err := ByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Names lists the registered strategy keys in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Defaults returns the stock rule set in evaluation order.
func Defaults() []Strategy {
	return []Strategy{Trend{}, MeanReversion{}, Scalp{}}
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}
