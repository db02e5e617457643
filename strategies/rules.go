package strategies

import "github.com/rustyeddy/cryptopilot/regime"

// Rule thresholds.
const (
	MeanReversionRSI  = 40.0
	VolumeSpikeFactor = 1.5
)

// Trend fires in a trending regime while EMA(9) is above EMA(21).
type Trend struct{}

func (Trend) Name() string        { return "Trend" }
func (Trend) Confidence() float64 { return 90 }

func (Trend) Active(in Input) bool {
	return in.Class.Regime == regime.Trending && in.Snapshot.EMA9 > in.Snapshot.EMA21
}

// MeanReversion fires in a mean-reversion regime while RSI is below 40.
type MeanReversion struct{}

func (MeanReversion) Name() string        { return "Mean-Reversion" }
func (MeanReversion) Confidence() float64 { return 85 }

func (MeanReversion) Active(in Input) bool {
	return in.Class.Regime == regime.MeanReversion && in.Snapshot.RSI < MeanReversionRSI
}

// Scalp fires in a scalp regime on a volume spike.
type Scalp struct{}

func (Scalp) Name() string        { return "Scalp" }
func (Scalp) Confidence() float64 { return 80 }

func (Scalp) Active(in Input) bool {
	return in.Class.Regime == regime.Scalp && in.Snapshot.VolumeSpike()
}
