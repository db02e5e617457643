package analysis

import (
	"testing"
	"time"

	"github.com/rustyeddy/cryptopilot/indicators"
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/regime"
	"github.com/rustyeddy/cryptopilot/signals"
	"github.com/rustyeddy/cryptopilot/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0  = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now = time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)

	params = strategies.Params{TakeProfitPct: 0.25, StopLossPct: 0.10, Leverage: 20, RiskAmount: 0.2}
)

func series(closes []float64, volume func(i int) float64) market.Series {
	out := make(market.Series, len(closes))
	for i, c := range closes {
		out[i] = market.Bar{
			Time:   t0.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: volume(i),
		}
	}
	return out
}

func flatVolume(int) float64 { return 100 }

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestAnalyzeUptrendFiresTrend(t *testing.T) {
	t.Parallel()

	in := Input{Symbol: "BTCUSDT", Timeframe: "1h", Bars: series(ramp(60, 100, 1), flatVolume)}
	r, err := Run(in, strategies.Defaults(), params, now)
	require.NoError(t, err)

	assert.Equal(t, regime.Classification{Trend: regime.Bullish, Regime: regime.Trending}, r.Class)
	assert.Equal(t, 100.0, r.Snapshot.RSI)
	assert.Equal(t, 149.5, r.Snapshot.SMA20)
	assert.Equal(t, 134.5, r.Snapshot.SMA50)
	assert.Greater(t, r.Snapshot.EMA9, r.Snapshot.EMA21)
	assert.True(t, r.Snapshot.MACDHist.Valid)

	require.Len(t, r.Signals, 1)
	s := r.Signals[0]
	assert.Equal(t, "Trend", s.Strategy)
	assert.Equal(t, signals.Long, s.Side)
	assert.Equal(t, 159.0, s.Entry)
	assert.Equal(t, 140.0, s.Score)
	assert.Equal(t, now, s.Timestamp)
	assert.Equal(t, "1h", s.Timeframe)
	assert.Less(t, s.StopLoss, s.Entry)
	assert.Greater(t, s.StopLoss, s.Liquidation)
}

func TestAnalyzeHigherTimeframeVeto(t *testing.T) {
	t.Parallel()

	in := Input{
		Symbol: "BTCUSDT",
		Bars:   series(ramp(60, 100, 1), flatVolume),
		HigherTimeframes: map[string]market.Series{
			"4h": series(ramp(60, 200, -1), flatVolume),
			"1d": series(ramp(60, 300, -2), flatVolume),
		},
	}
	r, err := Run(in, strategies.Defaults(), params, now)
	require.NoError(t, err)
	assert.Equal(t, regime.Votes{Bearish: 2}, r.Votes)
	assert.Empty(t, r.Signals, "a long against two bearish higher timeframes is dropped")
}

func TestAnalyzeScalpOnVolumeSpike(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	vol := func(i int) float64 {
		if i == 59 {
			return 1000
		}
		return 100
	}

	r, err := Run(Input{Symbol: "ETHUSDT", Bars: series(closes, vol)}, strategies.Defaults(), params, now)
	require.NoError(t, err)

	assert.Equal(t, regime.Scalp, r.Class.Regime)
	assert.Equal(t, 50.0, r.Snapshot.RSI)
	assert.Equal(t, 145.0, r.Snapshot.AvgVolume)

	require.Len(t, r.Signals, 1)
	assert.Equal(t, "Scalp", r.Signals[0].Strategy)
	assert.Equal(t, signals.Short, r.Signals[0].Side)
	assert.Equal(t, 105.0, r.Signals[0].Score)
	assert.True(t, r.Signals[0].VolumeSpike)
}

func TestAnalyzeMeanReversion(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
		if i >= 45 {
			closes[i] = 100 - float64(i-44)*0.05
		}
	}

	sigs, err := Analyze(Input{Symbol: "SOLUSDT", Bars: series(closes, flatVolume)}, strategies.Defaults(), params, now)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "Mean-Reversion", sigs[0].Strategy)
	assert.Equal(t, regime.MeanReversion, sigs[0].Regime)
	assert.Equal(t, signals.Short, sigs[0].Side)
	assert.Equal(t, 85.0, sigs[0].Score)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		bars market.Series
	}{
		{"empty", nil},
		{"short", series(ramp(MinBars-1, 100, 1), flatVolume)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sigs, err := Analyze(Input{Symbol: "X", Bars: tc.bars}, strategies.Defaults(), params, now)
			require.ErrorIs(t, err, indicators.ErrInsufficientData)
			assert.Nil(t, sigs)
		})
	}
}

func TestAnalyzeInvalidBar(t *testing.T) {
	t.Parallel()

	bars := series(ramp(60, 100, 1), flatVolume)
	bars[10].Close = -1

	_, err := Analyze(Input{Symbol: "X", Bars: bars}, strategies.Defaults(), params, now)
	require.Error(t, err)
	assert.NotErrorIs(t, err, indicators.ErrInsufficientData)
}

func TestHigherTrendsEmpty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, HigherTrends(nil))
}
