package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptopilot/analysis"
	"github.com/rustyeddy/cryptopilot/config"
	"github.com/rustyeddy/cryptopilot/indicators"
	"github.com/rustyeddy/cryptopilot/journal"
	"github.com/rustyeddy/cryptopilot/market"
	"github.com/rustyeddy/cryptopilot/metrics"
	"github.com/rustyeddy/cryptopilot/risk"
	"github.com/rustyeddy/cryptopilot/signals"
)

var now = time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func bars(closes []float64, volume func(i int) float64) market.Series {
	t0 := now.Add(-time.Duration(len(closes)) * time.Hour)
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

func flat(int) float64 { return 100 }

// uptrend fires the Trend strategy (score 140).
func uptrend() market.Series {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return bars(closes, flat)
}

// chop with a final volume spike fires the Scalp strategy (score 105).
func chop() market.Series {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	return bars(closes, func(i int) float64 {
		if i == 59 {
			return 1000
		}
		return 100
	})
}

func inputs() []analysis.Input {
	return []analysis.Input{
		{Symbol: "ETHUSDT", Timeframe: "1h", Bars: chop()},
		{Symbol: "SOLUSDT", Timeframe: "1h", Bars: uptrend()[:30]},
		{Symbol: "BTCUSDT", Timeframe: "1h", Bars: uptrend()},
		{Symbol: "DOGEUSDT", Timeframe: "1h"},
	}
}

func newEngine(t *testing.T, store journal.Store, mutate func(*config.Engine), opts ...Option) *Engine {
	t.Helper()
	cfg := config.Default().Engine
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg, store, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return e
}

func TestRunRanksAndBooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := journal.NewMemory()
	rec := metrics.New()
	e := newEngine(t, store, nil, WithMetrics(rec))

	res, err := e.Run(ctx, inputs())
	require.NoError(t, err)
	assert.False(t, res.Halted)

	// Pool keeps input order; ranking puts the trend signal first.
	require.Len(t, res.Signals, 2)
	assert.Equal(t, "ETHUSDT", res.Signals[0].Symbol)
	assert.Equal(t, "BTCUSDT", res.Signals[1].Symbol)

	require.Len(t, res.Selected, 2)
	assert.Equal(t, "BTCUSDT", res.Selected[0].Symbol)
	assert.Equal(t, 140.0, res.Selected[0].Score)
	assert.Equal(t, "ETHUSDT", res.Selected[1].Symbol)
	assert.Equal(t, signals.Short, res.Selected[1].Side)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, "BTCUSDT", res.Trades[0].Symbol)
	assert.Equal(t, "ETHUSDT", res.Trades[1].Symbol)
	for _, tr := range res.Trades {
		assert.Equal(t, now, tr.Timestamp)
	}

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "SOLUSDT", res.Skipped[0].Symbol)
	assert.ErrorIs(t, res.Skipped[0].Err, indicators.ErrInsufficientData)
	assert.Equal(t, "DOGEUSDT", res.Skipped[1].Symbol)
	assert.ErrorIs(t, res.Skipped[1].Err, indicators.ErrInsufficientData)

	assert.Equal(t, 10.0, res.StartBalance)
	assert.InDelta(t, res.StartBalance+res.Trades[0].PnL+res.Trades[1].PnL, res.EndBalance, 1e-4)

	stored, ok, err := store.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, res.EndBalance, stored)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.SymbolsSkipped.WithLabelValues("insufficient_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.TradesTotal.WithLabelValues("BTCUSDT", "LONG")))
	assert.Equal(t, res.EndBalance, testutil.ToFloat64(rec.Balance))
}

func TestRunTopN(t *testing.T) {
	t.Parallel()

	e := newEngine(t, journal.NewMemory(), func(c *config.Engine) { c.TopN = 1 })
	res, err := e.Run(context.Background(), inputs())
	require.NoError(t, err)
	assert.Len(t, res.Signals, 2)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "BTCUSDT", res.Trades[0].Symbol)
}

func TestRunHaltsOnDailyLoss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := journal.NewMemory()
	require.NoError(t, store.Apply(ctx, journal.Trade{ID: "L1", PnL: -2, Timestamp: now.Add(-time.Hour)}, 10))

	var logs bytes.Buffer
	rec := metrics.New()
	e := newEngine(t, store, nil, WithMetrics(rec), WithLogger(zerolog.New(&logs)))

	res, err := e.Run(ctx, inputs())
	require.ErrorIs(t, err, risk.ErrLossLimitExceeded)
	assert.True(t, res.Halted)
	assert.Equal(t, 20.0, res.DailyLossPct)
	assert.Empty(t, res.Signals)
	assert.Empty(t, res.Trades)
	assert.Len(t, store.Trades(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Halts))
	assert.Contains(t, logs.String(), "daily loss limit reached")
}

func TestRunContinuesLedgerAcrossRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := journal.NewMemory()
	e := newEngine(t, store, nil)

	first, err := e.Run(ctx, inputs())
	require.NoError(t, err)
	second, err := e.Run(ctx, inputs())
	require.NoError(t, err)

	assert.Equal(t, first.EndBalance, second.StartBalance)
	assert.Len(t, store.Trades(), 4)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func() Result {
		e := newEngine(t, journal.NewMemory(), func(c *config.Engine) { c.Concurrency = 4 })
		res, err := e.Run(context.Background(), inputs())
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.Signals, b.Signals)
	assert.Equal(t, a.EndBalance, b.EndBalance)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := journal.NewMemory()
	e := newEngine(t, store, nil)
	_, err := e.Run(ctx, inputs())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Trades())
}

func TestNewUnknownStrategy(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Engine
	cfg.Strategies = []string{"grid"}
	_, err := New(cfg, journal.NewMemory())
	assert.Error(t, err)
}

// flakyStore accepts the first ok trades and rejects the rest.
type flakyStore struct {
	*journal.MemoryStore
	ok int
}

func (s *flakyStore) Apply(ctx context.Context, t journal.Trade, balance float64) error {
	if s.ok == 0 {
		return errors.New("disk full")
	}
	s.ok--
	return s.MemoryStore.Apply(ctx, t, balance)
}

func TestRunPartialBookingReportsStoredBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &flakyStore{MemoryStore: journal.NewMemory(), ok: 1}
	e := newEngine(t, store, nil)

	res, err := e.Run(ctx, inputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.Len(t, res.Trades, 1)

	stored, ok, err := store.Balance(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, res.EndBalance)
	assert.NotEqual(t, res.StartBalance, res.EndBalance)
}
