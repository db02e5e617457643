package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	t.Parallel()

	r := New()
	r.Run()
	r.Signal("BTCUSDT", "Trend")
	r.Signal("BTCUSDT", "Trend")
	r.Selected("BTCUSDT", "Trend")
	r.Trade("BTCUSDT", "LONG")
	r.Skip("insufficient_data")
	r.SetBalance(12.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.SignalsTotal.WithLabelValues("BTCUSDT", "Trend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TradesTotal.WithLabelValues("BTCUSDT", "LONG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SymbolsSkipped.WithLabelValues("insufficient_data")))
	assert.Equal(t, 12.5, testutil.ToFloat64(r.Balance))
	assert.Zero(t, testutil.ToFloat64(r.Halts))
}

func TestNilRecorderIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	assert.NotPanics(t, func() {
		r.Run()
		r.Halt()
		r.Signal("X", "Y")
		r.Trade("X", "LONG")
		r.SetBalance(1)
		r.ObserveRun(0.1)
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.Halt()
	r.SetDailyLoss(20)

	path := filepath.Join(t.TempDir(), "pilot.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pilot_halts_total 1")
	assert.Contains(t, string(data), "pilot_daily_loss_pct 20")
}
