package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestSMA(t *testing.T) {
	t.Parallel()

	s, err := SMA([]float64{102, 105, 106, 108, 110, 111, 113, 114, 116, 118}, 5)
	require.NoError(t, err)
	require.Len(t, s, 10)
	assert.Equal(t, 4, s.Leading())
	// Last 5 closes: 111,113,114,116,118 => 572/5 = 114.4
	assert.InDelta(t, 114.4, s.Last().V, 1e-9)
	assert.InDelta(t, 106.2, s[4].V, 1e-9)
}

func TestEMA(t *testing.T) {
	t.Parallel()

	s, err := EMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.Equal(t, Series{None, None, Some(2), Some(3), Some(4), Some(5)}, s)
}

func TestMovingAverageAlignment(t *testing.T) {
	t.Parallel()

	values := []float64{10, 11, 9, 12, 13, 11, 14, 15, 13, 16, 17, 15, 18, 19, 17, 20}
	for _, period := range []int{1, 2, 5, 9, 16} {
		ema, err := EMA(values, period)
		require.NoError(t, err)
		sma, err := SMA(values, period)
		require.NoError(t, err)

		for _, s := range []Series{ema, sma} {
			assert.Len(t, s, len(values))
			assert.Equal(t, period-1, s.Leading(), "period %d", period)
			for i := period - 1; i < len(s); i++ {
				assert.True(t, s[i].Valid)
			}
		}
	}
}

func TestMovingAverageErrors(t *testing.T) {
	t.Parallel()

	_, err := EMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = SMA(nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}

func TestRSI(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 11, 9, 12, 13, 11, 14, 15, 13, 16, 17, 15, 18, 19, 17, 20, 21, 19, 22, 23}
	// Last 14 deltas: five +3, five +1, four -2 => RS = (20/14)/(8/14) = 2.5
	assert.Equal(t, 71.43, RSI(closes, DefaultRSIPeriod))

	assert.Equal(t, 100.0, RSI(linear(15), DefaultRSIPeriod))
	assert.Equal(t, 100.0, RSI(linear(40), DefaultRSIPeriod))
	assert.Equal(t, NeutralRSI, RSI(linear(14), DefaultRSIPeriod))
	assert.Equal(t, NeutralRSI, RSI(nil, DefaultRSIPeriod))

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	assert.Equal(t, 0.0, RSI(falling, DefaultRSIPeriod))
}

func TestRSIBounds(t *testing.T) {
	t.Parallel()

	series := [][]float64{
		{5, 4, 6, 3, 7, 2, 8, 1, 9, 1, 9, 2, 8, 3, 7, 4},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{100, 101, 99, 98, 102, 97, 103, 96, 104, 95, 105, 94, 106, 93, 107},
	}
	for _, s := range series {
		v := RSI(s, DefaultRSIPeriod)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestMACDLinear(t *testing.T) {
	t.Parallel()

	// On a linear series EMA(p) lags by (p-1)/2, so the line is constant
	// (26-1)/2 - (12-1)/2 = 7 and the histogram is flat.
	res, err := MACD(linear(60), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)

	assert.Len(t, res.Line, 60)
	assert.Len(t, res.Signal, 60)
	assert.Len(t, res.Histogram, 60)

	assert.Equal(t, 25, res.Line.Leading())
	assert.Equal(t, 33, res.Signal.Leading())
	assert.Equal(t, 33, res.Histogram.Leading())

	assert.InDelta(t, 7.0, res.Line.Last().V, 1e-9)
	assert.InDelta(t, 7.0, res.Signal.Last().V, 1e-9)
	assert.InDelta(t, 0.0, res.Histogram.Last().V, 1e-9)
	assert.True(t, res.Histogram.Last().Valid)
}

func TestMACDFlatIsDefinedZero(t *testing.T) {
	t.Parallel()

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 3
	}
	res, err := MACD(flat, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)

	// A zero MACD is a value, not an absence.
	assert.True(t, res.Line.Last().Valid)
	assert.InDelta(t, 0.0, res.Line.Last().V, 1e-12)
	assert.True(t, res.Histogram.Last().Valid)
	assert.InDelta(t, 0.0, res.Histogram.Last().V, 1e-12)
}

func TestMACDInsufficient(t *testing.T) {
	t.Parallel()

	_, err := MACD(linear(20), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Enough for the slow EMA but not for the signal line.
	_, err = MACD(linear(30), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = MACD(linear(60), 0, DefaultMACDSlow, DefaultMACDSignal)
	assert.Error(t, err)
}

func TestBollingerBands(t *testing.T) {
	t.Parallel()

	values := []float64{10, 11, 9, 12, 13, 11, 14, 15, 13, 16, 17, 15, 18, 19, 17, 20, 21, 19, 22, 23, 21, 24}
	bands, err := BollingerBands(values, DefaultBollingerPeriod, DefaultBollingerStdDev)
	require.NoError(t, err)
	require.Len(t, bands, len(values))

	for i, b := range bands {
		if i < DefaultBollingerPeriod-1 {
			assert.Equal(t, Band{}, b)
			continue
		}
		require.True(t, b.Middle.Valid)
		assert.GreaterOrEqual(t, b.Upper.V, b.Middle.V)
		assert.GreaterOrEqual(t, b.Middle.V, b.Lower.V)
		assert.InDelta(t, b.Upper.V-b.Middle.V, b.Middle.V-b.Lower.V, 1e-9)
	}
}

func TestBollingerBandsKnownWindow(t *testing.T) {
	t.Parallel()

	// Window {2,4,4,4,5,5,7,9}: mean 5, population std 2.
	bands, err := BollingerBands([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2)
	require.NoError(t, err)

	last := bands[7]
	assert.InDelta(t, 9.0, last.Upper.V, 1e-9)
	assert.InDelta(t, 5.0, last.Middle.V, 1e-9)
	assert.InDelta(t, 1.0, last.Lower.V, 1e-9)
}

func TestBollingerBandsFlatCollapse(t *testing.T) {
	t.Parallel()

	flat := []float64{7, 7, 7, 7, 7}
	bands, err := BollingerBands(flat, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, Band{Upper: Some(7), Middle: Some(7), Lower: Some(7)}, bands[4])

	_, err = BollingerBands(flat, 6, 2)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAverageVolume(t *testing.T) {
	t.Parallel()

	avg, err := AverageVolume([]float64{1, 2, 3, 4, 10}, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.75, avg, 1e-12)

	_, err = AverageVolume([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSeriesHelpers(t *testing.T) {
	t.Parallel()

	s := Series{None, Some(1), Some(2)}
	assert.Equal(t, []float64{1, 2}, s.Defined())
	assert.Equal(t, 1, s.Leading())
	assert.Equal(t, Some(2), s.Last())
	assert.Equal(t, None, Series{}.Last())
	assert.Equal(t, 3, s.Len())
}
