package indicators

import "math"

// Bollinger defaults.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// Band is one Bollinger sample. During warmup all three are undefined.
type Band struct {
	Upper  Value
	Middle Value
	Lower  Value
}

// BollingerBands computes an SMA envelope of +/- stdDev population standard
// deviations over a trailing window. A flat window collapses the bands onto
// the mean.
func BollingerBands(values []float64, period int, stdDev float64) ([]Band, error) {
	mean, err := SMA(values, period)
	if err != nil {
		return nil, err
	}

	out := make([]Band, len(values))
	for i := period - 1; i < len(values); i++ {
		m := mean[i].V
		variance := 0.0
		for _, x := range values[i+1-period : i+1] {
			d := x - m
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))

		out[i] = Band{
			Upper:  Some(m + stdDev*std),
			Middle: Some(m),
			Lower:  Some(m - stdDev*std),
		}
	}
	return out, nil
}
