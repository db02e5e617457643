package indicators

// SMA calculates the trailing Simple Moving Average for the given period.
// Entries before index period-1 are undefined.
func SMA(values []float64, period int) (Series, error) {
	if err := checkPeriod(len(values), period); err != nil {
		return nil, err
	}

	out := make(Series, len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i+1-period : i+1] {
			sum += v
		}
		out[i] = Some(sum / float64(period))
	}
	return out, nil
}

// EMA calculates the Exponential Moving Average for the given period.
//
// The seed is the arithmetic mean of the first period values; each later
// value is folded in with k = 2/(period+1). The output is left-padded with
// period-1 undefined entries so it stays aligned with values.
func EMA(values []float64, period int) (Series, error) {
	if err := checkPeriod(len(values), period); err != nil {
		return nil, err
	}

	k := 2.0 / float64(period+1)
	out := make(Series, len(values))

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	ema := seed / float64(period)
	out[period-1] = Some(ema)

	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
		out[i] = Some(ema)
	}
	return out, nil
}
