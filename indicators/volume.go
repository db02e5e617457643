package indicators

// AverageVolume returns the mean of the last window volumes, including the
// most recent one.
func AverageVolume(volumes []float64, window int) (float64, error) {
	if err := checkPeriod(len(volumes), window); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}
