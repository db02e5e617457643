package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds x half away from zero to the given number of decimal places.
// Decimal arithmetic keeps persisted balances stable (10.1 stays 10.1, not
// 10.099999999).
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// PctChange returns the percent change from prev to cur, rounded to 2
// places. A zero prev yields 0.
func PctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return Round((cur-prev)/prev*100, 2)
}
