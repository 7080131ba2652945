package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a reported value to 2 decimal places, half away from zero
// on the shortest decimal representation of v. A degree printed as 29.995
// therefore reports 30.00, not the 29.99 that rounding the binary value
// gives.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
