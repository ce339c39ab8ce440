package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundCents rounds v to 2 decimal places, half away from zero.
// The decimal conversion uses the shortest representation of v, so values
// such as 1.005 round to 1.01 instead of falling victim to binary tails.
// NaN and infinities have no cent value and are returned unchanged.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
