// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-schedule/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinRelativeTolerance checks if two values agree to within tolerance
// relative to the larger magnitude. Values near zero fall back to an
// absolute comparison.
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(val1-val2) <= tolerance*scale
}

// MonthlyRate converts an annual percentage rate into a monthly fraction,
// e.g. 12 -> 0.01.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / constants.MonthsPerYear / constants.PercentageMultiplier
}
