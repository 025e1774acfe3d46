// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-report/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total. A zero
// total yields zero rather than NaN or Inf.
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Grow compounds value by a percentage rate over the given number of periods.
func Grow(value, ratePercent float64, periods int) float64 {
	if periods <= 0 {
		return value
	}
	return value * math.Pow(1+ratePercent/constants.PercentageMultiplier, float64(periods))
}

// PresentValue discounts a single cash flow received after the given number
// of periods.
func PresentValue(cashFlow, rate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+rate, float64(periods))
}

// PresentValueOfCashFlows discounts a series of end-of-period cash flows, the
// first of which is received after one period.
func PresentValueOfCashFlows(cashFlows []float64, rate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += PresentValue(cf, rate, t+1)
	}
	return pv
}
