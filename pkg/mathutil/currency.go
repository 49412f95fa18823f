// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Round2 rounds to two decimals on the decimal representation of val, so
// 1.005 becomes 1.01 rather than falling victim to binary float error.
func Round2(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(val).Round(2).Float64()
	return f
}

// RoundToNearest rounds val to the nearest multiple of unit.
func RoundToNearest(val, unit float64) float64 {
	if unit == 0 {
		return val
	}
	return math.Round(val/unit) * unit
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// Clamp limits val to [lower, upper]. If upper < lower, lower wins.
func Clamp(val, lower, upper float64) float64 {
	return math.Max(lower, math.Min(val, upper))
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
