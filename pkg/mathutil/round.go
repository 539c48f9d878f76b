// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/macro-planner/pkg/constants"
)

// RoundHalfUp rounds to the nearest integer with ties going toward positive
// infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func RoundHalfUp(val float64) int {
	return int(math.Floor(val + 0.5))
}

// RoundTo rounds a value to the given number of decimals using RoundHalfUp
// semantics. Used for display values such as BMR.
func RoundTo(val float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(val*scale+0.5) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// ApplyPercentage applies a percentage to a value. The multiplication comes
// first so whole-number inputs stay exact.
func ApplyPercentage(value, percentage float64) float64 {
	return value * percentage / constants.PercentageMultiplier
}

// MaxInt returns the larger of two ints.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
