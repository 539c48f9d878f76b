package mathutil

import (
	"math"
	"testing"
)

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{"Round up at midpoint", 22.5, 23},
		{"Round down below midpoint", 194.49, 194},
		{"Round up above midpoint", 194.55, 195},
		{"No rounding needed", 300, 300},
		{"Negative midpoint rounds toward positive", -2.5, -2},
		{"Negative below midpoint", -2.6, -3},
		{"Negative above midpoint", -2.4, -2},
		{"Zero", 0.0, 0},
		{"Repeating fraction", 466.6666666, 467},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundHalfUp(tt.input)
			if result != tt.expected {
				t.Errorf("RoundHalfUp(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		decimals int
		expected float64
	}{
		{"Two decimals", 2594.3125, 2, 2594.31},
		{"Two decimals midpoint", 1.125, 2, 1.13},
		{"Zero decimals", 2507.5, 0, 2508},
		{"Already exact", 1673.75, 2, 1673.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundTo(tt.input, tt.decimals)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundTo(%v, %d) = %v, expected %v", tt.input, tt.decimals, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Equal values", 100, 100, 0, true},
		{"Within tolerance", 100, 100.5, 1, true},
		{"Exactly at tolerance", 100, 101, 1, true},
		{"Outside tolerance", 100, 101.5, 1, false},
		{"Negative values", -50, -50.2, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Half", 50, 100, 50},
		{"Overshoot", 100, 2000, 5},
		{"Negative deviation", -200, 2000, -10},
		{"Zero total", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	if got := ApplyPercentage(2000, 70); math.Abs(got-1400) > 1e-9 {
		t.Errorf("ApplyPercentage(2000, 70) = %v, expected 1400", got)
	}
	if got := ApplyPercentage(2000, 0); got != 0 {
		t.Errorf("ApplyPercentage(2000, 0) = %v, expected 0", got)
	}
}

func TestIntHelpers(t *testing.T) {
	if MaxInt(100, 42) != 100 {
		t.Error("MaxInt(100, 42) should be 100")
	}
	if MaxInt(-5, -7) != -5 {
		t.Error("MaxInt(-5, -7) should be -5")
	}
}
