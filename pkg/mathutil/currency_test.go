package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round up", -1.235, -1.24},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Exactly one cent", 0.01, 0.01},
		{"Nearly two cents", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Blank cost component", 0.0, true},
		{"Rounding residue", 0.004, true},
		{"Negative rounding residue", -0.004, true},
		{"One paisa", 0.01, true},
		{"Two paise", 0.02, false},
		{"Refund of two paise", -0.02, false},
		{"Land cost", 150000.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsPositive(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Year's cash accrual", 245000.0, true},
		{"Two paise", 0.02, true},
		{"One paisa", 0.01, false},
		{"Rounding residue", 0.004, false},
		{"Nothing", 0.0, false},
		{"Cash loss", -18000.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPositive(tt.input)
			if result != tt.expected {
				t.Errorf("IsPositive(%v) = %v, expected %v", tt.input, result, tt.expected)
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
		{"Components match total", 1000000, 1000000, 1.0, true},
		{"Components off by a rupee", 1000000, 1000001, 1.0, true},
		{"Components off by a thousand", 1000000, 999000, 1.0, false},
		{"Whole months from years", 7.5 * 12, 90, 1e-6, true},
		{"Fractional month", 1.05 * 12, 13, 1e-6, false},
		{"Zero tolerance exact match", 60, 60, 0.0, true},
		{"Zero tolerance no match", 60, 60.001, 0.0, false},
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
		{"50% of 100", 50.0, 100.0, 50.0},
		{"25% of 200", 50.0, 200.0, 25.0},
		{"100% of value", 100.0, 100.0, 100.0},
		{"More than 100%", 150.0, 100.0, 150.0},
		{"Zero value", 0.0, 100.0, 0.0},
		{"Zero total", 50.0, 0.0, 0.0},
		{"Both zero", 0.0, 0.0, 0.0},
		{"Negative value", -50.0, 100.0, -50.0},
		{"Negative total", 50.0, -100.0, -50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v",
					tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"50% of 100", 100.0, 50.0, 50.0},
		{"25% of 200", 200.0, 25.0, 50.0},
		{"100% of value", 100.0, 100.0, 100.0},
		{"150% of value", 100.0, 150.0, 150.0},
		{"0% of value", 100.0, 0.0, 0.0},
		{"Percentage of zero", 0.0, 50.0, 0.0},
		{"Negative percentage", 100.0, -50.0, -50.0},
		{"Negative value", -100.0, 50.0, -50.0},
		{"Small percentage", 100.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPercentage(tt.value, tt.percentage)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v",
					tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}

func TestGrow(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		rate     float64
		periods  int
		expected float64
	}{
		{"No periods", 1000, 10, 0, 1000},
		{"One period", 1000, 10, 1, 1100},
		{"Two periods compound", 1000, 10, 2, 1210},
		{"Zero rate", 1000, 0, 5, 1000},
		{"Negative rate", 1000, -10, 1, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Grow(tt.value, tt.rate, tt.periods)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Grow(%v, %v, %v) = %v, expected %v", tt.value, tt.rate, tt.periods, result, tt.expected)
			}
		})
	}
}

func TestPresentValueOfCashFlows(t *testing.T) {
	pv := PresentValueOfCashFlows([]float64{110, 121}, 0.10)
	if math.Abs(pv-200) > 0.001 {
		t.Errorf("PresentValueOfCashFlows = %v, expected 200", pv)
	}

	if PresentValue(100, 0.1, -1) != 0 {
		t.Errorf("PresentValue with negative periods should be 0")
	}

	if got := PresentValueOfCashFlows(nil, 0.1); got != 0 {
		t.Errorf("PresentValueOfCashFlows(nil) = %v, expected 0", got)
	}
}
