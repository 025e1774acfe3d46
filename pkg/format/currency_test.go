package format

import (
	"math"
	"testing"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "₹0"},
		{"Hundreds", 999, "₹999"},
		{"Thousands", 1000, "₹1,000"},
		{"Lakh", 100000, "₹1,00,000"},
		{"Crore", 12345678, "₹1,23,45,678"},
		{"Rounds half up", 1499.5, "₹1,500"},
		{"Drops paise", 2500.49, "₹2,500"},
		{"Negative", -500, "-₹500"},
		{"Negative lakh", -250000, "-₹2,50,000"},
		{"Negative rounds to zero", -0.4, "₹0"},
		{"NaN", math.NaN(), "₹0"},
		{"Infinity", math.Inf(1), "₹0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestCurrencyWithSymbol(t *testing.T) {
	if got := CurrencyWithSymbol(1234567, "Rs. "); got != "Rs. 12,34,567" {
		t.Errorf("CurrencyWithSymbol() = %q", got)
	}
}

func TestGroupIndian(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"1":          "1",
		"123":        "123",
		"1234":       "1,234",
		"12345":      "12,345",
		"123456":     "1,23,456",
		"1234567":    "12,34,567",
		"123456789":  "12,34,56,789",
		"1000000000": "1,00,00,00,000",
	}
	for in, expected := range tests {
		if got := GroupIndian(in); got != expected {
			t.Errorf("GroupIndian(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestPercentageAndShare(t *testing.T) {
	if got := Percentage(0.1234); got != "12.34%" {
		t.Errorf("Percentage(0.1234) = %q", got)
	}
	if got := Percentage(-0.05); got != "-5.00%" {
		t.Errorf("Percentage(-0.05) = %q", got)
	}
	if got := Percentage(math.NaN()); got != "0.00%" {
		t.Errorf("Percentage(NaN) = %q", got)
	}
	if got := Share(45.26); got != "45.3%" {
		t.Errorf("Share(45.26) = %q", got)
	}
	if got := Share(100); got != "100.0%" {
		t.Errorf("Share(100) = %q", got)
	}
	if got := Ratio(1.254); got != "1.25" {
		t.Errorf("Ratio(1.254) = %q", got)
	}
}
