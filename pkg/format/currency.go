// Package format renders numbers the way the project report prints them.
package format

import (
	"fmt"
	"math"
	"strings"
)

// RupeeSymbol is the default currency prefix.
const RupeeSymbol = "₹"

// Currency returns a whole-rupee string with Indian digit grouping
// (e.g., "₹12,34,567" or "-₹500").
func Currency(amount float64) string {
	return CurrencyWithSymbol(amount, RupeeSymbol)
}

// CurrencyWithSymbol is Currency with a caller-chosen symbol.
func CurrencyWithSymbol(amount float64, symbol string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + "0"
	}
	rounded := math.Round(amount)
	if rounded == 0 {
		// avoid "-₹0"
		return symbol + "0"
	}
	formatted := GroupIndian(fmt.Sprintf("%.0f", math.Abs(rounded)))
	if rounded < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// GroupIndian inserts separators into a string of digits using the lakh/crore
// convention: the last three digits form one group, every two digits before
// that form another.
func GroupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var builder strings.Builder
	for i, digit := range head {
		if i > 0 && (len(head)-i)%2 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	builder.WriteByte(',')
	builder.WriteString(tail)
	return builder.String()
}

// Percentage renders a fraction as a percentage with two decimals
// (0.1234 -> "12.34%").
func Percentage(fraction float64) string {
	return fmt.Sprintf("%.2f%%", finite(fraction)*100)
}

// Share renders a value already expressed in percent with one decimal
// (45.26 -> "45.3%").
func Share(percent float64) string {
	return fmt.Sprintf("%.1f%%", finite(percent))
}

// Ratio renders a coverage ratio or index with two decimals.
func Ratio(value float64) string {
	return fmt.Sprintf("%.2f", finite(value))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
