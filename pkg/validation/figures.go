package validation

import (
	"fmt"

	"github.com/iwvelando/loan-report/pkg/mathutil"
)

// componentTolerance is how far the cost components may drift from the total
// project cost before a warning is raised (one rupee).
const componentTolerance = 1.0

// ProjectFigures are the numeric inputs of an application that are checked
// for consistency before an appraisal.
type ProjectFigures struct {
	TotalCost            float64
	PromoterContribution float64
	Subsidy              float64
	ComponentTotal       float64
	InterestRate         float64 // annual, percent
	TenureMonths         int
	MoratoriumMonths     int
	Revenue              float64
	Expenses             float64
}

// ValidateFunding checks that the promoter's contribution and subsidy leave
// something for the bank to finance.
func ValidateFunding(totalCost, promoter, subsidy float64) string {
	if totalCost <= 0 {
		return ""
	}
	if own := promoter + subsidy; own >= totalCost {
		return fmt.Sprintf("Promoter's contribution and subsidy (%.2f) cover the total project cost (%.2f) - no bank loan is required",
			own, totalCost)
	}
	return ""
}

// ValidateComponents checks that the itemised costs add up to the total.
func ValidateComponents(totalCost, componentTotal float64) string {
	if mathutil.IsZero(componentTotal) {
		return ""
	}
	if !mathutil.WithinTolerance(componentTotal, totalCost, componentTolerance) {
		return fmt.Sprintf("Cost components add up to %.2f but the total project cost is %.2f",
			componentTotal, totalCost)
	}
	return ""
}

// ValidateAll returns every warning that applies.
func (f ProjectFigures) ValidateAll() []string {
	var warnings []string

	if warning := ValidateFunding(f.TotalCost, f.PromoterContribution, f.Subsidy); warning != "" {
		warnings = append(warnings, warning)
	}
	if warning := ValidateComponents(f.TotalCost, f.ComponentTotal); warning != "" {
		warnings = append(warnings, warning)
	}
	if f.InterestRate == 0 {
		warnings = append(warnings, "Interest rate is not set - the loan is treated as interest free")
	}
	if f.TenureMonths > 0 && f.MoratoriumMonths*2 > f.TenureMonths {
		warnings = append(warnings, fmt.Sprintf("Moratorium of %d months is more than half of the %d month tenure",
			f.MoratoriumMonths, f.TenureMonths))
	}
	if f.Revenue == 0 {
		warnings = append(warnings, "Projected annual revenue is not set")
	} else if f.Expenses > f.Revenue {
		warnings = append(warnings, fmt.Sprintf("Projected expenses (%.2f) exceed projected revenue (%.2f)",
			f.Expenses, f.Revenue))
	}

	return warnings
}
