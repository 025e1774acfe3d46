package appraisal

import (
	"math"

	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/validation"
)

// Warnings lists inconsistencies in the form values that do not stop an
// appraisal but that a loan officer should look at.
func Warnings(p project.ProjectData) []string {
	var componentTotal float64
	for _, c := range costComponents {
		componentTotal += p.Number(c.field)
	}

	figures := validation.ProjectFigures{
		TotalCost:            p.Number(project.FieldTotalProjectCost),
		PromoterContribution: p.Number(project.FieldPromotersContribution),
		Subsidy:              p.Number(project.FieldSubsidy),
		ComponentTotal:       componentTotal,
		InterestRate:         p.Number(project.FieldRateOfInterest),
		TenureMonths:         int(math.Round(p.Number(project.FieldLoanTenureYears) * constants.MonthsPerYear)),
		MoratoriumMonths:     int(math.Round(p.Number(project.FieldMoratoriumPeriodMonths))),
		Revenue:              p.Number(project.FieldProjectedAnnualRevenue),
		Expenses:             p.Number(project.FieldProjectedAnnualExpenses),
	}
	return figures.ValidateAll()
}
