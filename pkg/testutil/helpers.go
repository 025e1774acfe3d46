// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/loan-report/internal/project"
)

// SampleProject returns a dairy unit application with every figure the
// appraisal needs: a 10 lakh project, 1 lakh promoter's contribution and
// 2.5 lakh subsidy, leaving a 6.5 lakh loan at 10% over 5 years with a
// 6 month moratorium.
func SampleProject() project.ProjectData {
	return project.ProjectData{
		BeneficiaryName:         "Asha Devi",
		ProjectName:             "Dairy Unit",
		TotalProjectCost:        "10,00,000",
		PromotersContribution:   "100000",
		Subsidy:                 "250000",
		RateOfInterest:          "10",
		LoanTenureYears:         "5",
		MoratoriumPeriodMonths:  "6",
		ProjectedAnnualRevenue:  "800000",
		ProjectedAnnualExpenses: "500000",
		RevenueGrowthRate:       "5",
		ExpenseGrowthRate:       "4",
		DepreciationRate:        "15",
		MachineryEquipmentCost:  "600000",
		ShedBuildingCost:        "200000",
		WorkingCapitalCost:      "200000",
	}
}

// WithValues returns a copy of p with the named fields replaced. Unknown
// field names are ignored.
func WithValues(p project.ProjectData, values map[string]string) project.ProjectData {
	for name, value := range values {
		p.Set(name, value)
	}
	return p
}
