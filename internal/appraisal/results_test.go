package appraisal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdict(t *testing.T) {
	tests := []struct {
		name     string
		npv      float64
		average  float64
		expected Verdict
	}{
		{name: "strong", npv: 1, average: 1.25, expected: VerdictRecommended},
		{name: "positive npv weak coverage", npv: 1, average: 1.1, expected: VerdictMonitor},
		{name: "positive npv poor coverage", npv: 1, average: 0.5, expected: VerdictMonitor},
		{name: "zero npv", npv: 0, average: 2, expected: VerdictReview},
		{name: "negative npv", npv: -100, average: 1.5, expected: VerdictReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CalculatedResults{
				DSCRCalculation:  DSCRCalculation{Average: tt.average},
				ProjectViability: Viability{NPV: tt.npv},
			}
			if got := r.Verdict(); got != tt.expected {
				t.Errorf("Verdict() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "RECOMMENDED", VerdictRecommended.String())
	assert.Equal(t, "MONITOR CLOSELY", VerdictMonitor.String())
	assert.Equal(t, "REQUIRES REVIEW", VerdictReview.String())
}

func TestRateDSCR(t *testing.T) {
	tests := []struct {
		average  float64
		expected DSCRRating
	}{
		{average: 2.0, expected: RatingExcellent},
		{average: 1.25, expected: RatingExcellent},
		{average: 1.2499, expected: RatingAdequate},
		{average: 1.0, expected: RatingAdequate},
		{average: 0.99, expected: RatingRisk},
		{average: 0, expected: RatingRisk},
	}

	for _, tt := range tests {
		if got := RateDSCR(tt.average); got != tt.expected {
			t.Errorf("RateDSCR(%v) = %v, expected %v", tt.average, got, tt.expected)
		}
	}
}

func TestRepaymentYearDerivedValues(t *testing.T) {
	year := RepaymentYear{Year: 2, OutstandingPrincipalStart: 500000, Principal: 120000, Interest: 45000}
	assert.Equal(t, 380000.0, year.ClosingBalance())
	assert.Equal(t, 165000.0, year.Installments())
}

func TestCalculatedResultsJSONShape(t *testing.T) {
	payload := `{
		"loanAmount": 650000,
		"emi": 14000,
		"costBreakdown": [{"category": "Land", "amount": 100, "percentage": 100}],
		"loanRepaymentSchedule": [{"year": 1, "outstandingPrincipalStart": 650000, "principal": 50000, "interest": 60000}],
		"profitabilityStatement": [{"year": 1, "income": 10, "totalExpenses": 5, "netIncomeBeforeID": 5, "interest": 1, "depreciation": 1, "netProfitBeforeTax": 3}],
		"cashFlowStatement": [{"year": 1, "netProfit": 3, "addDepreciation": 1, "addInterest": 1, "netCashAccruals": 5}],
		"dscrCalculation": {"data": [{"year": 1, "netCashAccrual": 5, "debtObligation": 4, "dscr": 1.25}], "average": 1.25},
		"projectViability": {"npv": 1, "irr": 0.18, "paybackPeriod": 3.5, "profitabilityIndex": 1.2}
	}`

	var r CalculatedResults
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	assert.Equal(t, 650000.0, r.LoanAmount)
	assert.Equal(t, "Land", r.CostBreakdown[0].Category)
	assert.Equal(t, 650000.0, r.LoanRepaymentSchedule[0].OutstandingPrincipalStart)
	assert.Equal(t, 5.0, r.ProfitabilityStatement[0].NetIncomeBeforeID)
	assert.Equal(t, 5.0, r.CashFlowStatement[0].NetCashAccruals)
	assert.Equal(t, 1.25, r.DSCRCalculation.Data[0].DSCR)
	assert.Equal(t, 0.18, r.ProjectViability.IRR)
	assert.Equal(t, VerdictRecommended, r.Verdict())
}
