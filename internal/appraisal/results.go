// Package appraisal computes the financial results a project report is
// rendered from: the loan schedule, the projected statements, debt service
// coverage and discounted-cash-flow viability metrics.
package appraisal

import "github.com/iwvelando/loan-report/pkg/constants"

// CostItem is one line of the cost breakdown. Percentage is a share of the
// breakdown total in the range 0..100.
type CostItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// RepaymentYear summarises one year of the loan.
type RepaymentYear struct {
	Year                      int     `json:"year"`
	OutstandingPrincipalStart float64 `json:"outstandingPrincipalStart"`
	Principal                 float64 `json:"principal"`
	Interest                  float64 `json:"interest"`
}

// ClosingBalance is the principal still owed at the end of the year.
func (r RepaymentYear) ClosingBalance() float64 {
	return r.OutstandingPrincipalStart - r.Principal
}

// Installments is the total paid to the bank during the year.
func (r RepaymentYear) Installments() float64 {
	return r.Principal + r.Interest
}

// ProfitabilityYear is one row of the projected profit and loss statement.
// NetIncomeBeforeID is the operating result before interest and depreciation.
type ProfitabilityYear struct {
	Year               int     `json:"year"`
	Income             float64 `json:"income"`
	TotalExpenses      float64 `json:"totalExpenses"`
	NetIncomeBeforeID  float64 `json:"netIncomeBeforeID"`
	Interest           float64 `json:"interest"`
	Depreciation       float64 `json:"depreciation"`
	NetProfitBeforeTax float64 `json:"netProfitBeforeTax"`
}

// CashFlowYear is one row of the projected cash flow statement.
type CashFlowYear struct {
	Year            int     `json:"year"`
	NetProfit       float64 `json:"netProfit"`
	AddDepreciation float64 `json:"addDepreciation"`
	AddInterest     float64 `json:"addInterest"`
	NetCashAccruals float64 `json:"netCashAccruals"`
}

// DSCRYear is the coverage for one repayment year.
type DSCRYear struct {
	Year           int     `json:"year"`
	NetCashAccrual float64 `json:"netCashAccrual"`
	DebtObligation float64 `json:"debtObligation"`
	DSCR           float64 `json:"dscr"`
}

// DSCRCalculation holds the per-year series and its mean.
type DSCRCalculation struct {
	Data    []DSCRYear `json:"data"`
	Average float64    `json:"average"`
}

// Viability holds the discounted-cash-flow metrics. IRR is a fraction and
// PaybackPeriod is in years, 0 when the investment is never recovered.
type Viability struct {
	NPV                float64 `json:"npv"`
	IRR                float64 `json:"irr"`
	PaybackPeriod      float64 `json:"paybackPeriod"`
	ProfitabilityIndex float64 `json:"profitabilityIndex"`
}

// CalculatedResults is everything the report renders besides the form values.
type CalculatedResults struct {
	LoanAmount             float64             `json:"loanAmount"`
	EMI                    float64             `json:"emi"`
	CostBreakdown          []CostItem          `json:"costBreakdown"`
	LoanRepaymentSchedule  []RepaymentYear     `json:"loanRepaymentSchedule"`
	ProfitabilityStatement []ProfitabilityYear `json:"profitabilityStatement"`
	CashFlowStatement      []CashFlowYear      `json:"cashFlowStatement"`
	DSCRCalculation        DSCRCalculation     `json:"dscrCalculation"`
	ProjectViability       Viability           `json:"projectViability"`
}

// Verdict is the overall recommendation derived from NPV and average DSCR.
type Verdict int

const (
	VerdictReview Verdict = iota
	VerdictMonitor
	VerdictRecommended
)

// String returns the badge label.
func (v Verdict) String() string {
	switch v {
	case VerdictRecommended:
		return "RECOMMENDED"
	case VerdictMonitor:
		return "MONITOR CLOSELY"
	default:
		return "REQUIRES REVIEW"
	}
}

// Verdict classifies the results: positive NPV with strong coverage is
// recommended, positive NPV alone needs monitoring, anything else a review.
func (r CalculatedResults) Verdict() Verdict {
	switch {
	case r.ProjectViability.NPV > 0 && r.DSCRCalculation.Average >= constants.StrongDSCR:
		return VerdictRecommended
	case r.ProjectViability.NPV > 0:
		return VerdictMonitor
	default:
		return VerdictReview
	}
}

// DSCRRating grades an average DSCR.
type DSCRRating int

const (
	RatingRisk DSCRRating = iota
	RatingAdequate
	RatingExcellent
)

// String returns a lower-case name for logs and JSON summaries.
func (r DSCRRating) String() string {
	switch r {
	case RatingExcellent:
		return "excellent"
	case RatingAdequate:
		return "adequate"
	default:
		return "risk"
	}
}

// RateDSCR grades average coverage against the 1.25 and 1.0 thresholds.
func RateDSCR(average float64) DSCRRating {
	switch {
	case average >= constants.StrongDSCR:
		return RatingExcellent
	case average >= constants.MinimumDSCR:
		return RatingAdequate
	default:
		return RatingRisk
	}
}
