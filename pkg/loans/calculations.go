// Package loans provides common loan processing utilities.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given monthly installment.
type Payment struct {
	Month              int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// YearSummary aggregates twelve months of a schedule.
type YearSummary struct {
	Year           int
	OpeningBalance float64
	Principal      float64
	Interest       float64
	ClosingBalance float64
}

// LoanConfig represents loan configuration parameters
type LoanConfig struct {
	Principal        float64
	InterestRate     float64 // annual, percent
	TenureMonths     int
	MoratoriumMonths int // interest-only months at the start of the tenure
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// Validate reports whether the loan can be amortized.
func (loan LoanConfig) Validate() error {
	if loan.Principal < 0 {
		return errors.New("loan principal cannot be negative")
	}
	if loan.TenureMonths <= 0 {
		return errors.New("loan tenure must be positive")
	}
	if loan.TenureMonths > constants.MaxTenureMonths {
		return fmt.Errorf("loan tenure of %d months exceeds the %d month limit", loan.TenureMonths, constants.MaxTenureMonths)
	}
	if loan.MoratoriumMonths < 0 {
		return errors.New("moratorium cannot be negative")
	}
	if loan.MoratoriumMonths >= loan.TenureMonths {
		return fmt.Errorf("moratorium of %d months leaves no repayment period in a %d month tenure",
			loan.MoratoriumMonths, loan.TenureMonths)
	}
	if loan.InterestRate < 0 {
		return errors.New("interest rate cannot be negative")
	}
	return nil
}

// EMI returns the installment paid once the moratorium ends.
func (loan LoanConfig) EMI() float64 {
	return CalculateMonthlyPayment(loan.Principal, loan.InterestRate, loan.TenureMonths-loan.MoratoriumMonths)
}

// GenerateSchedule creates a complete month-by-month amortization schedule.
// Interest is serviced during the moratorium and the principal is repaid with
// equal installments over the remaining months.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanConfig) ([]Payment, error) {
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	schedule := make([]Payment, 0, loan.TenureMonths)
	emi := loan.EMI()
	remaining := loan.Principal

	for month := 1; month <= loan.TenureMonths; month++ {
		var current Payment
		current.Month = month
		current.Interest = CalculateInterestPayment(remaining, loan.InterestRate)

		if month <= loan.MoratoriumMonths {
			current.Payment = current.Interest
			current.RemainingPrincipal = remaining
			schedule = append(schedule, current)
			continue
		}

		current.Payment = emi
		current.Principal = emi - current.Interest
		if month == loan.TenureMonths || mathutil.Round(remaining-current.Principal) <= 0 {
			// We will get machine error otherwise so settle the balance exactly.
			current.Principal = remaining
			current.Payment = current.Principal + current.Interest
			current.RemainingPrincipal = 0
			schedule = append(schedule, current)
			if month != loan.TenureMonths {
				g.logger.Debug(fmt.Sprintf("loan settled early in month %d", month),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}
		current.RemainingPrincipal = remaining - current.Principal
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	g.logger.Debug(fmt.Sprintf("generated %d month schedule with EMI %.2f", len(schedule), emi),
		zap.String("op", "loans.GenerateSchedule"),
	)
	return schedule, nil
}

// AggregateByYear folds a monthly schedule into loan years of twelve months.
func AggregateByYear(principal float64, schedule []Payment) []YearSummary {
	if len(schedule) == 0 {
		return nil
	}
	years := (len(schedule) + constants.MonthsPerYear - 1) / constants.MonthsPerYear
	summaries := make([]YearSummary, 0, years)
	opening := principal
	for y := 0; y < years; y++ {
		summary := YearSummary{Year: y + 1, OpeningBalance: opening}
		end := (y + 1) * constants.MonthsPerYear
		if end > len(schedule) {
			end = len(schedule)
		}
		for _, p := range schedule[y*constants.MonthsPerYear : end] {
			summary.Principal += p.Principal
			summary.Interest += p.Interest
		}
		summary.ClosingBalance = schedule[end-1].RemainingPrincipal
		opening = summary.ClosingBalance
		summaries = append(summaries, summary)
	}
	return summaries
}
