package appraisal

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/loans"
	"github.com/iwvelando/loan-report/pkg/mathutil"
	"go.uber.org/zap"
)

// Options tune the appraisal.
type Options struct {
	// DiscountRate is the annual rate, as a fraction, used for NPV. Zero means
	// the loan's interest rate.
	DiscountRate float64
	// MinHorizon is the minimum number of projected years. Zero means 7.
	MinHorizon int
	Logger     *zap.Logger
}

const (
	irrLowerBound = -0.99
	irrUpperBound = 10.0
	irrTolerance  = 1e-7
	irrMaxSteps   = 200

	monthTolerance = 1e-6
)

type costComponent struct {
	category string
	field    string
}

var costComponents = []costComponent{
	{"Machinery & Equipment", project.FieldMachineryEquipmentCost},
	{"Shed & Building", project.FieldShedBuildingCost},
	{"Land", project.FieldLandCost},
	{"Furniture & Fittings", project.FieldFurnitureFittingsCost},
	{"Vehicles", project.FieldVehicleCost},
	{"Working Capital", project.FieldWorkingCapitalCost},
	{"Other Assets", project.FieldOtherAssetsCost},
	{"Project Report", project.FieldProjectReportCost},
	{"Technical Know-how", project.FieldTechnicalKnowHowCost},
	{"Licensing", project.FieldLicensingCost},
	{"Training", project.FieldTrainingCost},
	{"Interest During Construction", project.FieldInterestDuringConstructionCost},
	{"Other Pre-operative Expenses", project.FieldOtherPreOperativeCost},
}

// depreciableFields are the fixed assets written down each year.
var depreciableFields = []string{
	project.FieldMachineryEquipmentCost,
	project.FieldShedBuildingCost,
	project.FieldFurnitureFittingsCost,
	project.FieldVehicleCost,
	project.FieldOtherAssetsCost,
}

// Compute derives CalculatedResults from the form values. It fails when the
// project cost or the loan tenure is not positive or the loan terms are
// inconsistent.
func Compute(p project.ProjectData, opts Options) (CalculatedResults, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	totalCost := p.Number(project.FieldTotalProjectCost)
	if totalCost <= 0 {
		return CalculatedResults{}, errors.New("total project cost must be positive")
	}
	tenureMonths, err := wholeMonths(p.Number(project.FieldLoanTenureYears)*constants.MonthsPerYear, "loan tenure")
	if err != nil {
		return CalculatedResults{}, err
	}
	if tenureMonths <= 0 {
		return CalculatedResults{}, errors.New("loan tenure must be positive")
	}
	moratorium, err := wholeMonths(math.Max(p.Number(project.FieldMoratoriumPeriodMonths), 0), "moratorium")
	if err != nil {
		return CalculatedResults{}, err
	}
	rate := p.Number(project.FieldRateOfInterest)

	loanAmount := math.Max(totalCost-p.Number(project.FieldPromotersContribution)-p.Number(project.FieldSubsidy), 0)
	loan := loans.LoanConfig{
		Principal:        loanAmount,
		InterestRate:     rate,
		TenureMonths:     tenureMonths,
		MoratoriumMonths: moratorium,
	}
	if err := loan.Validate(); err != nil {
		return CalculatedResults{}, fmt.Errorf("invalid loan terms: %w", err)
	}

	results := CalculatedResults{
		LoanAmount:    mathutil.Round(loanAmount),
		CostBreakdown: costBreakdown(p),
	}

	if loanAmount > 0 {
		schedule, err := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(loan)
		if err != nil {
			return CalculatedResults{}, fmt.Errorf("failed to generate repayment schedule: %w", err)
		}
		results.EMI = mathutil.Round(loan.EMI())
		for _, year := range loans.AggregateByYear(loanAmount, schedule) {
			results.LoanRepaymentSchedule = append(results.LoanRepaymentSchedule, RepaymentYear{
				Year:                      year.Year,
				OutstandingPrincipalStart: mathutil.Round(year.OpeningBalance),
				Principal:                 mathutil.Round(year.Principal),
				Interest:                  mathutil.Round(year.Interest),
			})
		}
	}

	minHorizon := opts.MinHorizon
	if minHorizon <= 0 {
		minHorizon = constants.DefaultMinHorizonYears
	}
	horizon := (tenureMonths + constants.MonthsPerYear - 1) / constants.MonthsPerYear
	if horizon < minHorizon {
		horizon = minHorizon
	}
	if horizon > constants.MaxHorizonYears {
		horizon = constants.MaxHorizonYears
	}

	results.ProfitabilityStatement, results.CashFlowStatement = statements(p, results.LoanRepaymentSchedule, horizon)
	results.DSCRCalculation = dscr(results.CashFlowStatement, results.LoanRepaymentSchedule)

	discountRate := opts.DiscountRate
	if discountRate <= 0 {
		discountRate = rate / constants.PercentageMultiplier
	}
	results.ProjectViability = viability(results.CashFlowStatement, totalCost, discountRate)

	logger.Debug(fmt.Sprintf("appraised %d year horizon, loan %.2f, average DSCR %.2f",
		horizon, results.LoanAmount, results.DSCRCalculation.Average),
		zap.String("op", "appraisal.Compute"),
	)
	return results, nil
}

// wholeMonths converts a month count taken from the form to an int. Values
// beyond MaxTenureMonths or with a fractional month are rejected before the
// conversion so that no schedule is sized from them.
func wholeMonths(months float64, what string) (int, error) {
	if months < 0 {
		return 0, fmt.Errorf("%s cannot be negative", what)
	}
	if months > constants.MaxTenureMonths {
		return 0, fmt.Errorf("%s of %g months exceeds the %d month limit", what, months, constants.MaxTenureMonths)
	}
	if !mathutil.WithinTolerance(months, math.Round(months), monthTolerance) {
		return 0, fmt.Errorf("%s of %g months is not a whole number of months", what, months)
	}
	return int(math.Round(months)), nil
}

func costBreakdown(p project.ProjectData) []CostItem {
	var items []CostItem
	var total float64
	for _, c := range costComponents {
		amount := p.Number(c.field)
		if mathutil.IsZero(amount) {
			continue
		}
		items = append(items, CostItem{Category: c.category, Amount: mathutil.Round(amount)})
		total += amount
	}
	for i := range items {
		items[i].Percentage = mathutil.CalculatePercentage(items[i].Amount, total)
	}
	return items
}

func statements(p project.ProjectData, schedule []RepaymentYear, horizon int) ([]ProfitabilityYear, []CashFlowYear) {
	revenue := p.Number(project.FieldProjectedAnnualRevenue)
	expenses := p.Number(project.FieldProjectedAnnualExpenses)
	revenueGrowth := p.Number(project.FieldRevenueGrowthRate)
	expenseGrowth := p.Number(project.FieldExpenseGrowthRate)
	depreciationRate := p.Number(project.FieldDepreciationRate)

	var writtenDownValue float64
	for _, field := range depreciableFields {
		writtenDownValue += p.Number(field)
	}

	profit := make([]ProfitabilityYear, 0, horizon)
	cash := make([]CashFlowYear, 0, horizon)
	for y := 1; y <= horizon; y++ {
		income := mathutil.Grow(revenue, revenueGrowth, y-1)
		costs := mathutil.Grow(expenses, expenseGrowth, y-1)

		depreciation := mathutil.ApplyPercentage(writtenDownValue, depreciationRate)
		writtenDownValue -= depreciation

		var interest float64
		if y <= len(schedule) {
			interest = schedule[y-1].Interest
		}

		operating := income - costs
		netProfit := operating - interest - depreciation

		profit = append(profit, ProfitabilityYear{
			Year:               y,
			Income:             mathutil.Round(income),
			TotalExpenses:      mathutil.Round(costs),
			NetIncomeBeforeID:  mathutil.Round(operating),
			Interest:           mathutil.Round(interest),
			Depreciation:       mathutil.Round(depreciation),
			NetProfitBeforeTax: mathutil.Round(netProfit),
		})
		cash = append(cash, CashFlowYear{
			Year:            y,
			NetProfit:       mathutil.Round(netProfit),
			AddDepreciation: mathutil.Round(depreciation),
			AddInterest:     mathutil.Round(interest),
			NetCashAccruals: mathutil.Round(netProfit + depreciation + interest),
		})
	}
	return profit, cash
}

// dscr covers every repayment year that carries an obligation.
func dscr(cash []CashFlowYear, schedule []RepaymentYear) DSCRCalculation {
	var calc DSCRCalculation
	var sum float64
	for i, year := range schedule {
		obligation := year.Installments()
		if obligation <= 0 || i >= len(cash) {
			continue
		}
		ratio := cash[i].NetCashAccruals / obligation
		calc.Data = append(calc.Data, DSCRYear{
			Year:           year.Year,
			NetCashAccrual: cash[i].NetCashAccruals,
			DebtObligation: mathutil.Round(obligation),
			DSCR:           ratio,
		})
		sum += ratio
	}
	if len(calc.Data) > 0 {
		calc.Average = sum / float64(len(calc.Data))
	}
	return calc
}

func viability(cash []CashFlowYear, investment, rate float64) Viability {
	inflows := make([]float64, len(cash))
	for i, c := range cash {
		inflows[i] = c.NetCashAccruals
	}

	pv := mathutil.PresentValueOfCashFlows(inflows, rate)
	return Viability{
		NPV:                mathutil.Round(pv - investment),
		IRR:                irr(inflows, investment),
		PaybackPeriod:      payback(inflows, investment),
		ProfitabilityIndex: pv / investment,
	}
}

// irr finds the rate at which discounted inflows equal the investment by
// bisection. It returns 0 when no rate in the search range brackets a root.
func irr(inflows []float64, investment float64) float64 {
	npv := func(r float64) float64 {
		return mathutil.PresentValueOfCashFlows(inflows, r) - investment
	}

	lo, hi := irrLowerBound, irrUpperBound
	fLo, fHi := npv(lo), npv(hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return 0
	}
	for i := 0; i < irrMaxSteps && hi-lo > irrTolerance; i++ {
		mid := (lo + hi) / 2
		fMid := npv(mid)
		if fMid == 0 {
			return mid
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2
}

// payback interpolates within the year the cumulative inflow reaches the
// investment. It returns 0 when that never happens.
func payback(inflows []float64, investment float64) float64 {
	var cumulative float64
	for i, cf := range inflows {
		if mathutil.IsPositive(cf) && cumulative+cf >= investment {
			return mathutil.Round(float64(i) + (investment-cumulative)/cf)
		}
		cumulative += cf
	}
	return 0
}
