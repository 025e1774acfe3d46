package report

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/format"
	"github.com/iwvelando/loan-report/pkg/mathutil"
)

const notAvailable = "N/A"

// DSCR banner texts.
const (
	DSCRExcellentMessage = "✓ Excellent - DSCR above 1.25 indicates strong repayment capacity"
	DSCRAdequateMessage  = "⚠ Adequate - DSCR above 1.0 but monitor closely"
	DSCRRiskMessage      = "⚠ Risk - DSCR below 1.0 indicates potential repayment issues"
)

// Conclusion texts.
const (
	ConclusionStrong = "The project shows strong financial viability with positive NPV and healthy DSCR. Recommended for approval."
	ConclusionViable = "The project is viable but requires careful monitoring. Consider additional security measures."
	ConclusionReview = "The project requires detailed review and risk mitigation before approval."
)

type sectionHeading struct {
	Icon  string
	Title string
}

type infoItem struct {
	Label string
	Lines []string
}

type shareRow struct {
	Label  string
	Amount string
	Share  string
}

type shareTableData struct {
	Heading string
	Rows    []shareRow
}

type scheduleRow struct {
	Year      int
	Opening   string
	Principal string
	Interest  string
	Total     string
	Closing   string
}

type profitRow struct {
	Year         int
	Income       string
	Expenses     string
	Operating    string
	Interest     string
	Depreciation string
	NetProfit    string
}

type cashRow struct {
	Year         int
	NetProfit    string
	Depreciation string
	Interest     string
	Accruals     string
}

type dscrRow struct {
	Year       int
	Accrual    string
	Obligation string
	Ratio      string
}

type dscrView struct {
	Average string
	Rating  string
	Message string
	Rows    []dscrRow
}

type viabilityView struct {
	NPV                string
	IRR                string
	Payback            string
	ProfitabilityIndex string
}

type conclusionView struct {
	Message    string
	Badge      string
	BadgeClass string
}

type view struct {
	Project        project.ProjectData
	FontStylesheet string

	Location   string
	TotalCost  string
	LoanAmount string
	LoanShare  string
	EMI        string

	Beneficiary    []infoItem
	About          template.HTML
	ProjectDetails []infoItem
	Objective      template.HTML
	MarketAnalysis template.HTML

	Financing     []shareRow
	Terms         []infoItem
	CostBreakdown []shareRow
	Schedule      []scheduleRow

	StatementYears int
	Profitability  []profitRow
	CashFlow       []cashRow

	DSCR       dscrView
	Viability  viabilityView
	Conclusion conclusionView

	Risks      template.HTML
	Mitigation template.HTML

	GeneratedOn string
}

func (r *Renderer) buildView(p project.ProjectData, res appraisal.CalculatedResults) (view, error) {
	money := func(v float64) string { return format.CurrencyWithSymbol(v, r.currencySymbol) }
	totalCost := p.Number(project.FieldTotalProjectCost)
	share := func(v float64) string { return format.Share(mathutil.CalculatePercentage(v, totalCost)) }

	v := view{
		Project:        p,
		FontStylesheet: r.fontStylesheet,
		Location:       joinNonBlank(", ", p.Location, p.District),
		TotalCost:      money(totalCost),
		LoanAmount:     money(res.LoanAmount),
		LoanShare:      share(res.LoanAmount),
		EMI:            money(res.EMI),
		StatementYears: constants.ReportStatementYears,
		GeneratedOn:    r.now().Format(constants.ReportDateLayout),
	}

	v.Beneficiary = []infoItem{
		item("Name", p.BeneficiaryName),
		item("Father's Name", p.FatherName),
		item("Age", orNA(p.Age)),
		item("Gender", orNA(p.Gender)),
		item("Education", orNA(p.EducationalQualification)),
		item("Experience", orNA(p.Experience)),
		item("Mobile Number", p.MobileNumber),
		item("Annual Income", money(p.Number(project.FieldAnnualIncome))),
		item("Family Members", orNA(p.FamilyMembers)),
	}
	v.ProjectDetails = []infoItem{
		item("Project Name", p.ProjectName),
		item("Category", orNA(p.Category)),
		item("Capacity", orNA(joinNonBlank(" ", p.Capacity, p.UnitOfMeasurement))),
		item("Implementation Period", p.ProjectImplementationPeriod),
		item("Power Requirement", orNA(p.PowerRequirement)),
		item("Location", locationLines(p)...),
	}

	narratives := []struct {
		text string
		dst  *template.HTML
	}{
		{p.AboutBeneficiary, &v.About},
		{p.ProjectObjective, &v.Objective},
		{p.MarketAnalysis, &v.MarketAnalysis},
		{p.RiskAnalysis, &v.Risks},
		{p.MitigationMeasures, &v.Mitigation},
	}
	for _, n := range narratives {
		html, err := r.narrative(n.text)
		if err != nil {
			return view{}, err
		}
		*n.dst = html
	}

	promoter := p.Number(project.FieldPromotersContribution)
	subsidy := p.Number(project.FieldSubsidy)
	v.Financing = []shareRow{
		{Label: "Total Project Cost", Amount: money(totalCost), Share: format.Share(100)},
		{Label: "Promoter's Contribution", Amount: money(promoter), Share: share(promoter)},
		{Label: "Subsidy", Amount: money(subsidy), Share: share(subsidy)},
		{Label: "Bank Loan", Amount: money(res.LoanAmount), Share: share(res.LoanAmount)},
	}
	v.Terms = []infoItem{
		item("Interest Rate", p.RateOfInterest+"% per annum"),
		item("Loan Tenure", p.LoanTenureYears+" years"),
		item("Monthly EMI", money(res.EMI)),
	}

	for _, c := range res.CostBreakdown {
		v.CostBreakdown = append(v.CostBreakdown, shareRow{
			Label:  c.Category,
			Amount: money(c.Amount),
			Share:  format.Share(c.Percentage),
		})
	}

	for _, y := range res.LoanRepaymentSchedule {
		v.Schedule = append(v.Schedule, scheduleRow{
			Year:      y.Year,
			Opening:   money(y.OutstandingPrincipalStart),
			Principal: money(y.Principal),
			Interest:  money(y.Interest),
			Total:     money(y.Installments()),
			Closing:   money(y.ClosingBalance()),
		})
	}

	for _, y := range firstN(res.ProfitabilityStatement, constants.ReportStatementYears) {
		v.Profitability = append(v.Profitability, profitRow{
			Year:         y.Year,
			Income:       money(y.Income),
			Expenses:     money(y.TotalExpenses),
			Operating:    money(y.NetIncomeBeforeID),
			Interest:     money(y.Interest),
			Depreciation: money(y.Depreciation),
			NetProfit:    money(y.NetProfitBeforeTax),
		})
	}
	for _, y := range firstN(res.CashFlowStatement, constants.ReportStatementYears) {
		v.CashFlow = append(v.CashFlow, cashRow{
			Year:         y.Year,
			NetProfit:    money(y.NetProfit),
			Depreciation: money(y.AddDepreciation),
			Interest:     money(y.AddInterest),
			Accruals:     money(y.NetCashAccruals),
		})
	}

	average := res.DSCRCalculation.Average
	rating := appraisal.RateDSCR(average)
	v.DSCR = dscrView{
		Average: format.Ratio(average),
		Rating:  rating.String(),
		Message: DSCRMessage(rating),
	}
	for _, d := range res.DSCRCalculation.Data {
		v.DSCR.Rows = append(v.DSCR.Rows, dscrRow{
			Year:       d.Year,
			Accrual:    money(d.NetCashAccrual),
			Obligation: money(d.DebtObligation),
			Ratio:      format.Ratio(d.DSCR),
		})
	}

	viability := res.ProjectViability
	v.Viability = viabilityView{
		NPV:                money(viability.NPV),
		IRR:                format.Percentage(viability.IRR),
		Payback:            paybackText(viability.PaybackPeriod),
		ProfitabilityIndex: format.Ratio(viability.ProfitabilityIndex),
	}

	verdict := res.Verdict()
	v.Conclusion = conclusionView{
		Message:    ConclusionMessage(viability.NPV, average),
		Badge:      verdict.String(),
		BadgeClass: BadgeClass(verdict),
	}
	return v, nil
}

// DSCRMessage returns the banner text for a coverage rating.
func DSCRMessage(rating appraisal.DSCRRating) string {
	switch rating {
	case appraisal.RatingExcellent:
		return DSCRExcellentMessage
	case appraisal.RatingAdequate:
		return DSCRAdequateMessage
	default:
		return DSCRRiskMessage
	}
}

// ConclusionMessage picks the assessment paragraph. Unlike the badge, a
// positive NPV only reads as viable when coverage is at least 1.0.
func ConclusionMessage(npv, averageDSCR float64) string {
	switch {
	case npv > 0 && averageDSCR >= constants.StrongDSCR:
		return ConclusionStrong
	case npv > 0 && averageDSCR >= constants.MinimumDSCR:
		return ConclusionViable
	default:
		return ConclusionReview
	}
}

// BadgeClass returns the CSS class of the verdict badge.
func BadgeClass(v appraisal.Verdict) string {
	switch v {
	case appraisal.VerdictRecommended:
		return "badge-success"
	case appraisal.VerdictMonitor:
		return "badge-warning"
	default:
		return "badge-danger"
	}
}

func paybackText(years float64) string {
	if years <= 0 {
		return notAvailable
	}
	return strconv.FormatFloat(years, 'f', -1, 64) + " years"
}

// locationLines puts the locality on the first line and the district and
// state on the second.
func locationLines(p project.ProjectData) []string {
	region := joinNonBlank(", ", p.District, p.State)
	if strings.TrimSpace(p.Location) == "" {
		return []string{orNA(region)}
	}
	if region == "" {
		return []string{p.Location}
	}
	return []string{p.Location + ",", region}
}

func item(label string, lines ...string) infoItem {
	return infoItem{Label: label, Lines: lines}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func joinNonBlank(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func firstN[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
