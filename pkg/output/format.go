// Package output provides utilities for formatting and displaying appraisal
// results on the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the machine-readable form of an appraisal.
type Summary struct {
	ProjectName string                      `json:"projectName"`
	Beneficiary string                      `json:"beneficiaryName"`
	Verdict     string                      `json:"verdict"`
	Warnings    []string                    `json:"warnings,omitempty"`
	Results     appraisal.CalculatedResults `json:"results"`
}

// NewSummary assembles a Summary.
func NewSummary(p project.ProjectData, results appraisal.CalculatedResults, warnings []string) Summary {
	return Summary{
		ProjectName: strings.TrimSpace(p.ProjectName),
		Beneficiary: strings.TrimSpace(p.BeneficiaryName),
		Verdict:     results.Verdict().String(),
		Warnings:    warnings,
		Results:     results,
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, s Summary) error {
	p := message.NewPrinter(language.English)
	r := s.Results

	name := s.ProjectName
	if name == "" {
		name = "unnamed project"
	}
	if _, err := fmt.Fprintf(w, "--- Appraisal for %s ---\n", name); err != nil {
		return err
	}
	if s.Beneficiary != "" {
		_, _ = fmt.Fprintf(w, "Beneficiary: %s\n", s.Beneficiary)
	}
	_, _ = p.Fprintf(w, "Loan amount: %.2f\n", r.LoanAmount)
	_, _ = p.Fprintf(w, "Monthly EMI: %.2f\n", r.EMI)
	_, _ = p.Fprintf(w, "Average DSCR: %.2f (%s)\n", r.DSCRCalculation.Average, appraisal.RateDSCR(r.DSCRCalculation.Average))
	_, _ = p.Fprintf(w, "NPV: %.2f\n", r.ProjectViability.NPV)
	_, _ = p.Fprintf(w, "IRR: %.2f%%\n", r.ProjectViability.IRR*constants.PercentageMultiplier)
	if r.ProjectViability.PaybackPeriod > 0 {
		_, _ = p.Fprintf(w, "Payback: %.2f years\n", r.ProjectViability.PaybackPeriod)
	} else {
		_, _ = fmt.Fprintf(w, "Payback: N/A\n")
	}
	_, _ = p.Fprintf(w, "Profitability index: %.2f\n", r.ProjectViability.ProfitabilityIndex)

	if len(r.LoanRepaymentSchedule) > 0 {
		_, _ = fmt.Fprintf(w, "\nYear | Opening        | Principal      | Interest\n")
		_, _ = fmt.Fprintf(w, "____ | ______________ | ______________ | ______________\n")
		for _, year := range r.LoanRepaymentSchedule {
			_, _ = p.Fprintf(w, "%4d | %14.2f | %14.2f | %14.2f\n",
				year.Year, year.OutstandingPrincipalStart, year.Principal, year.Interest)
		}
	}

	for _, warning := range s.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	_, err := fmt.Fprintf(w, "\nVerdict: %s\n", s.Verdict)
	return err
}

// JSONFormat outputs the summary as indented JSON.
func JSONFormat(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
