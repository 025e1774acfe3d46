package validation

import (
	"strings"
	"testing"
)

func TestValidateFunding(t *testing.T) {
	tests := []struct {
		name       string
		totalCost  float64
		promoter   float64
		subsidy    float64
		expectWarn bool
	}{
		{
			name:       "Loan required",
			totalCost:  1000000,
			promoter:   100000,
			subsidy:    250000,
			expectWarn: false,
		},
		{
			name:       "Own funds cover cost",
			totalCost:  1000000,
			promoter:   800000,
			subsidy:    200000,
			expectWarn: true,
		},
		{
			name:       "Missing total cost",
			totalCost:  0,
			promoter:   100,
			expectWarn: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateFunding(tt.totalCost, tt.promoter, tt.subsidy)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateFunding() = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateComponents(t *testing.T) {
	tests := []struct {
		name           string
		totalCost      float64
		componentTotal float64
		expectWarn     bool
	}{
		{name: "Matching", totalCost: 1000000, componentTotal: 1000000, expectWarn: false},
		{name: "Within tolerance", totalCost: 1000000, componentTotal: 1000000.5, expectWarn: false},
		{name: "Mismatch", totalCost: 1000000, componentTotal: 900000, expectWarn: true},
		{name: "No components", totalCost: 1000000, componentTotal: 0, expectWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateComponents(tt.totalCost, tt.componentTotal)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateComponents() = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}

func TestProjectFiguresValidateAll(t *testing.T) {
	healthy := ProjectFigures{
		TotalCost:            1000000,
		PromoterContribution: 100000,
		Subsidy:              250000,
		ComponentTotal:       1000000,
		InterestRate:         10,
		TenureMonths:         60,
		MoratoriumMonths:     6,
		Revenue:              800000,
		Expenses:             500000,
	}
	if warnings := healthy.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() = %v, expected no warnings", warnings)
	}

	troubled := ProjectFigures{
		TotalCost:            1000000,
		PromoterContribution: 1000000,
		ComponentTotal:       500000,
		TenureMonths:         24,
		MoratoriumMonths:     18,
		Revenue:              100,
		Expenses:             200,
	}
	warnings := troubled.ValidateAll()
	expected := []string{"no bank loan", "Cost components", "interest free", "Moratorium", "exceed projected revenue"}
	if len(warnings) != len(expected) {
		t.Fatalf("ValidateAll() returned %d warnings, expected %d: %v", len(warnings), len(expected), warnings)
	}
	for i, fragment := range expected {
		if !strings.Contains(warnings[i], fragment) {
			t.Errorf("warning[%d] = %q, expected it to mention %q", i, warnings[i], fragment)
		}
	}

	if warnings := (ProjectFigures{InterestRate: 5}).ValidateAll(); len(warnings) != 1 || !strings.Contains(warnings[0], "revenue is not set") {
		t.Errorf("ValidateAll() = %v, expected only the missing revenue warning", warnings)
	}
}
