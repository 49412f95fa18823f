package validation

import (
	"strings"
	"testing"
)

func TestValidateScope(t *testing.T) {
	tests := []struct {
		name       string
		scope      float64
		expectWarn bool
	}{
		{name: "Full time", scope: 100},
		{name: "Minimum", scope: 1},
		{name: "Zero", scope: 0, expectWarn: true},
		{name: "Above full time", scope: 120, expectWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateScope(tt.scope)
			if tt.expectWarn && warning == "" {
				t.Errorf("ValidateScope(%.0f) expected warning", tt.scope)
			}
			if !tt.expectWarn && warning != "" {
				t.Errorf("ValidateScope(%.0f) unexpected warning: %s", tt.scope, warning)
			}
		})
	}
}

func TestValidateSalaryAgainstMax(t *testing.T) {
	if w := ValidateSalaryAgainstMax(45000, 93000); w != "" {
		t.Errorf("unexpected warning: %s", w)
	}
	if w := ValidateSalaryAgainstMax(95000, 93000); !strings.Contains(w, "95000") {
		t.Errorf("expected warning mentioning the salary, got %q", w)
	}
}

func TestValidateDownPayment(t *testing.T) {
	tests := []struct {
		name          string
		purchasePrice float64
		downPayment   float64
		expectWarn    bool
	}{
		{name: "Exactly 15%", purchasePrice: 4000000, downPayment: 600000},
		{name: "Above minimum", purchasePrice: 4000000, downPayment: 1000000},
		{name: "Below minimum", purchasePrice: 4000000, downPayment: 500000, expectWarn: true},
		{name: "No purchase", purchasePrice: 0, downPayment: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateDownPayment("Köp", tt.purchasePrice, tt.downPayment)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateDownPayment() warning = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateLoanToIncome(t *testing.T) {
	if w := ValidateLoanToIncome("Köp", 3300000, 600000); w != "" {
		t.Errorf("unexpected warning at the limit: %s", w)
	}
	if w := ValidateLoanToIncome("Köp", 4000000, 600000); w == "" {
		t.Errorf("expected warning above the limit")
	}
}

func TestValidateAll(t *testing.T) {
	cv := ConfigValidator{
		Freelance: FreelanceConfig{Scope: 150, Salary: 100000, MaxSalary: 93000, Pension: 40, Vacation: 200},
		Years:     60,
		Scenarios: []ScenarioConfig{
			{Name: "Dyrt köp", PurchasePrice: 8000000, DownPayment: 500000, LoanAmount: 7500000, YearlyIncome: 600000, LiquidFunds: 400000},
			{Name: "Rimligt köp", PurchasePrice: 4000000, DownPayment: 1000000, LoanAmount: 3000000, YearlyIncome: 600000, LiquidFunds: 1000000},
		},
	}

	warnings := cv.ValidateAll()
	if len(warnings) != 8 {
		t.Fatalf("expected 8 warnings, got %d: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		if strings.Contains(w, "Rimligt köp") {
			t.Errorf("unexpected warning for valid scenario: %s", w)
		}
	}

	clean := ConfigValidator{Freelance: FreelanceConfig{Scope: 100, Salary: 45000, MaxSalary: 93000, Pension: 4.5, Vacation: 25}, Years: 20}
	if warnings := clean.ValidateAll(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
