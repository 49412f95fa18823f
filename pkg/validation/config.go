// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/frilans-calc/pkg/constants"
)

// Plausibility limits used for warnings.
const (
	MaxPlausiblePension  = 30.0
	MaxPlausibleVacation = constants.WorkingDaysSweden / 2
	MaxProjectionYears   = 50
)

// ValidateScope warns when a utilisation percentage will be clamped.
func ValidateScope(scope float64) string {
	if scope < 1 || scope > 100 {
		return fmt.Sprintf("Scope %.0f%% is outside 1-100%% and will be clamped", scope)
	}
	return ""
}

// ValidateSalaryAgainstMax warns when the salary costs more than the company earns.
func ValidateSalaryAgainstMax(salary, maxSalary float64) string {
	if salary > maxSalary {
		return fmt.Sprintf("Monthly salary %.0f exceeds the highest affordable salary %.0f - the company result will be negative",
			salary, maxSalary)
	}
	return ""
}

// ValidateDownPayment warns when a purchase is below the minimum cash share.
func ValidateDownPayment(scenarioName string, purchasePrice, downPayment float64) string {
	if purchasePrice <= 0 {
		return ""
	}
	minimum := purchasePrice * constants.MinimumDownPaymentRatio
	if downPayment < minimum {
		return fmt.Sprintf("Scenario '%s' down payment %.0f is below the required %.0f%% (%.0f)",
			scenarioName, downPayment, constants.MinimumDownPaymentRatio*constants.PercentageMultiplier, minimum)
	}
	return ""
}

// ValidateLoanToIncome warns when a loan exceeds the income-based cap.
func ValidateLoanToIncome(scenarioName string, loanAmount, yearlyIncome float64) string {
	limit := yearlyIncome * constants.MaxLoanToIncomeRatio
	if loanAmount > limit {
		return fmt.Sprintf("Scenario '%s' loan %.0f exceeds %.1f times yearly income (%.0f)",
			scenarioName, loanAmount, constants.MaxLoanToIncomeRatio, limit)
	}
	return ""
}

// ConfigValidator collects the figures needed to warn about a configuration.
type ConfigValidator struct {
	Freelance FreelanceConfig
	Scenarios []ScenarioConfig
	Years     int
}

// FreelanceConfig holds the freelance figures subject to validation.
type FreelanceConfig struct {
	Scope     float64
	Salary    float64
	MaxSalary float64
	Pension   float64
	Vacation  float64
}

// ScenarioConfig holds the home scenario figures subject to validation.
type ScenarioConfig struct {
	Name          string
	PurchasePrice float64
	DownPayment   float64
	LoanAmount    float64
	YearlyIncome  float64
	LiquidFunds   float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	add := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	add(ValidateScope(cv.Freelance.Scope))
	add(ValidateSalaryAgainstMax(cv.Freelance.Salary, cv.Freelance.MaxSalary))
	if cv.Freelance.Pension > MaxPlausiblePension {
		add(fmt.Sprintf("Pension %.1f%% of salary is unusually high", cv.Freelance.Pension))
	}
	if cv.Freelance.Vacation > MaxPlausibleVacation {
		add(fmt.Sprintf("Vacation of %.0f days leaves less than half the working year", cv.Freelance.Vacation))
	}

	if cv.Years > MaxProjectionYears {
		add(fmt.Sprintf("Projection of %d years exceeds %d years", cv.Years, MaxProjectionYears))
	}

	for _, s := range cv.Scenarios {
		add(ValidateDownPayment(s.Name, s.PurchasePrice, s.DownPayment))
		add(ValidateLoanToIncome(s.Name, s.LoanAmount, s.YearlyIncome))
		if s.DownPayment > s.LiquidFunds && s.DownPayment > 0 {
			add(fmt.Sprintf("Scenario '%s' down payment %.0f exceeds liquid funds %.0f",
				s.Name, s.DownPayment, s.LiquidFunds))
		}
	}

	return warnings
}
