package freelance

import (
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/mathutil"
)

// CorporateResult is the company result for one monthly salary.
type CorporateResult struct {
	ResultBeforeSalary float64 `json:"resultBeforeSalary"`
	SalaryCosts        float64 `json:"salaryCosts"`
	ResultBeforeTax    float64 `json:"resultBeforeTax"`
	CorporateTax       float64 `json:"corporateTax"`
	ResultAfterTax     float64 `json:"resultAfterTax"`
	MaxDividend        float64 `json:"maxDividend"`
	BalancedResult     float64 `json:"balancedResult"`
}

// salaryCostFactor is the employer cost per krona of gross salary.
func salaryCostFactor(pension float64) float64 {
	return 1 + constants.EmployerTaxRate + pension/constants.PercentageMultiplier
}

// SalaryCosts returns the yearly cost of a monthly salary including employer
// fee and pension.
func SalaryCosts(salary, pension float64) float64 {
	return salary * salaryCostFactor(pension) * constants.MonthsPerYear
}

// MaxDividend is the dividend allowance for a monthly salary, capped by the
// available profit and never negative.
func MaxDividend(salary, resultAfterTax float64) float64 {
	allowance := math.Max(salary*constants.MonthsPerYear/2, constants.BaseDividendAllowance)
	return mathutil.Clamp(allowance, 0, resultAfterTax)
}

// ComputeCorporateResult derives the corporate result from adjusted revenue,
// yearly additional costs, monthly salary and pension percentage.
func ComputeCorporateResult(adjustedRevenue, additionalCosts, salary, pension float64) CorporateResult {
	return corporateResult(adjustedRevenue-additionalCosts, salary, pension)
}

func corporateResult(resultBeforeSalary, salary, pension float64) CorporateResult {
	costs := SalaryCosts(salary, pension)
	beforeTax := resultBeforeSalary - costs
	afterTax := math.Floor(beforeTax * (1 - constants.CorporateTaxRate))
	dividend := MaxDividend(salary, afterTax)

	return CorporateResult{
		ResultBeforeSalary: resultBeforeSalary,
		SalaryCosts:        costs,
		ResultBeforeTax:    beforeTax,
		CorporateTax:       math.Max(beforeTax-afterTax, 0),
		ResultAfterTax:     afterTax,
		MaxDividend:        dividend,
		BalancedResult:     afterTax - dividend,
	}
}

// MaxSalary is the highest monthly salary, rounded to the nearest thousand,
// whose yearly cost fits within resultBeforeSalary.
func MaxSalary(resultBeforeSalary, pension float64) float64 {
	monthly := resultBeforeSalary / constants.MonthsPerYear / salaryCostFactor(pension)
	return math.Max(0, mathutil.RoundToNearest(monthly, constants.DefaultSalaryStep))
}

// DividendTax applies the flat dividend tax rate.
func DividendTax(maxDividend float64) float64 {
	if maxDividend <= 0 {
		return 0
	}
	return maxDividend * constants.DividendTaxRate
}
