package home

import (
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
)

// CalculateMaxPurchasePrice returns the highest price the household can buy
// for, limited both by the income-based loan cap and by the liquid funds
// available for the down payment.
func CalculateMaxPurchasePrice(monthlySalary, yearlyCapitalIncome, totalLiquidFunds float64) float64 {
	yearlyIncome := monthlySalary*constants.MonthsPerYear + yearlyCapitalIncome
	maxLoan := yearlyIncome * constants.MaxLoanToIncomeRatio

	byIncome := maxLoan / constants.MaximumLTVRatio
	byFunds := (totalLiquidFunds + maxLoan) / (1 + constants.MinimumDownPaymentRatio)
	return math.Max(0, math.Min(byIncome, byFunds))
}

// DownPaymentRange is the allowed down payment for a purchase.
type DownPaymentRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CalculateDownPaymentRange returns the minimum cash share and the most the
// household can put down.
func CalculateDownPaymentRange(purchasePrice, totalLiquidFunds float64) DownPaymentRange {
	return DownPaymentRange{
		Min: purchasePrice * constants.MinimumDownPaymentRatio,
		Max: math.Min(totalLiquidFunds, purchasePrice),
	}
}

// ValidateLoanAmount reports whether the loan is within the income-based cap.
func ValidateLoanAmount(loanAmount, monthlySalary, yearlyCapitalIncome float64) bool {
	yearlyIncome := monthlySalary*constants.MonthsPerYear + yearlyCapitalIncome
	return loanAmount <= yearlyIncome*constants.MaxLoanToIncomeRatio
}
