package home

import (
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/finance"
)

// SaleResult is the outcome of selling the home.
type SaleResult struct {
	Year            int     `json:"year"`
	SalePrice       float64 `json:"salePrice"`
	BrokerFee       float64 `json:"brokerFee"`
	CapitalGain     float64 `json:"capitalGain"`
	CapitalGainsTax float64 `json:"capitalGainsTax"`
	RemainingLoan   float64 `json:"remainingLoan"`
	NetProceeds     float64 `json:"netProceeds"`
}

// CalculateSale prices a sale in the planned year. The sale price is the
// expected selling price when given, otherwise the property value grown at
// growth. Capital gains tax applies to positive gains only.
func CalculateSale(ho *HomeOwnership, sell *Selling, growth, remainingLoan float64) SaleResult {
	if ho == nil || sell == nil {
		return SaleResult{}
	}

	basis := ho.PropertyValue()
	price := sell.ExpectedSellingPrice
	if price <= 0 {
		price = finance.CalculatePropertyValue(basis, growth, sell.YearsUntilSale)
	}

	fee := price * sell.Maklarkostnad
	gain := price - fee - basis
	tax := math.Max(gain, 0) * constants.CapitalGainsTaxRate

	return SaleResult{
		Year:            sell.YearsUntilSale,
		SalePrice:       price,
		BrokerFee:       fee,
		CapitalGain:     gain,
		CapitalGainsTax: tax,
		RemainingLoan:   remainingLoan,
		NetProceeds:     price - fee - tax - remainingLoan,
	}
}
