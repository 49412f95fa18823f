package home

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ownedScenario(t *testing.T) Scenario {
	t.Helper()
	s, err := NewScenario("Behåll bostaden", OwnershipOwned, false, 0)
	require.NoError(t, err)
	return s
}

func TestNewScenario(t *testing.T) {
	base, err := NewScenario("Bara investera", OwnershipNone, true, 3)
	require.NoError(t, err)
	_, err = uuid.Parse(base.ID)
	assert.NoError(t, err)
	assert.Equal(t, BaselineColor, base.Color)
	assert.Nil(t, base.HomeOwnership)
	assert.Nil(t, base.Selling)
	assert.Equal(t, 1000000.0, base.Investment.StartingAmount)

	purchase, err := NewScenario("Köp", OwnershipPurchase, false, 1)
	require.NoError(t, err)
	assert.Equal(t, ScenarioColors[1], purchase.Color)
	require.NotNil(t, purchase.HomeOwnership)
	assert.Equal(t, OwnershipPurchase, purchase.HomeOwnership.Type)
	assert.NotEqual(t, base.ID, purchase.ID)

	wrapped, err := NewScenario("Köp igen", OwnershipPurchase, false, len(ScenarioColors))
	require.NoError(t, err)
	assert.Equal(t, ScenarioColors[0], wrapped.Color)

	_, err = NewScenario("Hyra", OwnershipType("rent"), false, 0)
	assert.ErrorIs(t, err, ErrUnknownOwnership)
}

func TestScenarioValidate(t *testing.T) {
	s := ownedScenario(t)
	assert.NoError(t, s.Validate())

	s.Name = ""
	assert.ErrorIs(t, s.Validate(), ErrInvalidScenario)

	s = ownedScenario(t)
	s.HomeOwnership.Type = "rent"
	assert.ErrorIs(t, s.Validate(), ErrUnknownOwnership)

	s = ownedScenario(t)
	s.Selling.Maklarkostnad = 1.5
	assert.Error(t, s.Validate())
}

func TestCalculateScenarioInvestmentOnly(t *testing.T) {
	s, err := NewScenario("Bara investera", OwnershipNone, true, 0)
	require.NoError(t, err)

	result := NewCalculator(zap.NewNop()).CalculateScenario(s, 10)
	require.Len(t, result.YearlyData, 11)
	assert.Equal(t, s.ID, result.ScenarioID)

	for _, row := range result.YearlyData {
		assert.Zero(t, row.HomeValue)
		assert.Zero(t, row.RemainingLoan)
		assert.Zero(t, row.LostGrowthFromDownPayment)
		assert.Equal(t, row.InvestmentValue, row.NetWorth)
		expected := finance.CalculateInvestmentGrowth(1000000, 5000, 0.08, row.Year, 0)
		assert.InDelta(t, expected, row.InvestmentValue, 1e-6)
	}
	assert.Zero(t, result.Summary.TotalInterestPaid)
	assert.Zero(t, result.Summary.TotalCostsPaid)
	assert.Nil(t, result.Summary.Sale)
}

func TestCalculateScenarioOwnedHome(t *testing.T) {
	s := ownedScenario(t)
	s.Selling = nil

	result := CalculateScenario(s, 1)
	require.Len(t, result.YearlyData, 2)

	start := result.YearlyData[0]
	assert.Equal(t, 3500000.0, start.RemainingLoan)
	assert.Equal(t, 5000000.0, start.HomeValue)
	assert.Equal(t, 1500000.0, start.HomeEquity)
	assert.Equal(t, 6900.0, start.TotalMonthlyCosts)

	end := result.YearlyData[1]
	assert.InDelta(t, 3416000, end.RemainingLoan, 1e-6)
	assert.InDelta(t, 5150000, end.HomeValue, 1e-6)
	assert.InDelta(t, 5150000-3416000, end.HomeEquity, 1e-6)
	assert.InDelta(t, end.InvestmentValue+end.HomeEquity, end.NetWorth, 1e-6)

	assert.InDelta(t, 103845, result.Summary.TotalInterestPaid, 1e-6)
	assert.InDelta(t, 82800+84456, result.Summary.TotalCostsPaid, 1e-6)
	assert.Equal(t, 7000.0, result.Summary.MonthlyAmortization)
	assert.Equal(t, end.NetWorth, result.Summary.TotalNetWorth)
}

func TestCalculateScenarioUsesAmortizationRequirement(t *testing.T) {
	s, err := NewScenario("Köp", OwnershipPurchase, false, 0)
	require.NoError(t, err)
	s.HomeOwnership.PurchasePrice = 4000000
	s.HomeOwnership.DownPayment = 1000000
	s.HomeOwnership.LoanAmount = 3000000
	s.Investment.StartingAmount = 0

	assert.Equal(t, 7500.0, MonthlyAmortization(s))

	result := CalculateScenario(s, 20)
	require.Len(t, result.YearlyData, 21)
	assert.InDelta(t, 3000000-7500*12, result.YearlyData[1].RemainingLoan, 1e-6)
	assert.InDelta(t, 80000, result.YearlyData[1].LostGrowthFromDownPayment, 1e-6)
}

func TestCalculateScenarioPropertyGrowth(t *testing.T) {
	s := ownedScenario(t)
	s.Selling.YearlyPriceGrowth = 0.05
	s.Selling.YearsUntilSale = 0

	result := CalculateScenario(s, 2)
	assert.InDelta(t, 5000000*1.05*1.05, result.YearlyData[2].HomeValue, 1e-6)

	s.Selling = nil
	result = CalculateScenario(s, 2)
	assert.InDelta(t, 5000000*1.03*1.03, result.YearlyData[2].HomeValue, 1e-6)
}

func TestCalculateScenarioNoneOwnershipIgnoresHome(t *testing.T) {
	s := ownedScenario(t)
	s.HomeOwnership.Type = OwnershipNone

	result := CalculateScenario(s, 5)
	for _, row := range result.YearlyData {
		assert.Zero(t, row.HomeValue)
		assert.Zero(t, row.RemainingLoan)
	}
}

func TestCalculateScenarioDefaultHorizon(t *testing.T) {
	result := CalculateScenario(ownedScenario(t), 0)
	assert.Len(t, result.YearlyData, 21)
}

func TestCalculateScenarioEquityNeverNegative(t *testing.T) {
	s := ownedScenario(t)
	s.HomeOwnership.CurrentValue = 1000000
	s.Selling.YearlyPriceGrowth = -0.1

	result := CalculateScenario(s, 10)
	for _, row := range result.YearlyData {
		assert.GreaterOrEqual(t, row.HomeEquity, 0.0)
	}
}

func TestCalculateScenarioSale(t *testing.T) {
	s := ownedScenario(t)

	result := CalculateScenario(s, 20)
	require.NotNil(t, result.Summary.Sale)
	sale := result.Summary.Sale

	price := 5000000 * math.Pow(1.03, 10)
	fee := price * 0.02
	gain := price - fee - 5000000
	tax := gain * 0.22
	assert.Equal(t, 10, sale.Year)
	assert.InDelta(t, price, sale.SalePrice, 1e-6)
	assert.InDelta(t, fee, sale.BrokerFee, 1e-6)
	assert.InDelta(t, tax, sale.CapitalGainsTax, 1e-6)
	assert.Equal(t, result.YearlyData[10].RemainingLoan, sale.RemainingLoan)
	assert.InDelta(t, price-fee-tax-sale.RemainingLoan, sale.NetProceeds, 1e-6)

	beyond := CalculateScenario(s, 5)
	assert.Nil(t, beyond.Summary.Sale)
}

func TestCalculateSale(t *testing.T) {
	ho := DefaultOwnedHome()

	sale := CalculateSale(ho, &Selling{ExpectedSellingPrice: 6000000, YearsUntilSale: 5, Maklarkostnad: 0.02}, 0.03, 3000000)
	assert.Equal(t, 6000000.0, sale.SalePrice)
	assert.InDelta(t, 120000, sale.BrokerFee, 1e-6)
	assert.InDelta(t, 880000, sale.CapitalGain, 1e-6)
	assert.InDelta(t, 193600, sale.CapitalGainsTax, 1e-6)
	assert.InDelta(t, 6000000-120000-193600-3000000, sale.NetProceeds, 1e-6)

	loss := CalculateSale(ho, &Selling{ExpectedSellingPrice: 4000000, YearsUntilSale: 5}, 0.03, 0)
	assert.Less(t, loss.CapitalGain, 0.0)
	assert.Zero(t, loss.CapitalGainsTax)

	assert.Equal(t, SaleResult{}, CalculateSale(nil, DefaultSelling(), 0.03, 0))
}

func TestCompareScenarios(t *testing.T) {
	base, err := NewScenario("Bara investera", OwnershipNone, true, 0)
	require.NoError(t, err)
	owned := ownedScenario(t)

	results, err := NewCalculator(nil).CompareScenarios([]Scenario{base, owned}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, base.ID, results[0].ScenarioID)
	assert.Equal(t, owned.ID, results[1].ScenarioID)

	owned.Name = ""
	_, err = NewCalculator(nil).CompareScenarios([]Scenario{owned}, 10)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestCompareScenariosRejectsLongHorizon(t *testing.T) {
	base, err := NewScenario("Bara investera", OwnershipNone, true, 0)
	require.NoError(t, err)
	calc := NewCalculator(nil)

	_, err = calc.CompareScenarios([]Scenario{base, ownedScenario(t)}, 1000000000)
	assert.ErrorIs(t, err, ErrHorizonTooLong)

	results, err := calc.CompareScenarios([]Scenario{base}, constants.MaxProjectionYears)
	require.NoError(t, err)
	assert.Len(t, results[0].YearlyData, constants.MaxProjectionYears+1)
}

func TestCalculateScenarioClampsHorizon(t *testing.T) {
	result := CalculateScenario(ownedScenario(t), 1000000000)
	assert.Len(t, result.YearlyData, constants.MaxProjectionYears+1)

	result = CalculateScenario(ownedScenario(t), 0)
	assert.Len(t, result.YearlyData, constants.DefaultProjectionYears+1)
}
