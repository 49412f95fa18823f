package home

import (
	"fmt"
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/finance"
	"github.com/iwvelando/frilans-calc/pkg/loans"
	"go.uber.org/zap"
)

// YearlyData is one year's snapshot of a scenario.
type YearlyData struct {
	Year                      int     `json:"year"`
	InvestmentValue           float64 `json:"investmentValue"`
	RemainingLoan             float64 `json:"remainingLoan"`
	HomeValue                 float64 `json:"homeValue"`
	HomeEquity                float64 `json:"homeEquity"`
	NetWorth                  float64 `json:"netWorth"`
	TotalMonthlyCosts         float64 `json:"totalMonthlyCosts"`
	LostGrowthFromDownPayment float64 `json:"lostGrowthFromDownPayment"`
}

// ScenarioSummary aggregates the final year and the cumulative payments.
type ScenarioSummary struct {
	TotalNetWorth        float64     `json:"totalNetWorth"`
	TotalInvestmentValue float64     `json:"totalInvestmentValue"`
	TotalHomeEquity      float64     `json:"totalHomeEquity"`
	TotalInterestPaid    float64     `json:"totalInterestPaid"`
	TotalCostsPaid       float64     `json:"totalCostsPaid"`
	MonthlyAmortization  float64     `json:"monthlyAmortization"`
	Sale                 *SaleResult `json:"sale,omitempty"`
}

// ScenarioResult is the projection of one scenario.
type ScenarioResult struct {
	ScenarioID string          `json:"scenarioId"`
	Name       string          `json:"name"`
	YearlyData []YearlyData    `json:"yearlyData"`
	Summary    ScenarioSummary `json:"summary"`
}

// Calculator projects home comparison scenarios.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a calculator. A nil logger discards output.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// propertyGrowth is the yearly appreciation used for the home value.
func propertyGrowth(s Scenario) float64 {
	if s.Selling != nil && s.Selling.YearlyPriceGrowth != 0 {
		return s.Selling.YearlyPriceGrowth
	}
	return constants.DefaultPropertyGrowth
}

// MonthlyAmortization returns the configured amortization, or the
// amortization requirement when none is configured.
func MonthlyAmortization(s Scenario) float64 {
	ho := s.HomeOwnership
	if ho == nil {
		return 0
	}
	if ho.MonthlyAmortering > 0 {
		return ho.MonthlyAmortering
	}
	return loans.CalculateAmortization(ho.LoanAmount, ho.PropertyValue(), s.PersonalFinances.YearlyIncome()).RequiredMonthlyAmount
}

// ValidateHorizon rejects horizons beyond MaxProjectionYears. Non-positive
// horizons are accepted and mean DefaultProjectionYears.
func ValidateHorizon(years int) error {
	if years > constants.MaxProjectionYears {
		return fmt.Errorf("%w: %d years exceeds %d", ErrHorizonTooLong, years, constants.MaxProjectionYears)
	}
	return nil
}

// CalculateScenario projects a scenario for year 0 through years. A
// non-positive horizon uses DefaultProjectionYears and longer horizons are
// cut to MaxProjectionYears.
func (c *Calculator) CalculateScenario(s Scenario, years int) ScenarioResult {
	if years <= 0 {
		years = constants.DefaultProjectionYears
	}
	years = min(years, constants.MaxProjectionYears)

	investments := finance.NewInvestmentProcessor(c.logger).Simulate(s.Investment, years)

	ho := s.HomeOwnership
	if ho != nil && ho.Type == OwnershipNone {
		ho = nil
	}

	var (
		schedule     loans.Schedule
		amortization float64
		growth       = propertyGrowth(s)
	)
	if ho != nil {
		amortization = MonthlyAmortization(s)
		schedule = loans.NewScheduleGenerator(c.logger).GenerateSchedule(loans.LoanConfig{
			Name:                s.Name,
			Principal:           ho.LoanAmount,
			YearlyInterestRate:  ho.YearlyInterestRate,
			MonthlyAmortization: amortization,
			Years:               years,
			Exemption:           ho.Amorteringsbefrielse,
		})
	}

	result := ScenarioResult{
		ScenarioID: s.ID,
		Name:       s.Name,
		YearlyData: make([]YearlyData, 0, years+1),
	}
	totalCosts := 0.0

	for year := 0; year <= years; year++ {
		row := YearlyData{Year: year, InvestmentValue: investments[year]}

		if ho != nil {
			if year == 0 {
				row.RemainingLoan = ho.LoanAmount
			} else {
				row.RemainingLoan = schedule.Years[year-1].RemainingLoan
			}
			row.HomeValue = finance.CalculatePropertyValue(ho.PropertyValue(), growth, year)
			row.TotalMonthlyCosts = finance.CalculateMonthlyCosts(ho.MonthlyCosts, ho.YearlyIncrease, year)
			row.LostGrowthFromDownPayment = finance.CalculateLostGrowth(ho.DownPayment, s.Investment.ExpectedYearlyGrowth, year)
			totalCosts += row.TotalMonthlyCosts * constants.MonthsPerYear
		}

		row.HomeEquity = math.Max(0, row.HomeValue-row.RemainingLoan)
		row.NetWorth = row.InvestmentValue + row.HomeEquity
		result.YearlyData = append(result.YearlyData, row)
	}

	final := result.YearlyData[len(result.YearlyData)-1]
	result.Summary = ScenarioSummary{
		TotalNetWorth:        final.NetWorth,
		TotalInvestmentValue: final.InvestmentValue,
		TotalHomeEquity:      final.HomeEquity,
		TotalInterestPaid:    schedule.TotalInterestPaid,
		TotalCostsPaid:       totalCosts,
		MonthlyAmortization:  amortization,
	}

	if ho != nil && s.Selling != nil && s.Selling.YearsUntilSale > 0 && s.Selling.YearsUntilSale <= years {
		sale := CalculateSale(ho, s.Selling, growth, result.YearlyData[s.Selling.YearsUntilSale].RemainingLoan)
		result.Summary.Sale = &sale
	}

	c.logger.Debug(fmt.Sprintf("scenario %s: net worth %.0f after %d years", s.Name, final.NetWorth, years),
		zap.String("op", "home.CalculateScenario"),
		zap.String("scenario", s.ID),
	)
	return result
}

// CompareScenarios validates and projects every scenario over the same horizon.
func (c *Calculator) CompareScenarios(scenarios []Scenario, years int) ([]ScenarioResult, error) {
	if err := ValidateHorizon(years); err != nil {
		return nil, err
	}
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if ho := s.HomeOwnership; ho != nil && !ValidateLoanAmount(ho.LoanAmount, s.PersonalFinances.MonthlySalary, s.PersonalFinances.YearlyCapitalIncome) {
			c.logger.Warn(fmt.Sprintf("scenario %s: loan %.0f exceeds %.1f times yearly income", s.Name, ho.LoanAmount, constants.MaxLoanToIncomeRatio),
				zap.String("op", "home.CompareScenarios"),
			)
		}
		results = append(results, c.CalculateScenario(s, years))
	}
	return results, nil
}

// CalculateScenario is Calculator.CalculateScenario without logging.
func CalculateScenario(s Scenario, years int) ScenarioResult {
	return NewCalculator(nil).CalculateScenario(s, years)
}
