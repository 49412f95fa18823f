// Package finance provides the investment and property growth models used by
// the home comparison.
package finance

import (
	"fmt"
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"go.uber.org/zap"
)

// Investment is a savings account with regular deposits and compound growth.
// ExpectedYearlyGrowth is a decimal fraction, e.g. 0.07 for 7 %.
type Investment struct {
	StartingAmount       float64 `json:"startingAmount" yaml:"startingAmount" mapstructure:"startingAmount"`
	MonthlyDeposit       float64 `json:"monthlyDeposit" yaml:"monthlyDeposit" mapstructure:"monthlyDeposit"`
	AnnualDeposit        float64 `json:"annualDeposit" yaml:"annualDeposit" mapstructure:"annualDeposit"`
	ExpectedYearlyGrowth float64 `json:"expectedYearlyGrowth" yaml:"expectedYearlyGrowth" mapstructure:"expectedYearlyGrowth"`
}

// InvestmentState tracks the running value of an investment across simulation months.
type InvestmentState struct {
	CurrentValue float64
	Month        int
	Deposited    float64
}

// InvestmentChange captures the computed deltas for a single simulated month.
type InvestmentChange struct {
	Month     int
	Deposit   float64
	Growth    float64
	NetChange float64
}

// InvestmentProcessor handles monthly investment computations.
type InvestmentProcessor struct {
	logger *zap.Logger
}

// NewInvestmentProcessor creates a processor for investment calculations.
func NewInvestmentProcessor(logger *zap.Logger) *InvestmentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentProcessor{logger: logger}
}

// InitializeState creates the month zero state of an investment.
func (ip *InvestmentProcessor) InitializeState(inv Investment) *InvestmentState {
	return &InvestmentState{CurrentValue: inv.StartingAmount, Deposited: inv.StartingAmount}
}

// ProcessMonth advances state by one month. The annual deposit lands in the
// second month of every year after the first month, then the monthly deposit
// is added and the month's growth applied.
func (ip *InvestmentProcessor) ProcessMonth(inv Investment, state *InvestmentState) InvestmentChange {
	state.Month++
	month := state.Month
	previous := state.CurrentValue

	deposit := 0.0
	if month > 1 && (month-1)%constants.MonthsPerYear == 1 {
		deposit += inv.AnnualDeposit
	}
	deposit += inv.MonthlyDeposit
	state.CurrentValue += deposit
	state.Deposited += deposit

	growth := state.CurrentValue * inv.ExpectedYearlyGrowth / constants.MonthsPerYear
	state.CurrentValue += growth

	return InvestmentChange{
		Month:     month,
		Deposit:   deposit,
		Growth:    growth,
		NetChange: state.CurrentValue - previous,
	}
}

// Simulate runs the investment for the given number of years and returns the
// value at the end of every year, index 0 holding the starting amount. The
// horizon is clamped to [0, MaxProjectionYears].
func (ip *InvestmentProcessor) Simulate(inv Investment, years int) []float64 {
	years = max(0, min(years, constants.MaxProjectionYears))
	state := ip.InitializeState(inv)
	values := make([]float64, 0, years+1)
	values = append(values, state.CurrentValue)

	growth := 0.0
	for year := 1; year <= years; year++ {
		for m := 0; m < constants.MonthsPerYear; m++ {
			growth += ip.ProcessMonth(inv, state).Growth
		}
		values = append(values, state.CurrentValue)
	}

	ip.logger.Debug(fmt.Sprintf("simulated investment for %d years: deposited %.0f, growth %.0f, final value %.0f",
		years, state.Deposited, growth, state.CurrentValue),
		zap.String("op", "finance.Simulate"),
	)
	return values
}

// CalculateInvestmentGrowth returns the value after the given number of years.
func CalculateInvestmentGrowth(startingAmount, monthlyDeposit, yearlyGrowth float64, years int, annualDeposit float64) float64 {
	values := NewInvestmentProcessor(nil).Simulate(Investment{
		StartingAmount:       startingAmount,
		MonthlyDeposit:       monthlyDeposit,
		AnnualDeposit:        annualDeposit,
		ExpectedYearlyGrowth: yearlyGrowth,
	}, years)
	return values[len(values)-1]
}

// CalculatePropertyValue compounds a property value yearly.
func CalculatePropertyValue(initialValue, yearlyGrowth float64, years int) float64 {
	return initialValue * math.Pow(1+yearlyGrowth, float64(years))
}

// CalculateLostGrowth is the return the down payment would have earned if
// it had been invested instead.
func CalculateLostGrowth(downPayment, yearlyGrowth float64, years int) float64 {
	return downPayment*math.Pow(1+yearlyGrowth, float64(years)) - downPayment
}

// MonthlyCosts are the recurring costs of owning a home.
type MonthlyCosts struct {
	Avgift     float64 `json:"avgift" yaml:"avgift" mapstructure:"avgift"`
	Drift      float64 `json:"drift" yaml:"drift" mapstructure:"drift"`
	El         float64 `json:"el" yaml:"el" mapstructure:"el"`
	Varme      float64 `json:"värme" yaml:"värme" mapstructure:"värme"`
	Forsakring float64 `json:"försäkring" yaml:"försäkring" mapstructure:"försäkring"`
	Ovrigt     float64 `json:"övrigt" yaml:"övrigt" mapstructure:"övrigt"`
}

// Total sums all cost posts.
func (c MonthlyCosts) Total() float64 {
	return c.Avgift + c.Drift + c.El + c.Varme + c.Forsakring + c.Ovrigt
}

// CalculateMonthlyCosts compounds the monthly costs by yearlyIncrease for year years.
func CalculateMonthlyCosts(costs MonthlyCosts, yearlyIncrease float64, year int) float64 {
	return costs.Total() * math.Pow(1+yearlyIncrease, float64(year))
}
