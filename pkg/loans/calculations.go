// Package loans provides Swedish mortgage amortization utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/mathutil"
	"go.uber.org/zap"
)

// Amortization requirement thresholds (amorteringskrav).
const (
	HighLTVThreshold      = 0.7
	MediumLTVThreshold    = 0.5
	HighLTVRate           = 0.02
	MediumLTVRate         = 0.01
	DebtToIncomeLimit     = 4.5
	DebtToIncomeSurcharge = 0.01
)

// Amortization holds the yearly amortization rates and the resulting
// monthly amount required for a loan.
type Amortization struct {
	LTVBasedRate          float64 `json:"ltvBasedRate"`
	IncomeBasedRate       float64 `json:"incomeBasedRate"`
	RequiredAnnualRate    float64 `json:"requiredAnnualRate"`
	RequiredMonthlyAmount float64 `json:"requiredMonthlyAmount"`
}

// CalculateAmortization applies the loan-to-value and debt-to-income rules.
// A zero loan, property value or income yields a zero requirement.
func CalculateAmortization(loanAmount, propertyValue, annualIncome float64) Amortization {
	if loanAmount <= 0 || propertyValue <= 0 || annualIncome <= 0 {
		return Amortization{}
	}

	var a Amortization
	ltv := loanAmount / propertyValue
	switch {
	case ltv > HighLTVThreshold:
		a.LTVBasedRate = HighLTVRate
	case ltv > MediumLTVThreshold:
		a.LTVBasedRate = MediumLTVRate
	}

	if loanAmount/annualIncome > DebtToIncomeLimit {
		a.IncomeBasedRate = DebtToIncomeSurcharge
	}

	a.RequiredAnnualRate = a.LTVBasedRate + a.IncomeBasedRate
	a.RequiredMonthlyAmount = math.Round(a.RequiredAnnualRate * loanAmount / constants.MonthsPerYear)
	return a
}

// CalculateInterestPayment calculates one month of interest on the remaining
// principal. The yearly rate is a decimal fraction.
func CalculateInterestPayment(remainingPrincipal, yearlyInterestRate float64) float64 {
	return remainingPrincipal * yearlyInterestRate / constants.MonthsPerYear
}

// Exemption is a period without amortization (amorteringsbefrielse).
type Exemption struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Months  int  `json:"months,omitempty" yaml:"months,omitempty" mapstructure:"months"`
	Years   int  `json:"years,omitempty" yaml:"years,omitempty" mapstructure:"years"`
}

// PeriodMonths returns the exemption length in months. Months take
// precedence over years.
func (e *Exemption) PeriodMonths() int {
	if e == nil || !e.Enabled {
		return 0
	}
	if e.Months > 0 {
		return e.Months
	}
	return e.Years * constants.MonthsPerYear
}

// LoanConfig represents loan configuration parameters.
type LoanConfig struct {
	Name                string
	Principal           float64
	YearlyInterestRate  float64
	MonthlyAmortization float64
	Years               int
	Exemption           *Exemption
}

// YearlyLoan is the loan state at the end of one year.
type YearlyLoan struct {
	Year             int     `json:"year"`
	RemainingLoan    float64 `json:"remainingLoan"`
	InterestPaid     float64 `json:"interestPaid"`
	AmortizationPaid float64 `json:"amortizationPaid"`
}

// Schedule is a yearly loan schedule.
type Schedule struct {
	RemainingLoan     float64      `json:"remainingLoan"`
	TotalInterestPaid float64      `json:"totalInterestPaid"`
	Years             []YearlyLoan `json:"years"`
	// PaidOffMonth is the month the loan reached zero, 0 if never.
	PaidOffMonth int `json:"paidOffMonth,omitempty"`
}

// ScheduleGenerator provides utilities for generating loan schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule simulates the loan month by month. Interest accrues on the
// current balance before amortization is applied. Amortization is skipped
// during the exemption period. Once the balance reaches zero nothing accrues
// and the remaining years are reported with zero values. The horizon is
// clamped to [0, MaxProjectionYears].
func (g *ScheduleGenerator) GenerateSchedule(loan LoanConfig) Schedule {
	loan.Years = max(0, min(loan.Years, constants.MaxProjectionYears))
	schedule := Schedule{
		RemainingLoan: math.Max(loan.Principal, 0),
		Years:         make([]YearlyLoan, 0, loan.Years),
	}
	exemptMonths := loan.Exemption.PeriodMonths()
	if exemptMonths > 0 {
		g.logger.Debug(fmt.Sprintf("loan %s exempt from amortization for %d months", loan.Name, exemptMonths),
			zap.String("op", "loans.GenerateSchedule"),
		)
	}

	for year := 1; year <= loan.Years; year++ {
		row := YearlyLoan{Year: year}
		for month := 1; month <= constants.MonthsPerYear && schedule.RemainingLoan > 0; month++ {
			interest := CalculateInterestPayment(schedule.RemainingLoan, loan.YearlyInterestRate)
			row.InterestPaid += interest
			schedule.TotalInterestPaid += interest

			elapsed := (year-1)*constants.MonthsPerYear + month
			if elapsed <= exemptMonths || loan.MonthlyAmortization <= 0 {
				continue
			}

			payment := math.Min(loan.MonthlyAmortization, schedule.RemainingLoan)
			row.AmortizationPaid += payment
			schedule.RemainingLoan -= payment
			// Avoid machine error leaving a sub-öre balance.
			if mathutil.IsZero(mathutil.Round(schedule.RemainingLoan)) {
				schedule.RemainingLoan = 0
			}
			if schedule.RemainingLoan == 0 {
				schedule.PaidOffMonth = elapsed
				g.logger.Debug(fmt.Sprintf("loan %s paid off in month %d", loan.Name, elapsed),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
		}
		row.RemainingLoan = schedule.RemainingLoan
		schedule.Years = append(schedule.Years, row)
	}

	return schedule
}

// CalculateLoanSchedule is GenerateSchedule without logging.
func CalculateLoanSchedule(initialLoan, yearlyInterestRate, monthlyAmortization float64, years int, exemption *Exemption) Schedule {
	return NewScheduleGenerator(nil).GenerateSchedule(LoanConfig{
		Principal:           initialLoan,
		YearlyInterestRate:  yearlyInterestRate,
		MonthlyAmortization: monthlyAmortization,
		Years:               years,
		Exemption:           exemption,
	})
}
