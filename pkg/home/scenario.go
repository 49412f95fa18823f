// Package home compares buying or keeping a home against investing the money.
package home

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/frilans-calc/pkg/finance"
	"github.com/iwvelando/frilans-calc/pkg/loans"
)

// OwnershipType tells how a scenario holds a home.
type OwnershipType string

const (
	OwnershipNone     OwnershipType = "none"
	OwnershipPurchase OwnershipType = "purchase"
	OwnershipOwned    OwnershipType = "owned"
)

// PersonalFinances are the household figures loans are assessed against.
type PersonalFinances struct {
	TotalLiquidFunds    float64 `json:"totalLiquidFunds" yaml:"totalLiquidFunds" mapstructure:"totalLiquidFunds"`
	MonthlySalary       float64 `json:"monthlySalary" yaml:"monthlySalary" mapstructure:"monthlySalary"`
	YearlyCapitalIncome float64 `json:"yearlyCapitalIncome" yaml:"yearlyCapitalIncome" mapstructure:"yearlyCapitalIncome"`
}

// YearlyIncome is the income used for loan assessment.
func (pf PersonalFinances) YearlyIncome() float64 {
	return pf.MonthlySalary*12 + pf.YearlyCapitalIncome
}

// HomeOwnership describes a purchased or already owned home and its loan.
// Rates are decimal fractions.
type HomeOwnership struct {
	Type                 OwnershipType        `json:"type" yaml:"type" mapstructure:"type"`
	PurchasePrice        float64              `json:"purchasePrice,omitempty" yaml:"purchasePrice,omitempty" mapstructure:"purchasePrice"`
	DownPayment          float64              `json:"downPayment,omitempty" yaml:"downPayment,omitempty" mapstructure:"downPayment"`
	CurrentValue         float64              `json:"currentValue,omitempty" yaml:"currentValue,omitempty" mapstructure:"currentValue"`
	LoanAmount           float64              `json:"loanAmount" yaml:"loanAmount" mapstructure:"loanAmount"`
	YearlyInterestRate   float64              `json:"yearlyInterestRate" yaml:"yearlyInterestRate" mapstructure:"yearlyInterestRate"`
	MonthlyAmortering    float64              `json:"monthlyAmortering,omitempty" yaml:"monthlyAmortering,omitempty" mapstructure:"monthlyAmortering"`
	MonthlyCosts         finance.MonthlyCosts `json:"monthlyCosts" yaml:"monthlyCosts" mapstructure:"monthlyCosts"`
	YearlyIncrease       float64              `json:"yearlyIncrease,omitempty" yaml:"yearlyIncrease,omitempty" mapstructure:"yearlyIncrease"`
	Amorteringsbefrielse *loans.Exemption     `json:"amorteringsbefrielse,omitempty" yaml:"amorteringsbefrielse,omitempty" mapstructure:"amorteringsbefrielse"`
}

// PropertyValue is the purchase price of a purchase and the current value of
// an owned home.
func (ho *HomeOwnership) PropertyValue() float64 {
	if ho == nil {
		return 0
	}
	switch ho.Type {
	case OwnershipOwned:
		if ho.CurrentValue > 0 {
			return ho.CurrentValue
		}
		return ho.PurchasePrice
	case OwnershipNone:
		return 0
	default:
		return ho.PurchasePrice
	}
}

// Selling describes a planned sale of the home.
type Selling struct {
	ExpectedSellingPrice float64 `json:"expectedSellingPrice,omitempty" yaml:"expectedSellingPrice,omitempty" mapstructure:"expectedSellingPrice"`
	YearlyPriceGrowth    float64 `json:"yearlyPriceGrowth,omitempty" yaml:"yearlyPriceGrowth,omitempty" mapstructure:"yearlyPriceGrowth"`
	YearsUntilSale       int     `json:"yearsUntilSale" yaml:"yearsUntilSale" mapstructure:"yearsUntilSale"`
	Maklarkostnad        float64 `json:"mäklarkostnad" yaml:"mäklarkostnad" mapstructure:"mäklarkostnad"`
}

// Scenario is one alternative in the home comparison.
type Scenario struct {
	ID               string             `json:"id" yaml:"id" mapstructure:"id"`
	Name             string             `json:"name" yaml:"name" mapstructure:"name"`
	IsBaseline       bool               `json:"isBaseline" yaml:"isBaseline" mapstructure:"isBaseline"`
	PersonalFinances PersonalFinances   `json:"personalFinances" yaml:"personalFinances" mapstructure:"personalFinances"`
	Investment       finance.Investment `json:"investment" yaml:"investment" mapstructure:"investment"`
	HomeOwnership    *HomeOwnership     `json:"homeOwnership,omitempty" yaml:"homeOwnership,omitempty" mapstructure:"homeOwnership"`
	Selling          *Selling           `json:"selling,omitempty" yaml:"selling,omitempty" mapstructure:"selling"`
	Color            string             `json:"color" yaml:"color" mapstructure:"color"`
}

// BaselineColor is the chart colour of the baseline scenario.
const BaselineColor = "#6B7280"

// ScenarioColors are assigned to non-baseline scenarios in order.
var ScenarioColors = []string{
	"#8B5CF6",
	"#3B82F6",
	"#10B981",
	"#F59E0B",
	"#EF4444",
	"#F97316",
	"#06B6D4",
	"#84CC16",
}

// DefaultPersonalFinances are the starting household figures of a new scenario.
func DefaultPersonalFinances() PersonalFinances {
	return PersonalFinances{TotalLiquidFunds: 1000000, MonthlySalary: 50000}
}

// DefaultInvestment is the starting investment of a new scenario.
func DefaultInvestment() finance.Investment {
	return finance.Investment{StartingAmount: 1000000, MonthlyDeposit: 5000, ExpectedYearlyGrowth: 0.08}
}

func defaultMonthlyCosts() finance.MonthlyCosts {
	return finance.MonthlyCosts{Avgift: 3000, Drift: 1000, El: 800, Varme: 1200, Forsakring: 400, Ovrigt: 500}
}

// DefaultHomeOwnership is the starting point of a purchase scenario.
func DefaultHomeOwnership() *HomeOwnership {
	return &HomeOwnership{
		Type:                 OwnershipPurchase,
		YearlyInterestRate:   0.03,
		MonthlyCosts:         defaultMonthlyCosts(),
		YearlyIncrease:       0.02,
		Amorteringsbefrielse: &loans.Exemption{},
	}
}

// DefaultOwnedHome is the starting point of a scenario keeping a home.
func DefaultOwnedHome() *HomeOwnership {
	return &HomeOwnership{
		Type:                 OwnershipOwned,
		CurrentValue:         5000000,
		LoanAmount:           3500000,
		YearlyInterestRate:   0.03,
		MonthlyAmortering:    7000,
		MonthlyCosts:         defaultMonthlyCosts(),
		YearlyIncrease:       0.02,
		Amorteringsbefrielse: &loans.Exemption{},
	}
}

// DefaultSelling is the starting sale plan.
func DefaultSelling() *Selling {
	return &Selling{YearlyPriceGrowth: 0.03, YearsUntilSale: 10, Maklarkostnad: 0.02}
}

// NewScenario creates a scenario with defaults for the ownership type. The
// index picks the chart colour of non-baseline scenarios.
func NewScenario(name string, ownership OwnershipType, baseline bool, index int) (Scenario, error) {
	s := Scenario{
		ID:               uuid.NewString(),
		Name:             name,
		IsBaseline:       baseline,
		PersonalFinances: DefaultPersonalFinances(),
		Investment:       DefaultInvestment(),
		Color:            BaselineColor,
	}
	if !baseline {
		if index < 0 {
			index = -index
		}
		s.Color = ScenarioColors[index%len(ScenarioColors)]
	}

	switch ownership {
	case OwnershipNone, "":
	case OwnershipPurchase:
		s.HomeOwnership = DefaultHomeOwnership()
		s.Selling = DefaultSelling()
	case OwnershipOwned:
		s.HomeOwnership = DefaultOwnedHome()
		s.Selling = DefaultSelling()
	default:
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownOwnership, ownership)
	}

	if s.HomeOwnership != nil {
		s.Investment.StartingAmount = s.PersonalFinances.TotalLiquidFunds - s.HomeOwnership.DownPayment
	}
	return s, nil
}

var (
	// ErrUnknownOwnership is returned for an ownership type outside the enumeration.
	ErrUnknownOwnership = errors.New("unknown ownership type")

	// ErrInvalidScenario wraps scenario validation failures.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrHorizonTooLong is returned for projections beyond MaxProjectionYears.
	ErrHorizonTooLong = errors.New("projection horizon too long")
)

// Validate checks a scenario before calculation.
func (s Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Investment.StartingAmount < 0 || s.Investment.MonthlyDeposit < 0 || s.Investment.AnnualDeposit < 0 {
		errs = append(errs, errors.New("investment amounts must not be negative"))
	}
	if ho := s.HomeOwnership; ho != nil {
		switch ho.Type {
		case OwnershipNone, OwnershipPurchase, OwnershipOwned:
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownOwnership, ho.Type))
		}
		if ho.LoanAmount < 0 || ho.PurchasePrice < 0 || ho.DownPayment < 0 || ho.CurrentValue < 0 {
			errs = append(errs, errors.New("home amounts must not be negative"))
		}
		if ho.MonthlyAmortering < 0 {
			errs = append(errs, errors.New("monthly amortization must not be negative"))
		}
	}
	if sell := s.Selling; sell != nil {
		if sell.YearsUntilSale < 0 {
			errs = append(errs, errors.New("years until sale must not be negative"))
		}
		if sell.Maklarkostnad < 0 || sell.Maklarkostnad >= 1 {
			errs = append(errs, errors.New("broker fee must be a fraction in [0, 1)"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, errors.Join(errs...))
	}
	return nil
}
