package freelance

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
)

// Benefits are the owner's salary, vacation days and pension percentage.
type Benefits struct {
	Salary   float64 `json:"salary" yaml:"salary"`
	Vacation float64 `json:"vacation" yaml:"vacation"`
	Pension  float64 `json:"pension" yaml:"pension"`
}

// Inputs is everything the freelance calculator needs.
type Inputs struct {
	Revenue     Revenue         `json:"revenue" yaml:"revenue"`
	Benefits    Benefits        `json:"benefits" yaml:"benefits"`
	Costs       []FinancialPost `json:"costs" yaml:"costs"`
	LostRevenue []FinancialPost `json:"lostRevenue" yaml:"lostRevenue"`
	SalaryStep  float64         `json:"salaryStep,omitempty" yaml:"salaryStep,omitempty"`
}

// DefaultInputs mirrors the calculator's starting form.
func DefaultInputs() Inputs {
	return Inputs{
		Revenue:  Revenue{HourlyRate: 900, Scope: 100},
		Benefits: Benefits{Salary: 45000, Vacation: 25, Pension: 4.5},
		Costs: []FinancialPost{
			{ID: 1, Description: "Telefon", Amount: 450, Period: Monthly},
			{ID: 2, Description: "Bil", Amount: 2500, Period: Monthly},
			{ID: 3, Description: "Försäkring", Amount: 5000, Period: Monthly},
		},
	}
}

// Validate checks the inputs before calculation.
func (in Inputs) Validate() error {
	var errs []error
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"hourly rate", in.Revenue.HourlyRate},
		{"scope", in.Revenue.Scope},
		{"salary", in.Benefits.Salary},
		{"vacation", in.Benefits.Vacation},
		{"pension", in.Benefits.Pension},
		{"salary step", in.SalaryStep},
	} {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			errs = append(errs, fmt.Errorf("%s: %w", field.name, ErrNotFinite))
		}
	}
	if in.SalaryStep != 0 && in.SalaryStep < constants.MinSalaryStep {
		errs = append(errs, fmt.Errorf("%w: %g is below %d", ErrSalaryStep, in.SalaryStep, constants.MinSalaryStep))
	}
	if in.Revenue.HourlyRate < 0 {
		errs = append(errs, fmt.Errorf("hourly rate: %w", ErrNegativeAmount))
	}
	if in.Benefits.Salary < 0 {
		errs = append(errs, fmt.Errorf("salary: %w", ErrNegativeAmount))
	}
	if in.Benefits.Vacation < 0 {
		errs = append(errs, fmt.Errorf("vacation: %w", ErrNegativeAmount))
	}
	if in.Benefits.Pension < 0 {
		errs = append(errs, fmt.Errorf("pension: %w", ErrNegativeAmount))
	}
	for _, post := range in.Costs {
		if err := post.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cost: %w", err))
		}
	}
	for _, post := range in.LostRevenue {
		if err := post.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("lost revenue: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Income is the owner's take-home for the chosen salary.
type Income struct {
	MonthlyIncomeTax    float64 `json:"monthlyIncomeTax"`
	YearlyIncomeTax     float64 `json:"yearlyIncomeTax"`
	IncomeTaxPercentage float64 `json:"incomeTaxPercentage"`
	YearlyEmployerFee   float64 `json:"yearlyEmployerFee"`
	PensionCost         float64 `json:"pensionCost"`
	SalaryAfterTax      float64 `json:"salaryAfterTax"`
	DividendTax         float64 `json:"dividendTax"`
	DividendAfterTax    float64 `json:"dividendAfterTax"`
	MonthlyNetIncome    float64 `json:"monthlyNetIncome"`
	ReferenceSalary     float64 `json:"referenceSalary"`
	ReferenceTaxPercent float64 `json:"referenceTaxPercentage"`
}

// Summary is the complete freelance calculation.
type Summary struct {
	Inputs          Inputs            `json:"inputs"`
	LostDays        float64           `json:"lostDays"`
	Revenue         RevenueResult     `json:"revenue"`
	AdditionalCosts float64           `json:"additionalCosts"`
	Corporate       CorporateResult   `json:"corporate"`
	Income          Income            `json:"income"`
	MaxSalary       float64           `json:"maxSalary"`
	Series          []SalaryDataPoint `json:"series"`
	TaxSeries       []TaxDataPoint    `json:"taxSeries"`
	MaxIncome       *SalaryDataPoint  `json:"maxIncome,omitempty"`
	MinTax          *TaxDataPoint     `json:"minTax,omitempty"`
}

// Calculate runs every freelance calculation for the inputs against table.
func Calculate(table *taxtable.Table, in Inputs) (Summary, error) {
	if table == nil {
		return Summary{}, errors.New("tax table is required")
	}
	if err := in.Validate(); err != nil {
		return Summary{}, err
	}
	in.Revenue = in.Revenue.Normalize()

	extraDays, err := LostWorkingDays(in.LostRevenue)
	if err != nil {
		return Summary{}, err
	}
	costs, err := YearlyTotal(in.Costs)
	if err != nil {
		return Summary{}, err
	}

	lostDays := in.Benefits.Vacation + extraDays
	revenue := ComputeRevenue(in.Revenue, lostDays)
	if r := revenue.AdjustedRevenue - costs; math.IsNaN(r) || math.IsInf(r, 0) {
		return Summary{}, fmt.Errorf("result before salary: %w", ErrNotFinite)
	}
	salary := in.Benefits.Salary
	pension := in.Benefits.Pension
	corporate := ComputeCorporateResult(revenue.AdjustedRevenue, costs, salary, pension)

	incomeTax, err := table.ResolveIncomeTax(salary)
	if err != nil {
		return Summary{}, fmt.Errorf("income tax: %w", err)
	}

	dividendTax := DividendTax(corporate.MaxDividend)
	income := Income{
		MonthlyIncomeTax:    incomeTax.Tax,
		YearlyIncomeTax:     incomeTax.Tax * constants.MonthsPerYear,
		IncomeTaxPercentage: incomeTax.TaxPercentage,
		YearlyEmployerFee:   salary * constants.MonthsPerYear * constants.EmployerTaxRate,
		PensionCost:         salary * constants.MonthsPerYear * pension / constants.PercentageMultiplier,
		SalaryAfterTax:      salary - incomeTax.Tax,
		DividendTax:         dividendTax,
		DividendAfterTax:    corporate.MaxDividend - dividendTax,
	}
	income.MonthlyNetIncome = income.SalaryAfterTax + income.DividendAfterTax/constants.MonthsPerYear
	reference := table.ReferenceSalary(income.MonthlyNetIncome)
	income.ReferenceSalary = reference.ReferenceSalary
	income.ReferenceTaxPercent = reference.TaxPercentage

	maxSalary := MaxSalary(corporate.ResultBeforeSalary, pension)
	if err := checkSweep(maxSalary, in.SalaryStep); err != nil {
		return Summary{}, err
	}
	series := GenerateSeries(corporate.ResultBeforeSalary, pension, maxSalary, in.SalaryStep)
	taxSeries, err := GenerateTaxSeries(table, corporate.ResultBeforeSalary, pension, maxSalary, in.SalaryStep)
	if err != nil {
		return Summary{}, fmt.Errorf("tax series: %w", err)
	}

	summary := Summary{
		Inputs:          in,
		LostDays:        lostDays,
		Revenue:         revenue,
		AdditionalCosts: costs,
		Corporate:       corporate,
		Income:          income,
		MaxSalary:       maxSalary,
		Series:          series,
		TaxSeries:       taxSeries,
	}
	if best, ok := MaximizeIncome(series); ok {
		summary.MaxIncome = &best
	}
	if best, ok := MinimizeTax(taxSeries); ok {
		summary.MinTax = &best
	}
	return summary, nil
}
