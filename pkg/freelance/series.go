package freelance

import (
	"fmt"
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
)

// SalaryDataPoint is one point of the salary sweep.
type SalaryDataPoint struct {
	Salary            float64 `json:"salary"`
	MaxDividend       float64 `json:"maxDividend"`
	TotalIncome       float64 `json:"totalIncome"`
	BalancedResult    float64 `json:"balancedResult"`
	ResultAfterSalary float64 `json:"resultAfterSalary"`
}

// TaxDataPoint is the tax breakdown for one salary of the sweep.
type TaxDataPoint struct {
	Salary              float64 `json:"salary"`
	YearlyIncomeTax     float64 `json:"yearlyIncomeTax"`
	MonthlyIncomeTax    float64 `json:"monthlyIncomeTax"`
	YearlyEmployerFee   float64 `json:"yearlyEmployerFee"`
	IncomeTaxPercentage float64 `json:"incomeTaxPercentage"`
	ResultTax           float64 `json:"resultTax"`
	DividendTax         float64 `json:"dividendTax"`
	TotalTax            float64 `json:"totalTax"`
}

func sweepLength(maxSalary, step float64) (float64, float64) {
	if step <= 0 {
		step = constants.DefaultSalaryStep
	}
	return math.Floor(maxSalary/step) + 1, step
}

// checkSweep reports sweeps that are not finite or longer than
// MaxSeriesPoints.
func checkSweep(maxSalary, step float64) error {
	if math.IsNaN(maxSalary) || math.IsInf(maxSalary, 0) {
		return fmt.Errorf("max salary: %w", ErrNotFinite)
	}
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return fmt.Errorf("salary step: %w", ErrNotFinite)
	}
	if n, _ := sweepLength(maxSalary, step); n > constants.MaxSeriesPoints {
		return fmt.Errorf("%w: %.0f points exceed %d", ErrSeriesTooLong, n, constants.MaxSeriesPoints)
	}
	return nil
}

func salarySteps(maxSalary, step float64) []float64 {
	if maxSalary < 0 || checkSweep(maxSalary, step) != nil {
		return nil
	}
	n, step := sweepLength(maxSalary, step)
	steps := make([]float64, 0, int(n))
	for i := 0; ; i++ {
		salary := float64(i) * step
		if salary > maxSalary {
			break
		}
		steps = append(steps, salary)
	}
	return steps
}

// GenerateSeries sweeps the monthly salary from 0 to maxSalary inclusive.
// A non-positive step falls back to DefaultSalaryStep. Non-finite inputs and
// sweeps longer than MaxSeriesPoints yield no points.
func GenerateSeries(resultBeforeSalary, pension, maxSalary, step float64) []SalaryDataPoint {
	steps := salarySteps(maxSalary, step)
	series := make([]SalaryDataPoint, 0, len(steps))
	for _, salary := range steps {
		result := corporateResult(resultBeforeSalary, salary, pension)
		series = append(series, SalaryDataPoint{
			Salary:            salary,
			MaxDividend:       result.MaxDividend,
			TotalIncome:       salary*constants.MonthsPerYear + result.MaxDividend,
			BalancedResult:    result.BalancedResult,
			ResultAfterSalary: result.ResultBeforeTax,
		})
	}
	return series
}

// TaxBreakdown resolves every tax paid for one monthly salary.
func TaxBreakdown(table *taxtable.Table, resultBeforeSalary, salary, pension float64) (TaxDataPoint, error) {
	incomeTax, err := table.ResolveIncomeTax(salary)
	if err != nil {
		return TaxDataPoint{}, fmt.Errorf("salary %.0f: %w", salary, err)
	}

	result := corporateResult(resultBeforeSalary, salary, pension)
	point := TaxDataPoint{
		Salary:              salary,
		MonthlyIncomeTax:    incomeTax.Tax,
		YearlyIncomeTax:     incomeTax.Tax * constants.MonthsPerYear,
		YearlyEmployerFee:   salary * constants.MonthsPerYear * constants.EmployerTaxRate,
		IncomeTaxPercentage: incomeTax.TaxPercentage,
		ResultTax:           result.CorporateTax,
		DividendTax:         DividendTax(result.MaxDividend),
	}
	point.TotalTax = point.YearlyIncomeTax + point.YearlyEmployerFee + point.ResultTax + point.DividendTax
	return point, nil
}

// GenerateTaxSeries is the tax counterpart of GenerateSeries.
func GenerateTaxSeries(table *taxtable.Table, resultBeforeSalary, pension, maxSalary, step float64) ([]TaxDataPoint, error) {
	steps := salarySteps(maxSalary, step)
	series := make([]TaxDataPoint, 0, len(steps))
	for _, salary := range steps {
		point, err := TaxBreakdown(table, resultBeforeSalary, salary, pension)
		if err != nil {
			return nil, err
		}
		series = append(series, point)
	}
	return series, nil
}

// MaximizeIncome returns the point with the highest total income. Ties go
// to the lowest salary.
func MaximizeIncome(series []SalaryDataPoint) (SalaryDataPoint, bool) {
	if len(series) == 0 {
		return SalaryDataPoint{}, false
	}
	best := series[0]
	for _, point := range series[1:] {
		if point.TotalIncome > best.TotalIncome {
			best = point
		}
	}
	return best, true
}

// MinimizeTax returns the point with the lowest total tax. Ties go to the
// lowest salary.
func MinimizeTax(series []TaxDataPoint) (TaxDataPoint, bool) {
	if len(series) == 0 {
		return TaxDataPoint{}, false
	}
	best := series[0]
	for _, point := range series[1:] {
		if point.TotalTax < best.TotalTax {
			best = point
		}
	}
	return best, true
}
