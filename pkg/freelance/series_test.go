package freelance

import (
	"math"
	"testing"

	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeries(t *testing.T) {
	series := GenerateSeries(1517400, 4.5, 3000, 1000)
	require.Len(t, series, 4)

	first := series[0]
	assert.Equal(t, 0.0, first.Salary)
	assert.Equal(t, 209550.0, first.MaxDividend)
	assert.Equal(t, 209550.0, first.TotalIncome)
	assert.Equal(t, 1517400.0, first.ResultAfterSalary)
	assert.Equal(t, 1204815.0-209550, first.BalancedResult)

	for i, point := range series {
		assert.Equal(t, float64(i)*1000, point.Salary)
		assert.Equal(t, point.Salary*12+point.MaxDividend, point.TotalIncome)
	}
}

func TestGenerateSeriesIsIdempotent(t *testing.T) {
	a := GenerateSeries(900000, 4.5, 50000, 1000)
	b := GenerateSeries(900000, 4.5, 50000, 1000)
	assert.Equal(t, a, b)
}

func TestGenerateSeriesBounds(t *testing.T) {
	assert.Len(t, GenerateSeries(100000, 0, 5000, 0), 6, "non-positive step falls back to the default")
	assert.Len(t, GenerateSeries(100000, 0, 0, 1000), 1)
	assert.Empty(t, GenerateSeries(100000, 0, -1000, 1000))
	assert.Len(t, GenerateSeries(100000, 0, 2500, 1000), 3)
}

func TestGenerateTaxSeries(t *testing.T) {
	table := taxtable.MustDefault()
	series, err := GenerateTaxSeries(table, 1517400, 4.5, 93000, 1000)
	require.NoError(t, err)
	require.Len(t, series, 94)

	zero := series[0]
	assert.Zero(t, zero.MonthlyIncomeTax)
	assert.Zero(t, zero.YearlyEmployerFee)
	assert.InDelta(t, 41910, zero.DividendTax, 1e-6)

	point := series[45]
	assert.Equal(t, 45000.0, point.Salary)
	assert.Equal(t, 9853.0, point.MonthlyIncomeTax)
	assert.Equal(t, 9853.0*12, point.YearlyIncomeTax)
	assert.InDelta(t, 45000*12*0.3142, point.YearlyEmployerFee, 1e-6)
	assert.InDelta(t, 161387, point.ResultTax, 1e-6)
	assert.InDelta(t, 54000, point.DividendTax, 1e-6)

	for _, p := range series {
		assert.InDelta(t, p.YearlyIncomeTax+p.YearlyEmployerFee+p.ResultTax+p.DividendTax, p.TotalTax, 1e-6)
		assert.GreaterOrEqual(t, p.ResultTax, 0.0)
	}
}

func TestGenerateTaxSeriesPropagatesTableGaps(t *testing.T) {
	table := taxtable.NewTable([]taxtable.Bracket{{SalaryFrom: 0, SalaryTo: 1500, Tax: 0}})
	_, err := GenerateTaxSeries(table, 500000, 0, 3000, 1000)
	assert.ErrorIs(t, err, taxtable.ErrNoBracket)
}

func TestMaximizeIncome(t *testing.T) {
	_, ok := MaximizeIncome(nil)
	assert.False(t, ok)

	series := []SalaryDataPoint{
		{Salary: 0, TotalIncome: 100},
		{Salary: 1000, TotalIncome: 300},
		{Salary: 2000, TotalIncome: 300},
		{Salary: 3000, TotalIncome: 200},
	}
	best, ok := MaximizeIncome(series)
	require.True(t, ok)
	assert.Equal(t, 1000.0, best.Salary)
}

func TestMinimizeTax(t *testing.T) {
	_, ok := MinimizeTax(nil)
	assert.False(t, ok)

	series := []TaxDataPoint{
		{Salary: 0, TotalTax: 500},
		{Salary: 1000, TotalTax: 200},
		{Salary: 2000, TotalTax: 200},
		{Salary: 3000, TotalTax: 400},
	}
	best, ok := MinimizeTax(series)
	require.True(t, ok)
	assert.Equal(t, 1000.0, best.Salary)
}

func TestGenerateSeriesRejectsUnboundedSweeps(t *testing.T) {
	assert.Empty(t, GenerateSeries(100000, 0, math.NaN(), 1000))
	assert.Empty(t, GenerateSeries(100000, 0, math.Inf(1), 1000))
	assert.Empty(t, GenerateSeries(100000, 0, 5000, math.Inf(1)))
	assert.Empty(t, GenerateSeries(100000, 0, 5000, math.NaN()))
	assert.Empty(t, GenerateSeries(100000, 0, 1e12, 1000))
	assert.Len(t, GenerateSeries(100000, 0, 9999000, 1000), 10000)

	series, err := GenerateTaxSeries(taxtable.MustDefault(), 100000, 0, 1e12, 1000)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestCheckSweep(t *testing.T) {
	assert.NoError(t, checkSweep(93000, 1000))
	assert.NoError(t, checkSweep(93000, 0))
	assert.ErrorIs(t, checkSweep(math.NaN(), 1000), ErrNotFinite)
	assert.ErrorIs(t, checkSweep(93000, math.Inf(1)), ErrNotFinite)
	assert.ErrorIs(t, checkSweep(10000000, 1000), ErrSeriesTooLong)
}
