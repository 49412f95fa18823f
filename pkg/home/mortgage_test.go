package home

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMaxPurchasePrice(t *testing.T) {
	tests := []struct {
		name          string
		monthlySalary float64
		capitalIncome float64
		liquidFunds   float64
		expected      float64
	}{
		{name: "Funds limited", monthlySalary: 50000, liquidFunds: 1000000, expected: 4300000 / 1.15},
		{name: "Income limited", monthlySalary: 50000, liquidFunds: 5000000, expected: 3300000 / 0.85},
		{name: "Capital income counts", monthlySalary: 0, capitalIncome: 600000, liquidFunds: 1000000, expected: 4300000 / 1.15},
		{name: "No income", liquidFunds: 1000000, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateMaxPurchasePrice(tt.monthlySalary, tt.capitalIncome, tt.liquidFunds), 1e-6)
		})
	}
}

func TestCalculateDownPaymentRange(t *testing.T) {
	r := CalculateDownPaymentRange(4000000, 1000000)
	assert.InDelta(t, 600000, r.Min, 1e-6)
	assert.Equal(t, 1000000.0, r.Max)

	r = CalculateDownPaymentRange(2000000, 3000000)
	assert.InDelta(t, 300000, r.Min, 1e-6)
	assert.Equal(t, 2000000.0, r.Max)
}

func TestValidateLoanAmount(t *testing.T) {
	assert.True(t, ValidateLoanAmount(3300000, 50000, 0))
	assert.False(t, ValidateLoanAmount(3300001, 50000, 0))
	assert.True(t, ValidateLoanAmount(3850000, 50000, 100000))
}
