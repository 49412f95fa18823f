package taxtable

import "github.com/iwvelando/frilans-calc/pkg/constants"

// ReferenceSalary is the gross monthly salary that alone would leave the
// given amount after tax.
type ReferenceSalary struct {
	ReferenceSalary float64 `json:"referenceSalary"`
	TaxPercentage   float64 `json:"taxPercentage"`
}

// ReferenceSalary inverts the table for a monthly income after tax.
//
// The table is a step function, so the inverse walks the brackets in
// ascending order and keeps the last one whose net lower bound is below the
// income. The scan stops at the first bracket that does not qualify. Results
// at bracket boundaries follow the scan, not an exact inverse of
// ResolveIncomeTax.
func (t *Table) ReferenceSalary(monthlyIncomeAfterTax float64) ReferenceSalary {
	if monthlyIncomeAfterTax <= 0 {
		return ReferenceSalary{}
	}

	var previous *Bracket
	for i := range t.Brackets {
		b := t.Brackets[i]
		var accepted bool
		if t.IsPercentage(b) {
			accepted = monthlyIncomeAfterTax > b.SalaryFrom*(1-b.Tax/constants.PercentageMultiplier)
		} else {
			accepted = b.SalaryFrom-b.Tax < monthlyIncomeAfterTax
		}
		if !accepted {
			break
		}
		previous = &t.Brackets[i]
	}

	if previous == nil {
		return ReferenceSalary{}
	}

	if !t.IsPercentage(*previous) {
		ref := ReferenceSalary{ReferenceSalary: previous.SalaryTo}
		if previous.SalaryTo != 0 {
			ref.TaxPercentage = previous.Tax / previous.SalaryTo
		}
		return ref
	}

	return ReferenceSalary{
		ReferenceSalary: monthlyIncomeAfterTax / (1 - previous.Tax/constants.PercentageMultiplier),
		TaxPercentage:   previous.Tax,
	}
}
