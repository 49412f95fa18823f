// Package taxtable resolves Swedish monthly income tax from Skatteverket
// tax tables and inverts them into reference salaries.
package taxtable

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/mathutil"
)

//go:embed data/*.json
var tableFiles embed.FS

// DefaultTableFile is the embedded table returned by Default.
const DefaultTableFile = "data/table31_25.json"

// ErrNoBracket is returned when an income falls outside the table coverage.
var ErrNoBracket = errors.New("no tax bracket covers income")

// Bracket maps a monthly salary range to a tax amount or a tax percentage.
type Bracket struct {
	SalaryFrom float64 `json:"salaryFrom" yaml:"salaryFrom"`
	SalaryTo   float64 `json:"salaryTo" yaml:"salaryTo"`
	Tax        float64 `json:"tax" yaml:"tax"`
}

// Table is an ordered set of non-overlapping brackets.
type Table struct {
	Brackets []Bracket
	// PercentageThreshold is the highest SalaryFrom that still holds a fixed
	// amount; brackets starting above it hold a percentage.
	PercentageThreshold float64
}

// IncomeTax is the resolved tax for one income.
type IncomeTax struct {
	Tax           float64 `json:"tax"`
	TaxPercentage float64 `json:"taxPercentage"`
}

// NewTable copies and sorts brackets into a table using the standard threshold.
func NewTable(brackets []Bracket) *Table {
	sorted := make([]Bracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SalaryFrom < sorted[j].SalaryFrom
	})
	return &Table{Brackets: sorted, PercentageThreshold: constants.SalaryPercentageLimit}
}

// Default returns the embedded 2025 table 31. Below the percentage threshold
// it holds one sampled row per thousand kronor, each covering incomes up to
// the start of the next row.
func Default() (*Table, error) {
	f, err := tableFiles.Open(DefaultTableFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded tax table: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	brackets, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded tax table: %w", err)
	}
	return NewTable(brackets), nil
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// IsPercentage reports whether the bracket's Tax field is a percentage.
func (t *Table) IsPercentage(b Bracket) bool {
	return b.SalaryFrom > t.PercentageThreshold
}

// Validate checks that the brackets are ascending, non-overlapping and leave
// no gap wider than one krona between neighbours.
func (t *Table) Validate() error {
	if len(t.Brackets) == 0 {
		return errors.New("tax table is empty")
	}
	for i, b := range t.Brackets {
		if b.SalaryTo < b.SalaryFrom {
			return fmt.Errorf("bracket %d: salaryTo %.0f below salaryFrom %.0f", i, b.SalaryTo, b.SalaryFrom)
		}
		if b.Tax < 0 {
			return fmt.Errorf("bracket %d: negative tax %.2f", i, b.Tax)
		}
		if i == 0 {
			continue
		}
		prev := t.Brackets[i-1]
		if b.SalaryFrom <= prev.SalaryTo {
			return fmt.Errorf("bracket %d: range %.0f-%.0f overlaps %.0f-%.0f",
				i, b.SalaryFrom, b.SalaryTo, prev.SalaryFrom, prev.SalaryTo)
		}
		if b.SalaryFrom-prev.SalaryTo > 1 {
			return fmt.Errorf("bracket %d: gap between %.0f and %.0f", i, prev.SalaryTo, b.SalaryFrom)
		}
	}
	return nil
}

// Lookup returns the bracket covering income. Incomes are matched on their
// whole-krona part so that fractional amounts never fall between two
// integer ranges.
func (t *Table) Lookup(income float64) (Bracket, error) {
	key := math.Floor(income)
	idx := sort.Search(len(t.Brackets), func(i int) bool {
		return t.Brackets[i].SalaryTo >= key
	})
	if idx < len(t.Brackets) && t.Brackets[idx].SalaryFrom <= key {
		return t.Brackets[idx], nil
	}
	return Bracket{}, fmt.Errorf("%w: %.2f", ErrNoBracket, income)
}

// ResolveIncomeTax computes the monthly tax and effective percentage for a
// monthly salary. Zero or negative income yields a zero result.
func (t *Table) ResolveIncomeTax(income float64) (IncomeTax, error) {
	if income <= 0 {
		return IncomeTax{}, nil
	}

	bracket, err := t.Lookup(income)
	if err != nil {
		return IncomeTax{}, err
	}

	if t.IsPercentage(bracket) {
		return IncomeTax{
			Tax:           math.Floor(income * bracket.Tax / constants.PercentageMultiplier),
			TaxPercentage: bracket.Tax,
		}, nil
	}

	return IncomeTax{
		Tax:           bracket.Tax,
		TaxPercentage: mathutil.Round2(mathutil.CalculatePercentage(bracket.Tax, income)),
	}, nil
}
