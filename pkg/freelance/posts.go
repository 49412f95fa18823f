// Package freelance computes revenue, salary cost, corporate result and
// dividend figures for a one-person Swedish limited company.
package freelance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/frilans-calc/pkg/constants"
)

var (
	// ErrUnknownPeriod is returned for a period name outside the enumeration.
	ErrUnknownPeriod = errors.New("unknown period")

	// ErrNegativeAmount is returned for a financial post below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrUnsupportedPeriod is returned when a period cannot be converted to
	// working days.
	ErrUnsupportedPeriod = errors.New("period cannot be expressed in working days")

	// ErrNotFinite is returned for NaN or infinite inputs.
	ErrNotFinite = errors.New("value must be a finite number")

	// ErrSalaryStep is returned for a sweep increment below MinSalaryStep.
	ErrSalaryStep = errors.New("salary step too small")

	// ErrSeriesTooLong is returned when a salary sweep would exceed
	// MaxSeriesPoints.
	ErrSeriesTooLong = errors.New("salary sweep too long")
)

// Period is the recurrence of a financial post.
type Period int

const (
	Hourly Period = iota
	Daily
	Weekly
	Monthly
	Yearly
)

var periodNames = [...]string{"hourly", "daily", "weekly", "monthly", "yearly"}

func (p Period) String() string {
	if p < Hourly || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod maps a period name to a Period.
func ParsePeriod(name string) (Period, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range periodNames {
		if n == normalized {
			return Period(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	if p < Hourly || p > Yearly {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeriod, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// FinancialPost is one line item such as a cost or a number of days without
// revenue.
type FinancialPost struct {
	ID          int64   `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Period      Period  `json:"period" yaml:"period"`
	Salary      bool    `json:"salary,omitempty" yaml:"salary,omitempty"`
}

// Validate rejects negative amounts and periods outside the enumeration.
func (fp FinancialPost) Validate() error {
	if fp.Amount < 0 || math.IsNaN(fp.Amount) {
		return fmt.Errorf("post %q: %w", fp.Description, ErrNegativeAmount)
	}
	if math.IsInf(fp.Amount, 0) {
		return fmt.Errorf("post %q: %w", fp.Description, ErrNotFinite)
	}
	if fp.Period < Hourly || fp.Period > Yearly {
		return fmt.Errorf("post %q: %w: %d", fp.Description, ErrUnknownPeriod, int(fp.Period))
	}
	return nil
}

// Yearly converts the post amount to a yearly amount.
func (fp FinancialPost) Yearly() (float64, error) {
	if err := fp.Validate(); err != nil {
		return 0, err
	}
	switch fp.Period {
	case Hourly:
		return fp.Amount * constants.HoursPerWorkday * constants.WorkingDaysSweden, nil
	case Daily:
		return fp.Amount * constants.WorkingDaysSweden, nil
	case Weekly:
		return fp.Amount * constants.WeeksPerYear, nil
	case Monthly:
		return fp.Amount * constants.MonthsPerYear, nil
	default:
		return fp.Amount, nil
	}
}

// WorkingDays converts the post amount to whole working days.
func (fp FinancialPost) WorkingDays() (float64, error) {
	if err := fp.Validate(); err != nil {
		return 0, err
	}
	switch fp.Period {
	case Hourly:
		return math.Ceil(fp.Amount / constants.HoursPerWorkday), nil
	case Daily:
		return fp.Amount, nil
	case Weekly:
		return fp.Amount * constants.WorkdaysPerWeek, nil
	case Monthly:
		return fp.Amount * constants.WorkdaysPerMonth, nil
	default:
		return 0, fmt.Errorf("post %q: %w: %s", fp.Description, ErrUnsupportedPeriod, fp.Period)
	}
}

// YearlyTotal sums the yearly amounts of all posts.
func YearlyTotal(posts []FinancialPost) (float64, error) {
	total := 0.0
	for _, post := range posts {
		amount, err := post.Yearly()
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}

// LostWorkingDays sums the working days of all posts.
func LostWorkingDays(posts []FinancialPost) (float64, error) {
	total := 0.0
	for _, post := range posts {
		days, err := post.WorkingDays()
		if err != nil {
			return 0, err
		}
		total += days
	}
	return total, nil
}
