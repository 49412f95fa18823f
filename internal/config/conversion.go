package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/frilans-calc/pkg/freelance"
	"github.com/iwvelando/frilans-calc/pkg/home"
)

// ToFinancialPosts converts configured posts to freelance.FinancialPost,
// numbering them from 1.
func ToFinancialPosts(posts []Post) ([]freelance.FinancialPost, error) {
	converted := make([]freelance.FinancialPost, 0, len(posts))
	for i, post := range posts {
		period, err := freelance.ParsePeriod(post.Period)
		if err != nil {
			return nil, fmt.Errorf("post %q: %w", post.Description, err)
		}
		fp := freelance.FinancialPost{
			ID:          int64(i + 1),
			Description: post.Description,
			Amount:      post.Amount,
			Period:      period,
		}
		if err := fp.Validate(); err != nil {
			return nil, err
		}
		converted = append(converted, fp)
	}
	return converted, nil
}

// ToInputs converts the freelance section to calculator inputs.
func (fc FreelanceConfig) ToInputs() (freelance.Inputs, error) {
	costs, err := ToFinancialPosts(fc.Costs)
	if err != nil {
		return freelance.Inputs{}, fmt.Errorf("costs: %w", err)
	}
	lost, err := ToFinancialPosts(fc.LostRevenue)
	if err != nil {
		return freelance.Inputs{}, fmt.Errorf("lost revenue: %w", err)
	}

	return freelance.Inputs{
		Revenue:     freelance.Revenue{HourlyRate: fc.HourlyRate, Scope: fc.Scope},
		Benefits:    freelance.Benefits{Salary: fc.Salary, Vacation: fc.Vacation, Pension: fc.Pension},
		Costs:       costs,
		LostRevenue: lost,
		SalaryStep:  fc.SalaryStep,
	}, nil
}

// ToScenarios returns the configured scenarios with missing ids and colours
// filled in.
func (hc HomeComparisonConfig) ToScenarios() []home.Scenario {
	scenarios := make([]home.Scenario, len(hc.Scenarios))
	colour := 0
	for i, s := range hc.Scenarios {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Color == "" {
			if s.IsBaseline {
				s.Color = home.BaselineColor
			} else {
				s.Color = home.ScenarioColors[colour%len(home.ScenarioColors)]
				colour++
			}
		}
		scenarios[i] = s
	}
	return scenarios
}
