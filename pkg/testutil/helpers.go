// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/frilans-calc/pkg/home"
)

// FindScenario finds a scenario result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []home.ScenarioResult, name string) *home.ScenarioResult {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FinalYear returns the last yearly row of a result, or the zero row when
// there is none.
func FinalYear(result *home.ScenarioResult) home.YearlyData {
	if result == nil || len(result.YearlyData) == 0 {
		return home.YearlyData{}
	}
	return result.YearlyData[len(result.YearlyData)-1]
}
