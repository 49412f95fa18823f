package freelance

import (
	"math"

	"github.com/iwvelando/frilans-calc/pkg/constants"
)

// Revenue holds the billing parameters. Scope is the utilisation percentage.
type Revenue struct {
	HourlyRate float64 `json:"hourlyRate" yaml:"hourlyRate"`
	Scope      float64 `json:"scope" yaml:"scope"`
}

// Normalize clamps Scope to [1, 100].
func (r Revenue) Normalize() Revenue {
	r.Scope = math.Max(1, math.Min(r.Scope, 100))
	return r
}

// RevenueResult is the yearly revenue breakdown.
type RevenueResult struct {
	DailyRevenue    float64 `json:"dailyRevenue"`
	TotalRevenue    float64 `json:"totalRevenue"`
	LostRevenue     float64 `json:"lostRevenue"`
	AdjustedRevenue float64 `json:"adjustedRevenue"`
}

// DailyRevenue is the revenue of one full working day at the given scope.
func DailyRevenue(rev Revenue) float64 {
	rev = rev.Normalize()
	return rev.HourlyRate * (rev.Scope / constants.PercentageMultiplier) * constants.HoursPerWorkday
}

// ComputeRevenue converts the billing parameters and the days without
// revenue into yearly figures. Adjusted revenue never goes below zero.
func ComputeRevenue(rev Revenue, vacationDays float64) RevenueResult {
	daily := DailyRevenue(rev)
	total := daily * constants.WorkingDaysSweden
	lost := math.Floor(daily * vacationDays)

	return RevenueResult{
		DailyRevenue:    daily,
		TotalRevenue:    total,
		LostRevenue:     lost,
		AdjustedRevenue: math.Max(total-lost, 0),
	}
}
