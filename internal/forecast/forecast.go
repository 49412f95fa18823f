// Package forecast runs the freelance calculation and the home comparison for
// a configuration and collects the results in a report.
package forecast

import (
	"fmt"

	"github.com/iwvelando/frilans-calc/internal/config"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/freelance"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"github.com/iwvelando/frilans-calc/pkg/storage"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"go.uber.org/zap"
)

// Report holds all results for one configuration.
type Report struct {
	Freelance *freelance.Summary    `json:"freelance,omitempty" yaml:"freelance,omitempty"`
	Years     int                   `json:"years" yaml:"years"`
	Scenarios []home.ScenarioResult `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	ShareURL  string                `json:"shareUrl,omitempty" yaml:"shareUrl,omitempty"`
	Warnings  []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// GetFreelance computes the freelance summary for the configuration.
func GetFreelance(logger *zap.Logger, conf config.Configuration, table *taxtable.Table) (freelance.Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	inputs, err := conf.Freelance.ToInputs()
	if err != nil {
		return freelance.Summary{}, err
	}

	summary, err := freelance.Calculate(table, inputs)
	if err != nil {
		return freelance.Summary{}, fmt.Errorf("freelance calculation failed: %w", err)
	}

	logger.Debug(fmt.Sprintf("monthly net income %.0f at salary %.0f", summary.Income.MonthlyNetIncome, inputs.Benefits.Salary),
		zap.String("op", "forecast.GetFreelance"),
	)
	return summary, nil
}

// Scenarios returns the scenarios to compare. Configured scenarios take
// precedence; otherwise the scenarios saved in the storage directory are
// used.
func Scenarios(logger *zap.Logger, conf config.Configuration) []home.Scenario {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenarios := conf.HomeComparison.ToScenarios()
	if len(scenarios) > 0 || conf.HomeComparison.StorageDir == "" {
		return scenarios
	}

	stored := storage.NewFileStore(conf.HomeComparison.StorageDir, logger).LoadScenarios()
	logger.Debug(fmt.Sprintf("loaded %d stored scenarios", len(stored)),
		zap.String("op", "forecast.Scenarios"),
	)
	return stored
}

// GetHomeComparison projects the scenarios over the configured horizon.
func GetHomeComparison(logger *zap.Logger, conf config.Configuration, scenarios []home.Scenario) ([]home.ScenarioResult, error) {
	results, err := home.NewCalculator(logger).CompareScenarios(scenarios, conf.HomeComparison.Years)
	if err != nil {
		return nil, fmt.Errorf("home comparison failed: %w", err)
	}
	return results, nil
}

// GetForecast builds the complete report. When a storage directory is
// configured the compared scenarios are saved there, and a share link is
// added when a share base URL is configured.
func GetForecast(logger *zap.Logger, conf config.Configuration, table *taxtable.Table) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	summary, err := GetFreelance(logger, conf, table)
	if err != nil {
		return nil, err
	}

	years := conf.HomeComparison.Years
	if years <= 0 {
		years = constants.DefaultProjectionYears
	}
	report := &Report{
		Freelance: &summary,
		Years:     years,
		Warnings:  conf.ValidateConfiguration(),
	}

	scenarios := Scenarios(logger, conf)
	if len(scenarios) == 0 {
		return report, nil
	}

	report.Scenarios, err = GetHomeComparison(logger, conf, scenarios)
	if err != nil {
		return nil, err
	}

	if dir := conf.HomeComparison.StorageDir; dir != "" {
		if err := storage.NewFileStore(dir, logger).SaveScenarios(scenarios); err != nil {
			logger.Warn("failed to save scenarios",
				zap.String("op", "forecast.GetForecast"),
				zap.Error(err),
			)
		}
	}

	if base := conf.HomeComparison.ShareBaseURL; base != "" {
		link, err := storage.ShareURL(base, scenarios)
		if err != nil {
			return nil, fmt.Errorf("failed to build share link: %w", err)
		}
		report.ShareURL = link
	}

	return report, nil
}
