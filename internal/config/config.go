// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/freelance"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"github.com/iwvelando/frilans-calc/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Configuration holds all configuration for frilans-calc.
type Configuration struct {
	Logging        LoggingConfig        `yaml:"logging,omitempty"`
	Output         OutputConfig         `yaml:"output,omitempty"`
	TaxTable       TaxTableConfig       `yaml:"taxTable,omitempty"`
	Freelance      FreelanceConfig      `yaml:"freelance,omitempty"`
	HomeComparison HomeComparisonConfig `yaml:"homeComparison,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, yaml, json
}

// TaxTableConfig selects the income tax table. An empty path uses the
// embedded table.
type TaxTableConfig struct {
	Path string `yaml:"path,omitempty"`
}

// FreelanceConfig holds the inputs of the freelance calculator.
type FreelanceConfig struct {
	HourlyRate  float64 `yaml:"hourlyRate"`
	Scope       float64 `yaml:"scope"`
	Salary      float64 `yaml:"salary"`
	Vacation    float64 `yaml:"vacation"`
	Pension     float64 `yaml:"pension"`
	SalaryStep  float64 `yaml:"salaryStep,omitempty"`
	Costs       []Post  `yaml:"costs,omitempty"`
	LostRevenue []Post  `yaml:"lostRevenue,omitempty"`
}

// Post is a cost or lost-revenue line item. Period is one of hourly, daily,
// weekly, monthly or yearly.
type Post struct {
	Description string  `yaml:"description"`
	Amount      float64 `yaml:"amount"`
	Period      string  `yaml:"period"`
}

// HomeComparisonConfig holds the scenarios of the home comparison.
type HomeComparisonConfig struct {
	Years        int             `yaml:"years,omitempty"`
	StorageDir   string          `yaml:"storageDir,omitempty"`
	ShareBaseURL string          `yaml:"shareBaseURL,omitempty"`
	Scenarios    []home.Scenario `yaml:"scenarios,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := freelance.DefaultInputs()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("freelance.hourlyRate", defaults.Revenue.HourlyRate)
	v.SetDefault("freelance.scope", defaults.Revenue.Scope)
	v.SetDefault("freelance.salary", defaults.Benefits.Salary)
	v.SetDefault("freelance.vacation", defaults.Benefits.Vacation)
	v.SetDefault("freelance.pension", defaults.Benefits.Pension)
	v.SetDefault("freelance.salaryStep", constants.DefaultSalaryStep)
	v.SetDefault("homeComparison.years", constants.DefaultProjectionYears)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with FRILANS override
// file values, e.g. FRILANS_FREELANCE_HOURLYRATE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

// DefaultConfiguration returns the built-in defaults without reading a file.
func DefaultConfiguration() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := validation.ValidateOutputFormat(configuration.Output.Format); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// LoadTaxTable returns the configured tax table or the embedded default.
func (c *Configuration) LoadTaxTable(logger *zap.Logger) (*taxtable.Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c.TaxTable.Path == "" {
		return taxtable.Default()
	}

	f, err := os.Open(c.TaxTable.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tax table %s: %w", c.TaxTable.Path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	brackets, err := taxtable.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax table %s: %w", c.TaxTable.Path, err)
	}
	table := taxtable.NewTable(brackets)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("tax table %s: %w", c.TaxTable.Path, err)
	}

	logger.Debug(fmt.Sprintf("loaded %d tax brackets", len(table.Brackets)),
		zap.String("op", "config.LoadTaxTable"),
		zap.String("path", c.TaxTable.Path),
	)
	return table, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	inputs, err := c.Freelance.ToInputs()
	if err != nil {
		return []string{err.Error()}
	}

	revenue := freelance.ComputeRevenue(inputs.Revenue, inputs.Benefits.Vacation)
	costs, err := freelance.YearlyTotal(inputs.Costs)
	if err != nil {
		return []string{err.Error()}
	}

	cv := validation.ConfigValidator{
		Freelance: validation.FreelanceConfig{
			Scope:     c.Freelance.Scope,
			Salary:    c.Freelance.Salary,
			MaxSalary: freelance.MaxSalary(revenue.AdjustedRevenue-costs, c.Freelance.Pension),
			Pension:   c.Freelance.Pension,
			Vacation:  c.Freelance.Vacation,
		},
		Years: c.HomeComparison.Years,
	}
	for _, s := range c.HomeComparison.Scenarios {
		if s.HomeOwnership == nil {
			continue
		}
		cv.Scenarios = append(cv.Scenarios, validation.ScenarioConfig{
			Name:          s.Name,
			PurchasePrice: s.HomeOwnership.PurchasePrice,
			DownPayment:   s.HomeOwnership.DownPayment,
			LoanAmount:    s.HomeOwnership.LoanAmount,
			YearlyIncome:  s.PersonalFinances.YearlyIncome(),
			LiquidFunds:   s.PersonalFinances.TotalLiquidFunds,
		})
	}
	return cv.ValidateAll()
}
