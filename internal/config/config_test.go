package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"go.uber.org/zap"
)

const sampleConfig = `
logging:
  level: debug
output:
  format: json
freelance:
  hourlyRate: 950
  scope: 80
  salary: 50000
  vacation: 30
  pension: 4.5
  costs:
    - description: Telefon
      amount: 450
      period: monthly
    - description: Dator
      amount: 20000
      period: yearly
  lostRevenue:
    - description: Konferens
      amount: 3
      period: daily
homeComparison:
  years: 15
  scenarios:
    - name: Bara investera
      isBaseline: true
      personalFinances:
        totalLiquidFunds: 1000000
        monthlySalary: 50000
      investment:
        startingAmount: 1000000
        monthlyDeposit: 5000
        expectedYearlyGrowth: 0.07
    - name: Köp lägenhet
      personalFinances:
        totalLiquidFunds: 1000000
        monthlySalary: 60000
      investment:
        startingAmount: 400000
        expectedYearlyGrowth: 0.07
      homeOwnership:
        type: purchase
        purchasePrice: 4000000
        downPayment: 600000
        loanAmount: 3400000
        yearlyInterestRate: 0.035
        monthlyCosts:
          avgift: 3500
          el: 600
        amorteringsbefrielse:
          enabled: true
          years: 2
      selling:
        yearsUntilSale: 10
        mäklarkostnad: 0.02
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", conf.Logging.Level)
	}
	if conf.Logging.Format != "console" {
		t.Errorf("Logging.Format default = %q, want console", conf.Logging.Format)
	}
	if conf.Output.Format != constants.OutputFormatJSON {
		t.Errorf("Output.Format = %q, want json", conf.Output.Format)
	}
	if conf.Freelance.HourlyRate != 950 || conf.Freelance.Scope != 80 {
		t.Errorf("unexpected revenue figures %+v", conf.Freelance)
	}
	if conf.Freelance.SalaryStep != constants.DefaultSalaryStep {
		t.Errorf("SalaryStep default = %v", conf.Freelance.SalaryStep)
	}
	if len(conf.Freelance.Costs) != 2 || conf.Freelance.Costs[1].Period != "yearly" {
		t.Errorf("unexpected costs %+v", conf.Freelance.Costs)
	}
	if conf.HomeComparison.Years != 15 {
		t.Errorf("HomeComparison.Years = %d, want 15", conf.HomeComparison.Years)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if len(conf.HomeComparison.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(conf.HomeComparison.Scenarios))
	}
	purchase := conf.HomeComparison.Scenarios[1]
	if purchase.HomeOwnership == nil {
		t.Fatalf("purchase scenario has no home ownership")
	}
	if purchase.HomeOwnership.Type != home.OwnershipPurchase {
		t.Errorf("Type = %q, want purchase", purchase.HomeOwnership.Type)
	}
	if purchase.HomeOwnership.MonthlyCosts.Avgift != 3500 {
		t.Errorf("Avgift = %v, want 3500", purchase.HomeOwnership.MonthlyCosts.Avgift)
	}
	ex := purchase.HomeOwnership.Amorteringsbefrielse
	if ex == nil || !ex.Enabled || ex.Years != 2 {
		t.Errorf("unexpected exemption %+v", ex)
	}
	if purchase.Selling == nil || purchase.Selling.Maklarkostnad != 0.02 {
		t.Errorf("unexpected selling %+v", purchase.Selling)
	}
	if conf.HomeComparison.Scenarios[0].HomeOwnership != nil {
		t.Errorf("baseline should have no home ownership")
	}
}

func TestLoadConfigurationInvalidOutputFormat(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("output:\n  format: xml\n"))
	if err == nil {
		t.Errorf("expected error for invalid output format")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("FRILANS_FREELANCE_HOURLYRATE", "1100")

	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Freelance.HourlyRate != 1100 {
		t.Errorf("HourlyRate = %v, want 1100 from environment", conf.Freelance.HourlyRate)
	}
}

func TestDefaultConfiguration(t *testing.T) {
	conf, err := DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	if conf.Freelance.HourlyRate != 900 || conf.Freelance.Salary != 45000 {
		t.Errorf("unexpected defaults %+v", conf.Freelance)
	}
	if conf.HomeComparison.Years != constants.DefaultProjectionYears {
		t.Errorf("Years = %d", conf.HomeComparison.Years)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q", conf.Output.Format)
	}
}

func TestLoadTaxTable(t *testing.T) {
	conf := &Configuration{}
	table, err := conf.LoadTaxTable(nil)
	if err != nil {
		t.Fatalf("LoadTaxTable() default error = %v", err)
	}
	if len(table.Brackets) == 0 {
		t.Errorf("expected embedded brackets")
	}

	path := filepath.Join(t.TempDir(), "table.json")
	doc := `[{"salaryFrom":0,"salaryTo":1000,"tax":0},{"salaryFrom":1001,"salaryTo":2000,"tax":100}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	conf.TaxTable.Path = path
	table, err = conf.LoadTaxTable(zap.NewNop())
	if err != nil {
		t.Fatalf("LoadTaxTable() error = %v", err)
	}
	if len(table.Brackets) != 2 {
		t.Errorf("expected 2 brackets, got %d", len(table.Brackets))
	}

	conf.TaxTable.Path = filepath.Join(t.TempDir(), "missing.json")
	if _, err := conf.LoadTaxTable(nil); err == nil {
		t.Errorf("expected error for missing table")
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	conf.Freelance.Salary = 500000
	conf.HomeComparison.Scenarios[1].HomeOwnership.DownPayment = 100000
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}

	conf.Freelance.Costs[0].Period = "fortnightly"
	warnings = conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "Telefon") {
		t.Errorf("expected a single period error, got %v", warnings)
	}
}
