package forecast

import (
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/iwvelando/frilans-calc/internal/config"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"github.com/iwvelando/frilans-calc/pkg/storage"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"github.com/iwvelando/frilans-calc/pkg/testutil"
	"go.uber.org/zap"
)

func testConfiguration(t *testing.T) config.Configuration {
	t.Helper()
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	conf.Freelance.Costs = []config.Post{
		{Description: "Telefon", Amount: 450, Period: "monthly"},
		{Description: "Bil", Amount: 2500, Period: "monthly"},
		{Description: "Försäkring", Amount: 5000, Period: "monthly"},
	}
	conf.HomeComparison.Years = 10
	return *conf
}

func testScenarios(t *testing.T) []home.Scenario {
	t.Helper()
	base, err := home.NewScenario("Bara investera", home.OwnershipNone, true, 0)
	if err != nil {
		t.Fatalf("NewScenario() error = %v", err)
	}
	owned, err := home.NewScenario("Behåll", home.OwnershipOwned, false, 0)
	if err != nil {
		t.Fatalf("NewScenario() error = %v", err)
	}
	return []home.Scenario{base, owned}
}

func TestGetFreelance(t *testing.T) {
	summary, err := GetFreelance(zap.NewNop(), testConfiguration(t), taxtable.MustDefault())
	if err != nil {
		t.Fatalf("GetFreelance() error = %v", err)
	}
	if summary.Revenue.AdjustedRevenue != 1612800 {
		t.Errorf("AdjustedRevenue = %v, want 1612800", summary.Revenue.AdjustedRevenue)
	}
	if math.Abs(summary.Income.MonthlyNetIncome-53147) > 1e-6 {
		t.Errorf("MonthlyNetIncome = %v, want 53147", summary.Income.MonthlyNetIncome)
	}
}

func TestGetFreelanceErrors(t *testing.T) {
	conf := testConfiguration(t)
	if _, err := GetFreelance(nil, conf, nil); err == nil {
		t.Errorf("expected error without a tax table")
	}

	conf.Freelance.Costs[0].Period = "sometimes"
	if _, err := GetFreelance(nil, conf, taxtable.MustDefault()); err == nil {
		t.Errorf("expected error for unknown period")
	}
}

func TestGetForecastWithoutScenarios(t *testing.T) {
	report, err := GetForecast(nil, testConfiguration(t), taxtable.MustDefault())
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if report.Freelance == nil {
		t.Fatalf("expected freelance summary")
	}
	if len(report.Scenarios) != 0 {
		t.Errorf("expected no scenario results, got %d", len(report.Scenarios))
	}
	if report.Years != 10 {
		t.Errorf("Years = %d, want 10", report.Years)
	}
}

func TestGetForecastWithScenarios(t *testing.T) {
	conf := testConfiguration(t)
	conf.HomeComparison.Scenarios = testScenarios(t)
	conf.HomeComparison.StorageDir = t.TempDir()
	conf.HomeComparison.ShareBaseURL = "https://example.com/home"

	report, err := GetForecast(zap.NewNop(), conf, taxtable.MustDefault())
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if len(report.Scenarios) != 2 {
		t.Fatalf("expected 2 scenario results, got %d", len(report.Scenarios))
	}
	for _, result := range report.Scenarios {
		if len(result.YearlyData) != 11 {
			t.Errorf("%s: expected 11 yearly rows, got %d", result.Name, len(result.YearlyData))
		}
	}

	owned := testutil.FindScenario(report.Scenarios, "Behåll")
	if owned == nil {
		t.Fatalf("missing result for owned home")
	}
	if final := testutil.FinalYear(owned); final.HomeValue <= 5000000 || final.RemainingLoan >= 3500000 {
		t.Errorf("unexpected final year %+v", final)
	}
	if owned.Summary.Sale == nil || owned.Summary.Sale.Year != 10 {
		t.Errorf("expected a sale in year 10, got %+v", owned.Summary.Sale)
	}
	if base := testutil.FindScenario(report.Scenarios, "Bara investera"); base == nil || base.Summary.Sale != nil {
		t.Errorf("baseline should have no sale")
	}

	stored := storage.NewFileStore(conf.HomeComparison.StorageDir, nil).LoadScenarios()
	if len(stored) != 2 {
		t.Errorf("expected 2 stored scenarios, got %d", len(stored))
	}

	u, err := url.Parse(report.ShareURL)
	if err != nil {
		t.Fatalf("invalid share url %q: %v", report.ShareURL, err)
	}
	if u.Query().Get(storage.ShareParam) == "" {
		t.Errorf("share url %q has no data parameter", report.ShareURL)
	}
	if shared := storage.ScenariosFromURL(nil, report.ShareURL); len(shared) != 2 {
		t.Errorf("expected 2 shared scenarios, got %d", len(shared))
	}
}

func TestScenariosFallsBackToStorage(t *testing.T) {
	dir := t.TempDir()
	if err := storage.NewFileStore(dir, nil).SaveScenarios(testScenarios(t)); err != nil {
		t.Fatalf("SaveScenarios() error = %v", err)
	}

	conf := testConfiguration(t)
	conf.HomeComparison.StorageDir = dir
	if got := Scenarios(nil, conf); len(got) != 2 {
		t.Errorf("expected 2 stored scenarios, got %d", len(got))
	}

	conf.HomeComparison.Scenarios = testScenarios(t)[:1]
	if got := Scenarios(nil, conf); len(got) != 1 {
		t.Errorf("configured scenarios must take precedence, got %d", len(got))
	}
}

func TestGetForecastInvalidScenario(t *testing.T) {
	conf := testConfiguration(t)
	scenarios := testScenarios(t)
	scenarios[1].HomeOwnership.Type = "rented"
	conf.HomeComparison.Scenarios = scenarios

	if _, err := GetForecast(nil, conf, taxtable.MustDefault()); err == nil {
		t.Errorf("expected error for invalid scenario")
	}
}

func TestGetForecastRejectsLongHorizon(t *testing.T) {
	conf := testConfiguration(t)
	conf.HomeComparison.Scenarios = testScenarios(t)
	conf.HomeComparison.Years = 1000000000

	_, err := GetForecast(nil, conf, taxtable.MustDefault())
	if !errors.Is(err, home.ErrHorizonTooLong) {
		t.Errorf("expected ErrHorizonTooLong, got %v", err)
	}
}
