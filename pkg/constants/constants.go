// Package constants provides shared constants for the frilans-calc application.
package constants

// Working time
const (
	// WorkingDaysSweden is the approximate number of working days in a year in Sweden.
	WorkingDaysSweden = 249

	// HoursPerWorkday is the billable hours in one working day.
	HoursPerWorkday = 8

	// WorkdaysPerWeek is the number of working days in a week.
	WorkdaysPerWeek = 5

	// WorkdaysPerMonth is the number of working days in a month.
	WorkdaysPerMonth = 22

	// WeeksPerYear is the number of weeks in a year.
	WeeksPerYear = 52

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12
)

// Company and income taxation
const (
	// EmployerTaxRate is the employer fee (arbetsgivaravgift) charged on salary.
	EmployerTaxRate = 0.3142

	// CorporateTaxRate is the flat tax on company profit.
	CorporateTaxRate = 0.206

	// DividendTaxRate is the flat tax on dividends within the allowance.
	DividendTaxRate = 0.20

	// BaseDividendAllowance is the statutory base amount (schablonbelopp).
	BaseDividendAllowance = 209550

	// SalaryPercentageLimit is the monthly salary above which tax table
	// entries are percentages instead of fixed amounts.
	SalaryPercentageLimit = 80000

	// DefaultTaxTableNumber is the Skatteverket table used by the calculator.
	DefaultTaxTableNumber = "31"

	// DefaultSalaryStep is the salary increment used for projection sweeps.
	DefaultSalaryStep = 1000

	// MinSalaryStep is the smallest accepted sweep increment.
	MinSalaryStep = 100

	// MaxSeriesPoints caps the number of points in one salary sweep.
	MaxSeriesPoints = 10000
)

// Home comparison
const (
	// DefaultProjectionYears is the horizon used for scenario projections.
	DefaultProjectionYears = 20

	// MaxProjectionYears is the longest accepted projection horizon.
	MaxProjectionYears = 100

	// DefaultPropertyGrowth is the yearly property appreciation when none is configured.
	DefaultPropertyGrowth = 0.03

	// MaxLoanToIncomeRatio caps a mortgage at this multiple of yearly income.
	MaxLoanToIncomeRatio = 5.5

	// MinimumDownPaymentRatio is the minimum cash share of a purchase (kontantinsats).
	MinimumDownPaymentRatio = 0.15

	// MaximumLTVRatio is the highest loan-to-value a bank will lend.
	MaximumLTVRatio = 0.85

	// CapitalGainsTaxRate is the effective tax on gains from selling a home.
	CapitalGainsTaxRate = 0.22

	// ScenarioStorageKey names the persisted scenario list.
	ScenarioStorageKey = "homeComparison_v1"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "FRILANS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 öre)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
