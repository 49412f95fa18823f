// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/frilans-calc/internal/forecast"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/format"
	"github.com/iwvelando/frilans-calc/pkg/freelance"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders the report in the named output format.
func Write(w io.Writer, outputFormat string, report *forecast.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatYAML:
		return YamlFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report *forecast.Report) error {
	p := message.NewPrinter(language.Swedish)
	pw := &errWriter{w: w}

	if s := report.Freelance; s != nil {
		prettyFreelance(pw, p, s)
	}

	for _, result := range report.Scenarios {
		pw.printf("\n--- Results for scenario %s ---\n", result.Name)
		pw.printf("Year | Investments     | Remaining loan  | Home equity     | Net worth       | Monthly costs\n")
		pw.printf("____ | _______________ | _______________ | _______________ | _______________ | _____________\n")
		for _, row := range result.YearlyData {
			pw.printf("%4d | %15s | %15s | %15s | %15s | %s\n",
				row.Year,
				format.SEK(row.InvestmentValue),
				format.SEK(row.RemainingLoan),
				format.SEK(row.HomeEquity),
				format.SEK(row.NetWorth),
				format.SEK(row.TotalMonthlyCosts),
			)
		}
		prettySummary(pw, result.Summary)
	}

	if report.ShareURL != "" {
		pw.printf("\nShare link: %s\n", report.ShareURL)
	}
	if len(report.Warnings) > 0 {
		pw.printf("\nWarnings:\n")
		for _, warning := range report.Warnings {
			pw.printf("  - %s\n", warning)
		}
	}
	return pw.err
}

func prettyFreelance(pw *errWriter, p *message.Printer, s *freelance.Summary) {
	pw.printf("--- Freelance ---\n")
	pw.printf("Daily revenue:         %s\n", format.SEK(s.Revenue.DailyRevenue))
	pw.printf("Total revenue:         %s\n", format.SEK(s.Revenue.TotalRevenue))
	pw.printf("Lost revenue:          %s (%s days)\n", format.SEK(s.Revenue.LostRevenue), p.Sprintf("%.0f", s.LostDays))
	pw.printf("Adjusted revenue:      %s\n", format.SEK(s.Revenue.AdjustedRevenue))
	pw.printf("Additional costs:      %s\n", format.ByPeriod(s.AdditionalCosts, false))
	pw.printf("Salary costs:          %s\n", format.SEK(s.Corporate.SalaryCosts))
	pw.printf("Result after tax:      %s\n", format.SEK(s.Corporate.ResultAfterTax))
	pw.printf("Max dividend:          %s\n", format.SEK(s.Corporate.MaxDividend))
	pw.printf("Balanced result:       %s\n", format.SEK(s.Corporate.BalancedResult))
	pw.printf("Income tax:            %s (%s %%)\n", format.SEK(s.Income.MonthlyIncomeTax), p.Sprintf("%.2f", s.Income.IncomeTaxPercentage))
	pw.printf("Salary after tax:      %s\n", format.SEK(s.Income.SalaryAfterTax))
	pw.printf("Dividend after tax:    %s\n", format.ByPeriod(s.Income.DividendAfterTax, true))
	pw.printf("Monthly net income:    %s\n", format.SEK(s.Income.MonthlyNetIncome))
	pw.printf("Reference salary:      %s (%s %%)\n", format.SEK(s.Income.ReferenceSalary), p.Sprintf("%.2f", s.Income.ReferenceTaxPercent))
	pw.printf("Max salary:            %s\n", format.SEK(s.MaxSalary))
	if s.MaxIncome != nil {
		pw.printf("Highest total income:  %s at salary %s\n", format.SEK(s.MaxIncome.TotalIncome), format.SEK(s.MaxIncome.Salary))
	}
	if s.MinTax != nil {
		pw.printf("Lowest total tax:      %s at salary %s\n", format.SEK(s.MinTax.TotalTax), format.SEK(s.MinTax.Salary))
	}
}

func prettySummary(pw *errWriter, summary home.ScenarioSummary) {
	pw.printf("Net worth:             %s\n", format.SEK(summary.TotalNetWorth))
	pw.printf("Interest paid:         %s\n", format.SEK(summary.TotalInterestPaid))
	pw.printf("Costs paid:            %s\n", format.SEK(summary.TotalCostsPaid))
	if summary.MonthlyAmortization > 0 {
		pw.printf("Monthly amortization:  %s\n", format.SEK(summary.MonthlyAmortization))
	}
	if sale := summary.Sale; sale != nil {
		pw.printf("Sale in year %d:        %s, net proceeds %s after %s tax\n",
			sale.Year, format.SEK(sale.SalePrice), format.SEK(sale.NetProceeds), format.SEK(sale.CapitalGainsTax))
	}
}

// CsvFormat outputs the yearly net worth of every scenario in comma-separated
// value format, followed by the freelance salary sweep.
func CsvFormat(w io.Writer, report *forecast.Report) error {
	cw := csv.NewWriter(w)

	if len(report.Scenarios) > 0 {
		header := []string{"year"}
		for _, result := range report.Scenarios {
			header = append(header,
				fmt.Sprintf("net worth (%s)", result.Name),
				fmt.Sprintf("remaining loan (%s)", result.Name),
			)
		}
		if err := cw.Write(header); err != nil {
			return err
		}

		// All results have the same horizon, so take the years from the first.
		for i, row := range report.Scenarios[0].YearlyData {
			record := []string{strconv.Itoa(row.Year)}
			for _, result := range report.Scenarios {
				record = append(record, amount(result.YearlyData[i].NetWorth), amount(result.YearlyData[i].RemainingLoan))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	if s := report.Freelance; s != nil && len(s.TaxSeries) == len(s.Series) {
		if len(report.Scenarios) > 0 {
			if err := cw.Write(nil); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{"salary", "max dividend", "total income", "balanced result", "total tax"}); err != nil {
			return err
		}
		for i, point := range s.Series {
			if err := cw.Write([]string{
				amount(point.Salary),
				amount(point.MaxDividend),
				amount(point.TotalIncome),
				amount(point.BalancedResult),
				amount(s.TaxSeries[i].TotalTax),
			}); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// YamlFormat outputs the report as YAML.
func YamlFormat(w io.Writer, report *forecast.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report *forecast.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// errWriter keeps the first write error so printing can continue unchecked.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(formatString string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, formatString, args...)
}
