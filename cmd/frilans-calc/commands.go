package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/iwvelando/frilans-calc/internal/config"
	"github.com/iwvelando/frilans-calc/internal/forecast"
	"github.com/iwvelando/frilans-calc/internal/server"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/output"
	"github.com/iwvelando/frilans-calc/pkg/storage"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type reportScope int

const (
	reportAll reportScope = iota
	reportFreelance
	reportHome
)

func runReport(cmd *cobra.Command, opts *rootOptions, scope reportScope) error {
	conf, logger, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	var report *forecast.Report
	switch scope {
	case reportFreelance:
		table, err := conf.LoadTaxTable(logger)
		if err != nil {
			return err
		}
		summary, err := forecast.GetFreelance(logger, *conf, table)
		if err != nil {
			return err
		}
		report = &forecast.Report{Freelance: &summary}
	case reportHome:
		scenarios := forecast.Scenarios(logger, *conf)
		if len(scenarios) == 0 {
			return errors.New("no scenarios configured or stored")
		}
		results, err := forecast.GetHomeComparison(logger, *conf, scenarios)
		if err != nil {
			return err
		}
		report = &forecast.Report{Years: conf.HomeComparison.Years, Scenarios: results}
	default:
		table, err := conf.LoadTaxTable(logger)
		if err != nil {
			return err
		}
		if report, err = forecast.GetForecast(logger, *conf, table); err != nil {
			return err
		}
	}

	return output.Write(cmd.OutOrStdout(), conf.Output.Format, report)
}

func newCalcCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Calculate revenue, company result, taxes and take-home pay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts, reportFreelance)
		},
	}
}

func newHomeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Compare home purchase scenarios against investing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts, reportHome)
		},
	}
}

func newTaxTableCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxtable",
		Short: "Work with income tax tables",
	}

	var outDir, tableNr string
	preprocess := &cobra.Command{
		Use:   "preprocess <export.csv>",
		Short: "Convert a semicolon separated tax table export to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			year, ok := taxtable.YearFromFileName(filepath.Base(args[0]))
			if !ok {
				return fmt.Errorf("no year in file name %s", args[0])
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = in.Close()
			}()

			processor := taxtable.NewProcessor(logger)
			processor.TableNr = tableNr
			brackets, err := processor.Process(in)
			if err != nil {
				return err
			}
			if err := taxtable.NewTable(brackets).Validate(); err != nil {
				logger.Warn("processed table is not contiguous",
					zap.String("op", "main.taxtable"),
					zap.Error(err),
				)
			}

			path := filepath.Join(outDir, taxtable.OutputFileName(tableNr, year))
			out, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := taxtable.WriteJSON(out, brackets); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d brackets to %s\n", len(brackets), path)
			return err
		},
	}
	preprocess.Flags().StringVar(&outDir, "out", ".", "output directory")
	preprocess.Flags().StringVar(&tableNr, "table", constants.DefaultTaxTableNumber, "tax table number to keep")

	lookup := &cobra.Command{
		Use:   "lookup <monthly salary>",
		Short: "Show the monthly income tax for a salary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			income, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid salary %q: %w", args[0], err)
			}
			table, err := conf.LoadTaxTable(logger)
			if err != nil {
				return err
			}
			tax, err := table.ResolveIncomeTax(income)
			if err != nil {
				return err
			}
			reference := table.ReferenceSalary(income - tax.Tax)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "tax %.0f (%.2f %%), net %.0f, reference salary %.0f\n",
				tax.Tax, tax.TaxPercentage, income-tax.Tax, reference.ReferenceSalary)
			return err
		},
	}

	cmd.AddCommand(preprocess, lookup)
	return cmd
}

func newShareCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode or decode home comparison share links",
	}

	var baseURL string
	encode := &cobra.Command{
		Use:   "encode",
		Short: "Print a share link for the configured scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			scenarios := forecast.Scenarios(logger, *conf)
			if len(scenarios) == 0 {
				return errors.New("no scenarios configured or stored")
			}
			if baseURL == "" {
				baseURL = conf.HomeComparison.ShareBaseURL
			}
			if baseURL == "" {
				token, err := storage.EncodeScenarios(scenarios)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err
			}
			link, err := storage.ShareURL(baseURL, scenarios)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
	encode.Flags().StringVar(&baseURL, "base-url", "", "page the link points to (defaults to homeComparison.shareBaseURL)")

	decode := &cobra.Command{
		Use:   "decode <link or token>",
		Short: "Print the scenarios of a share link as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			scenarios := storage.ScenariosFromURL(logger, args[0])
			if scenarios == nil {
				if scenarios, err = storage.DecodeScenarios(args[0]); err != nil {
					return fmt.Errorf("not a share link or token: %w", err)
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.HomeComparisonConfig{Scenarios: scenarios}); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(encode, decode)
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var serverConfigPath, address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			tableConf := config.Configuration{TaxTable: cfg.TaxTable}
			table, err := tableConf.LoadTaxTable(logger)
			if err != nil {
				return err
			}

			handler, err := server.NewHandler(logger, cfg, table, version)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Address,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("op", "main.serve"),
					zap.String("address", cfg.Address),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down", zap.String("op", "main.serve"))
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
