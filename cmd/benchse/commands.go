package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"benchse/adapters/samples"
	"benchse/domain/stats"
	"benchse/internal/config"
	"benchse/internal/errors"
	"benchse/internal/report"
	"benchse/ports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runStdin prints the corrected standard error of the numbers on stdin
func runStdin(cmd *cobra.Command, a *app) error {
	values, err := samples.ParseValues(cmd.Context(), a.stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read stdin")
	}
	se := stats.StandardErrorWithOptions(values, a.options())
	a.logger.Debug("Standard error estimated", zap.Int("samples", len(values)), zap.Float64("std_err", se))
	_, err = fmt.Fprintln(a.stdout, strconv.FormatFloat(se, 'g', -1, 64))
	return err
}

func newEstimateCmd(a *app) *cobra.Command {
	var format string
	var bandwidth int
	var opts samples.ReadOptions

	cmd := &cobra.Command{
		Use:   "estimate [file]",
		Short: "Show the corrected standard error and its intermediates for one series",
		Long: `Estimate the autocorrelation-corrected standard error of one series and print
the mean, biased variance, weighted autocovariance term, naive standard error
and effective sample size alongside it.

The file may be newline-separated text, CSV or XLSX; for tabular files the
first selected column is used. Without a file, or with "-", stdin is read.

Example: benchse estimate latencies.csv --columns p50 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bandwidth < 0 {
				return errors.InvalidInput("bandwidth must not be negative")
			}
			if bandwidth > 0 {
				a.cfg.Estimator.Bandwidth = bandwidth
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			series, err := a.readSeries(cmd, path, opts)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				return errors.InvalidInput("no series found in " + path)
			}
			s := series[0]
			est := stats.Estimate(s.Values, a.options())
			return report.WriteEstimation(a.stdout, s.Name, est, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	cmd.Flags().IntVar(&bandwidth, "bandwidth", 0, "Fixed maximum lag (0: ceil(sqrt(N)))")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "Columns to read from CSV/XLSX input")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "XLSX sheet (default: first sheet)")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var format string
	var confidence float64
	var concurrency int
	var opts samples.ReadOptions

	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Tabulate the uncertainty of every series in one or more files",
		Long: `Estimate every series in the given files concurrently and print a table with
mean, corrected and naive standard errors, effective sample size, lag-1
autocorrelation and a Student's t confidence interval for each.

Series with fewer than two samples are reported with n/a statistics rather
than failing the report.

Example: benchse report run1.csv run2.xlsx --format markdown --confidence 0.99`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Report.Format = format
			}
			if cmd.Flags().Changed("confidence") {
				a.cfg.Report.Confidence = confidence
			}
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Report.Concurrency = concurrency
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			var all []stats.Series
			for _, path := range args {
				series, err := a.readSeries(cmd, path, opts)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					for i := range series {
						series[i].Name = filepath.Base(path) + ":" + series[i].Name
					}
				}
				all = append(all, series...)
			}

			gen := report.NewGenerator(report.GeneratorConfig{
				Options:     a.options(),
				Confidence:  a.cfg.Report.Confidence,
				Concurrency: a.cfg.Report.Concurrency,
			}, a.logger)
			rep, err := gen.Run(cmd.Context(), all)
			if err != nil {
				return err
			}
			return report.Render(a.stdout, rep, a.cfg.Report.Format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: "+fmt.Sprint(config.Formats))
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence level of the interval")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Series estimated at once")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "Columns to read from CSV/XLSX input")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "XLSX sheet (default: first sheet)")
	return cmd
}

// readSeries opens path, treating "-" as the command's stdin
func (a *app) readSeries(cmd *cobra.Command, path string, opts samples.ReadOptions) ([]stats.Series, error) {
	var src ports.SampleSource
	if path == "-" {
		src = samples.NewTextReader(a.stdin, "stdin")
	} else {
		s, closer, err := samples.Open(path, opts, a.logger)
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		src = s
	}

	series, err := src.ReadSeries(cmd.Context())
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Series loaded", zap.String("path", path), zap.Int("series", len(series)))
	return series, nil
}
