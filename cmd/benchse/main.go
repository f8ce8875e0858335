package main

import (
	"fmt"
	"io"
	"os"

	"benchse/domain/stats"
	"benchse/internal/config"
	"benchse/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (a *app) options() stats.Options {
	opts := stats.Options{Workers: a.cfg.Estimator.Workers}
	if a.cfg.Estimator.Bandwidth > 0 {
		opts.Bandwidth = stats.FixedBandwidth(a.cfg.Estimator.Bandwidth)
	}
	return opts
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, logger: zap.NewNop()}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "benchse",
		Short: "Autocorrelation-corrected standard error of benchmark samples",
		Long: `Estimate the standard error of the mean of benchmark samples that were
collected over time and may be serially correlated.

With no subcommand, reads newline-separated numbers from stdin and prints the
corrected standard error (NaN when fewer than two samples are given).

Configuration is read from the environment (and a .env file if present):
  BENCHSE_WORKERS      lag-sum goroutines per series (default: number of CPUs)
  BENCHSE_BANDWIDTH    fixed maximum lag (default: ceil(sqrt(N)))
  BENCHSE_CONCURRENCY  series estimated at once by report (default: 4)
  BENCHSE_CONFIDENCE   confidence level (default: 0.95)
  BENCHSE_FORMAT       report format (default: text)
  BENCHSE_LOG_LEVEL    debug|info|warn|error (default: info)

Example: ./bench | benchse`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			logger, err := logging.New(cfg.Log.Level)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdin(cmd, a)
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")

	rootCmd.AddCommand(
		newEstimateCmd(a),
		newReportCmd(a),
	)
	return rootCmd
}
