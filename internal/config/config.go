package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"benchse/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Estimator EstimatorConfig
	Report    ReportConfig
	Log       LogConfig
}

// EstimatorConfig tunes the standard error estimator
type EstimatorConfig struct {
	Workers   int // lag-sum goroutines per series
	Bandwidth int // fixed max lag, 0 means ceil(sqrt(N))
}

// ReportConfig holds batch report settings
type ReportConfig struct {
	Concurrency int     // series estimated at once
	Confidence  float64 // confidence level of the interval
	Format      string  // text, json, markdown or html
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// Formats lists the accepted report formats
var Formats = []string{"text", "json", "markdown", "html"}

// Load reads configuration from the environment and validates it. A .env file
// in the working directory is loaded first if present; variables already set
// in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to load .env file")
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment only
func FromEnv() (*Config, error) {
	env := &envReader{}
	config := &Config{
		Estimator: EstimatorConfig{
			Workers:   env.intOrDefault("BENCHSE_WORKERS", runtime.NumCPU()),
			Bandwidth: env.intOrDefault("BENCHSE_BANDWIDTH", 0),
		},
		Report: ReportConfig{
			Concurrency: env.intOrDefault("BENCHSE_CONCURRENCY", 4),
			Confidence:  env.floatOrDefault("BENCHSE_CONFIDENCE", 0.95),
			Format:      strings.ToLower(getEnvOrDefault("BENCHSE_FORMAT", "text")),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("BENCHSE_LOG_LEVEL", "info"),
		},
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Estimator.Workers < 1 {
		return errors.ConfigInvalid("workers must be at least 1")
	}
	if c.Estimator.Bandwidth < 0 {
		return errors.ConfigInvalid("bandwidth must not be negative")
	}
	if c.Report.Concurrency < 1 {
		return errors.ConfigInvalid("concurrency must be at least 1")
	}
	if !(c.Report.Confidence > 0 && c.Report.Confidence < 1) {
		return errors.ConfigInvalid("confidence must be in (0, 1)")
	}
	if !ValidFormat(c.Report.Format) {
		return errors.ConfigInvalid("unknown report format " + c.Report.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.ConfigInvalid("unknown log level " + c.Log.Level)
	}
	return nil
}

// ValidFormat reports whether format is a known report format
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses numeric variables and keeps the first parse failure
type envReader struct {
	err error
}

func (r *envReader) fail(key, value, kind string) {
	if r.err == nil {
		r.err = errors.ConfigInvalid(fmt.Sprintf("%s=%q is not %s", key, value, kind))
	}
}

func (r *envReader) intOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.fail(key, value, "an integer")
		return defaultValue
	}
	return intValue
}

func (r *envReader) floatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		r.fail(key, value, "a number")
		return defaultValue
	}
	return floatValue
}
