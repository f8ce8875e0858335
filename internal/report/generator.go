package report

import (
	"context"
	"math"
	"time"

	"benchse/domain/stats"
	"benchse/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// costUnit is the number of samples one unit of concurrency pays for
const costUnit = 1 << 16

// Row statuses
const (
	StatusOK           = "ok"
	StatusInsufficient = "insufficient" // fewer than two samples
)

// Row is one series in a report
type Row struct {
	Status  string        `json:"status"`
	Summary stats.Summary `json:"summary"`
}

// Report tabulates the uncertainty of many series
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Confidence  float64   `json:"confidence"`
	Rows        []Row     `json:"rows"`
}

// GeneratorConfig configures a Generator
type GeneratorConfig struct {
	Options     stats.Options
	Confidence  float64
	Concurrency int // series of up to costUnit samples estimated at once
}

// Generator estimates many independent series concurrently. Each series
// acquires semaphore weight proportional to its length, so a few long series
// do not run alongside many others.
type Generator struct {
	config   GeneratorConfig
	sem      *semaphore.Weighted
	capacity int64
	logger   *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(config GeneratorConfig, logger *zap.Logger) *Generator {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	capacity := int64(config.Concurrency) * costUnit
	return &Generator{
		config:   config,
		sem:      semaphore.NewWeighted(capacity),
		capacity: capacity,
		logger:   logger,
	}
}

type seriesJob struct {
	index    int
	row      Row
	err      error
	duration time.Duration
}

// Run estimates every series and returns rows in input order. Series with
// fewer than two samples become rows with status "insufficient" and NaN
// statistics instead of failing the report.
func (g *Generator) Run(ctx context.Context, series []stats.Series) (*Report, error) {
	if !(g.config.Confidence > 0 && g.config.Confidence < 1) {
		return nil, errors.InvalidInput("confidence must be in (0, 1)")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "report cancelled")
	}

	rows := make([]Row, len(series))
	jobs := make(chan seriesJob, len(series))

	for i, s := range series {
		go func(index int, s stats.Series) {
			cost := g.cost(s.Len())
			if err := g.sem.Acquire(ctx, cost); err != nil {
				jobs <- seriesJob{index: index, err: err}
				return
			}
			defer g.sem.Release(cost)

			start := time.Now()
			row := g.estimate(s)
			jobs <- seriesJob{index: index, row: row, duration: time.Since(start)}
		}(i, s)
	}

	var firstErr error
	for range series {
		job := <-jobs
		if job.err != nil {
			if firstErr == nil {
				firstErr = job.err
			}
			continue
		}
		rows[job.index] = job.row
		g.logger.Debug("Series estimated",
			zap.String("series", job.row.Summary.Name),
			zap.String("status", job.row.Status),
			zap.Int("samples", job.row.Summary.Estimation.N),
			zap.Duration("duration", job.duration))
	}
	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "report cancelled")
	}

	report := &Report{
		RunID:       newRunID(),
		GeneratedAt: time.Now().UTC(),
		Confidence:  g.config.Confidence,
		Rows:        rows,
	}
	g.logger.Info("Report generated",
		zap.String("run_id", report.RunID),
		zap.Int("series", len(rows)))
	return report, nil
}

func (g *Generator) cost(n int) int64 {
	cost := int64(n)
	if cost < 1 {
		cost = 1
	}
	if cost > g.capacity {
		cost = g.capacity
	}
	return cost
}

func (g *Generator) estimate(s stats.Series) Row {
	summary, err := stats.Summarize(s, g.config.Confidence, g.config.Options)
	if err != nil {
		// only an empty series gets here; confidence was checked in Run
		return Row{Status: StatusInsufficient, Summary: emptySummary(s.Name, g.config.Confidence)}
	}
	status := StatusOK
	if summary.Estimation.N <= 1 {
		status = StatusInsufficient
	}
	return Row{Status: status, Summary: summary}
}

func emptySummary(name string, confidence float64) stats.Summary {
	nan := math.NaN()
	est := stats.Estimate(nil, stats.Options{})
	return stats.Summary{
		Name:       name,
		Min:        nan,
		Max:        nan,
		Median:     nan,
		StdDev:     nan,
		Lag1Corr:   nan,
		Confidence: confidence,
		CILower:    nan,
		CIUpper:    nan,
		Estimation: est,
	}
}

// newRunID returns a time-ordered UUID v7, falling back to v4
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
