package testkit

import (
	"fmt"
	"math/rand"

	"benchse/domain/stats"
)

// SeriesGeneratorConfig configures the synthetic benchmark series generator
type SeriesGeneratorConfig struct {
	Length int     `json:"length"`
	Mean   float64 `json:"mean"`  // level the series fluctuates around
	Sigma  float64 `json:"sigma"` // standard deviation of the innovations
	Phi    float64 `json:"phi"`   // AR(1) coefficient, 0 for independent samples
	Seed   int64   `json:"seed"`
}

// DefaultSeriesConfig returns defaults resembling response times in
// milliseconds
func DefaultSeriesConfig() SeriesGeneratorConfig {
	return SeriesGeneratorConfig{
		Length: 10000,
		Mean:   10.0,
		Sigma:  1.0,
		Phi:    0,
		Seed:   42,
	}
}

// SeriesGenerator produces deterministic sample sequences
type SeriesGenerator struct {
	config SeriesGeneratorConfig
	rng    *rand.Rand
}

// NewSeriesGenerator creates a new series generator
func NewSeriesGenerator(config SeriesGeneratorConfig) *SeriesGenerator {
	return &SeriesGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// IID returns independent normal samples
func (g *SeriesGenerator) IID() []float64 {
	values := make([]float64, g.config.Length)
	for i := range values {
		values[i] = g.config.Mean + g.config.Sigma*g.rng.NormFloat64()
	}
	return values
}

// AR1 returns an autoregressive series x[t] = phi*x[t-1] + e[t], shifted by
// Mean. Positive Phi gives runs of similar samples, like a system warming up
// or throttling.
func (g *SeriesGenerator) AR1() []float64 {
	values := make([]float64, g.config.Length)
	prev := 0.0
	for i := range values {
		prev = g.config.Phi*prev + g.config.Sigma*g.rng.NormFloat64()
		values[i] = g.config.Mean + prev
	}
	return values
}

// Alternating returns lo, hi, lo, hi, ...
func Alternating(n int, lo, hi float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		if i%2 == 0 {
			values[i] = lo
		} else {
			values[i] = hi
		}
	}
	return values
}

// Constant returns n copies of v
func Constant(n int, v float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// Shuffled returns a permuted copy of values
func (g *SeriesGenerator) Shuffled(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Batch returns count named AR(1) series with phi stepping from 0 towards
// Phi, for exercising the report generator
func (g *SeriesGenerator) Batch(count int) []stats.Series {
	series := make([]stats.Series, count)
	for i := range series {
		cfg := g.config
		if count > 1 {
			cfg.Phi = g.config.Phi * float64(i) / float64(count-1)
		}
		cfg.Seed = g.config.Seed + int64(i)
		series[i] = stats.NewSeries(fmt.Sprintf("series_%02d", i+1), NewSeriesGenerator(cfg).AR1())
	}
	return series
}
