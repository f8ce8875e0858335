package stats_test

import (
	"math"
	"testing"

	"benchse/domain/stats"
	"benchse/internal/errors"
	"benchse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestSummarize_WorkedExample(t *testing.T) {
	summary, err := stats.Summarize(stats.NewSeries("latency", []float64{1, 2, 3, 4, 5}), 0.95, stats.Options{})
	require.NoError(t, err)

	assert.Equal(t, "latency", summary.Name)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 5.0, summary.Max)
	assert.Equal(t, 3.0, summary.Median)
	assert.InDelta(t, math.Sqrt(2.5), summary.StdDev, 1e-12)
	assert.InDelta(t, 0.4, summary.Lag1Corr, 1e-12)

	est := summary.Estimation
	nu := est.EffectiveN - 1
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	tq := tDist.Quantile(0.975)
	assert.InDelta(t, 3-tq*est.StdErr, summary.CILower, 1e-9)
	assert.InDelta(t, 3+tq*est.StdErr, summary.CIUpper, 1e-9)
	assert.Less(t, summary.CILower, est.Mean)
	assert.Greater(t, summary.CIUpper, est.Mean)
}

func TestSummarize_ConstantHasZeroWidth(t *testing.T) {
	summary, err := stats.Summarize(stats.NewSeries("flat", []float64{5, 5, 5, 5}), 0.99, stats.Options{})
	require.NoError(t, err)

	assert.Equal(t, 5.0, summary.CILower)
	assert.Equal(t, 5.0, summary.CIUpper)
	assert.Equal(t, 0.0, summary.StdDev)
	assert.True(t, math.IsNaN(summary.Lag1Corr))
}

func TestSummarize_SingleSample(t *testing.T) {
	summary, err := stats.Summarize(stats.NewSeries("one", []float64{12.5}), 0.95, stats.Options{})
	require.NoError(t, err)

	assert.Equal(t, 12.5, summary.Min)
	assert.Equal(t, 12.5, summary.Median)
	assert.True(t, math.IsNaN(summary.StdDev))
	assert.True(t, math.IsNaN(summary.Estimation.StdErr))
	assert.True(t, math.IsNaN(summary.CILower))
	assert.True(t, math.IsNaN(summary.CIUpper))
}

func TestSummarize_ClampedCollapses(t *testing.T) {
	summary, err := stats.Summarize(stats.NewSeries("alt", testkit.Alternating(100, 1, 100)), 0.95, stats.Options{})
	require.NoError(t, err)

	// the corrected standard error clamps to zero, so the interval collapses
	assert.Equal(t, summary.Estimation.Mean, summary.CILower)
	assert.Equal(t, summary.Estimation.Mean, summary.CIUpper)
}

func TestSummarize_WiderForCorrelatedSeries(t *testing.T) {
	cfg := testkit.DefaultSeriesConfig()
	cfg.Length = 4000
	iid, err := stats.Summarize(stats.NewSeries("iid", testkit.NewSeriesGenerator(cfg).IID()), 0.95, stats.Options{})
	require.NoError(t, err)

	cfg.Phi = 0.8
	ar, err := stats.Summarize(stats.NewSeries("ar", testkit.NewSeriesGenerator(cfg).AR1()), 0.95, stats.Options{})
	require.NoError(t, err)

	iidWidth := iid.CIUpper - iid.CILower
	arWidth := ar.CIUpper - ar.CILower
	assert.Greater(t, arWidth/ar.StdDev, iidWidth/iid.StdDev)
}

func TestSummarize_InvalidInput(t *testing.T) {
	_, err := stats.Summarize(stats.NewSeries("empty", nil), 0.95, stats.Options{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	for _, c := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, err := stats.Summarize(stats.NewSeries("x", []float64{1, 2}), c, stats.Options{})
		require.Error(t, err, "confidence %v", c)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}
