package stats_test

import (
	"math"
	"runtime"
	"testing"

	"benchse/domain/stats"
	"benchse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gstat "gonum.org/v1/gonum/stat"
)

func TestStandardError_InsufficientSamples(t *testing.T) {
	assert.True(t, math.IsNaN(stats.StandardError(nil)))
	assert.True(t, math.IsNaN(stats.StandardError([]float64{})))
	assert.True(t, math.IsNaN(stats.StandardError([]float64{42})))
	assert.True(t, math.IsNaN(stats.StandardError([]float64{math.Inf(1)})))

	est := stats.Estimate([]float64{7}, stats.Options{})
	assert.Equal(t, 1, est.N)
	assert.Equal(t, 0, est.MaxLag)
	assert.True(t, math.IsNaN(est.Mean))
	assert.True(t, math.IsNaN(est.Variance))
	assert.True(t, math.IsNaN(est.NaiveStdErr))
	assert.True(t, math.IsNaN(est.EffectiveN))
}

func TestStandardError_WorkedExample(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}

	est := stats.Estimate(samples, stats.Options{})
	assert.Equal(t, 5, est.N)
	assert.Equal(t, 3, est.MaxLag)
	assert.Equal(t, 3.0, est.Mean)
	assert.Equal(t, 2.0, est.Variance)
	// lag 1: 2*0.8*4 = 6.4, lag 2: 2*0.6*(-1) = -1.2, total 5.2/5
	assert.InDelta(t, 1.04, est.Autocovariance, 1e-12)
	assert.InDelta(t, math.Sqrt(0.608), est.StdErr, 1e-12)
	assert.InDelta(t, math.Sqrt(0.4), est.NaiveStdErr, 1e-12)
	assert.InDelta(t, 2.0/0.608, est.EffectiveN, 1e-9)

	assert.Equal(t, est.StdErr, stats.StandardError(samples))
}

func TestStandardError_TwoSamples(t *testing.T) {
	// max_lag = min(2, ceil(sqrt(2))) = 2, so only lag 1 contributes:
	// var = 1, cov = 2*0.5*(-1)/2 = -0.5, se = sqrt(0.5/2)
	est := stats.Estimate([]float64{1, 3}, stats.Options{})
	assert.Equal(t, 2, est.MaxLag)
	assert.InDelta(t, -0.5, est.Autocovariance, 1e-15)
	assert.InDelta(t, 0.5, est.StdErr, 1e-15)
}

func TestStandardError_Constant(t *testing.T) {
	assert.Equal(t, 0.0, stats.StandardError([]float64{5, 5, 5, 5}))
	assert.Equal(t, 0.0, stats.StandardError(testkit.Constant(1000, -3)))

	est := stats.Estimate([]float64{5, 5, 5, 5}, stats.Options{})
	assert.Equal(t, 0.0, est.Variance)
	assert.Equal(t, 0.0, est.Autocovariance)
	assert.Equal(t, 4.0, est.EffectiveN)
}

func TestStandardError_NeverNegative(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 500, Sigma: 3, Phi: -0.9, Seed: 7})
	inputs := [][]float64{
		testkit.Alternating(100, 1, 100),
		testkit.Alternating(7, -1, 1),
		gen.AR1(),
		gen.IID(),
		{1, -1},
	}
	for _, in := range inputs {
		se := stats.StandardError(in)
		assert.False(t, math.IsNaN(se))
		assert.GreaterOrEqual(t, se, 0.0)
	}
}

func TestStandardError_NegativeCorrectionClamped(t *testing.T) {
	// strong negative lag-1 correlation drives var+cov below zero
	est := stats.Estimate(testkit.Alternating(100, 1, 100), stats.Options{})
	assert.Less(t, est.Variance+est.Autocovariance, 0.0)
	assert.Equal(t, 0.0, est.StdErr)
	assert.True(t, math.IsInf(est.EffectiveN, 1))
}

func TestStandardError_ScaleInvariance(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 2000, Mean: 5, Sigma: 2, Phi: 0.6, Seed: 11})
	samples := gen.AR1()
	base := stats.StandardError(samples)
	require.Greater(t, base, 0.0)

	for _, c := range []float64{2, -3, 0.001, 1e6} {
		scaled := make([]float64, len(samples))
		for i, v := range samples {
			scaled[i] = c * v
		}
		assert.InEpsilon(t, math.Abs(c)*base, stats.StandardError(scaled), 1e-9, "scale %v", c)
	}
}

func TestStandardError_ShiftInvariance(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 2000, Sigma: 2, Phi: 0.3, Seed: 12})
	samples := gen.AR1()
	base := stats.StandardError(samples)

	for _, c := range []float64{-50, 1, 1000} {
		shifted := make([]float64, len(samples))
		for i, v := range samples {
			shifted[i] = v + c
		}
		assert.InEpsilon(t, base, stats.StandardError(shifted), 1e-6, "shift %v", c)
	}
}

func TestStandardError_OrderSensitive(t *testing.T) {
	alternating := testkit.Alternating(1000, 1, 100)
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Seed: 3})
	shuffled := gen.Shuffled(alternating)

	assert.ElementsMatch(t, alternating, shuffled)
	assert.NotEqual(t, stats.StandardError(alternating), stats.StandardError(shuffled))
	assert.Greater(t, stats.StandardError(shuffled), 0.0)
}

func TestStandardError_IndependentSamplesMatchNaive(t *testing.T) {
	if testing.Short() {
		t.Skip("large sample")
	}
	cfg := testkit.DefaultSeriesConfig()
	cfg.Length = 1_000_000
	samples := testkit.NewSeriesGenerator(cfg).IID()

	est := stats.Estimate(samples, stats.Options{Workers: runtime.NumCPU()})
	require.Equal(t, 1000, est.MaxLag)
	relDiff := math.Abs(est.StdErr-est.NaiveStdErr) / est.NaiveStdErr
	assert.Less(t, relDiff, 0.1)
}

func TestStandardError_PositiveCorrelationWidens(t *testing.T) {
	cfg := testkit.DefaultSeriesConfig()
	cfg.Phi = 0.9
	samples := testkit.NewSeriesGenerator(cfg).AR1()

	est := stats.Estimate(samples, stats.Options{})
	// the asymptotic ratio for AR(1) is sqrt((1+phi)/(1-phi)), about 4.4
	assert.Greater(t, est.StdErr/est.NaiveStdErr, 2.0)
	assert.Less(t, est.EffectiveN, float64(est.N)/4)
}

func TestStandardError_NonFinitePropagates(t *testing.T) {
	assert.True(t, math.IsNaN(stats.StandardError([]float64{1, math.NaN(), 3})))
	assert.True(t, math.IsNaN(stats.StandardError([]float64{1, math.Inf(1), 3})))
}

func TestStandardError_MatchesGonumMoments(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 777, Mean: 100, Sigma: 15, Phi: 0.4, Seed: 5})
	samples := gen.AR1()

	est := stats.Estimate(samples, stats.Options{})
	mean, variance := gstat.PopMeanVariance(samples, nil)
	assert.InDelta(t, mean, est.Mean, 1e-9)
	assert.InEpsilon(t, variance, est.Variance, 1e-9)
}

func TestDefaultBandwidth(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 4: 2, 5: 3, 9: 3, 10: 4, 100: 10, 101: 11}
	for n, want := range cases {
		assert.Equal(t, want, stats.DefaultBandwidth(n), "n=%d", n)
	}
}

func TestOptions_MaxLagClamped(t *testing.T) {
	assert.Equal(t, 10, stats.Options{Bandwidth: stats.FixedBandwidth(1000)}.MaxLag(10))
	assert.Equal(t, 1, stats.Options{Bandwidth: stats.FixedBandwidth(0)}.MaxLag(10))
	assert.Equal(t, 1, stats.Options{Bandwidth: stats.FixedBandwidth(-4)}.MaxLag(10))
	assert.Equal(t, 3, stats.Options{}.MaxLag(5))
}

func TestStandardError_BandwidthOneIsNaive(t *testing.T) {
	gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 300, Sigma: 1, Phi: 0.8, Seed: 9})
	samples := gen.AR1()

	est := stats.Estimate(samples, stats.Options{Bandwidth: stats.FixedBandwidth(1)})
	assert.Equal(t, 0.0, est.Autocovariance)
	assert.Equal(t, est.NaiveStdErr, est.StdErr)
}

func TestStandardError_DefaultOptionsUnchanged(t *testing.T) {
	samples := []float64{3.2, 1.1, 4.8, 4.9, 2.0, 7.5, 3.3, 0.4, 6.1}
	assert.Equal(t, stats.StandardError(samples),
		stats.StandardErrorWithOptions(samples, stats.Options{Bandwidth: stats.DefaultBandwidth}))
}

func TestStandardError_ParallelIsBitIdentical(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		gen := testkit.NewSeriesGenerator(testkit.SeriesGeneratorConfig{Length: 5000, Mean: 20, Sigma: 4, Phi: 0.5, Seed: seed})
		samples := gen.AR1()

		serial := stats.Estimate(samples, stats.Options{})
		for _, workers := range []int{2, 3, 8} {
			parallel := stats.Estimate(samples, stats.Options{Workers: workers})
			assert.Equal(t, serial, parallel, "seed %d workers %d", seed, workers)
		}
	}
}

func TestAutocovariance(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 2.0, stats.Autocovariance(samples, 0), 1e-15)
	assert.InDelta(t, 4.0/5, stats.Autocovariance(samples, 1), 1e-15)
	assert.InDelta(t, -1.0/5, stats.Autocovariance(samples, 2), 1e-15)

	assert.True(t, math.IsNaN(stats.Autocovariance(samples, 5)))
	assert.True(t, math.IsNaN(stats.Autocovariance(samples, -1)))
	assert.True(t, math.IsNaN(stats.Autocovariance(nil, 0)))
}

func TestAutocorrelation(t *testing.T) {
	alternating := testkit.Alternating(100, 1, 100)
	assert.InDelta(t, -0.99, stats.Autocorrelation(alternating, 1), 1e-12)
	assert.InDelta(t, 0.98, stats.Autocorrelation(alternating, 2), 1e-12)
	assert.InDelta(t, 1.0, stats.Autocorrelation(alternating, 0), 1e-15)

	assert.True(t, math.IsNaN(stats.Autocorrelation([]float64{5, 5, 5}, 1)))
	assert.True(t, math.IsNaN(stats.Autocorrelation([]float64{1}, 1)))
}
