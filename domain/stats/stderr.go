package stats

import (
	"math"
)

// BandwidthFunc maps a sample count to the number of lags (exclusive upper
// bound) summed by the autocovariance correction
type BandwidthFunc func(n int) int

// DefaultBandwidth returns ceil(sqrt(n))
func DefaultBandwidth(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// FixedBandwidth returns a BandwidthFunc that always yields maxLag
func FixedBandwidth(maxLag int) BandwidthFunc {
	return func(int) int { return maxLag }
}

// Options tunes the corrected standard error estimator.
// The zero value reproduces StandardError exactly.
type Options struct {
	Bandwidth BandwidthFunc // nil means DefaultBandwidth
	Workers   int           // >1 computes per-lag sums concurrently
}

// MaxLag returns the bandwidth for n samples clamped to [1, n]
func (o Options) MaxLag(n int) int {
	bw := o.Bandwidth
	if bw == nil {
		bw = DefaultBandwidth
	}
	maxLag := bw(n)
	if maxLag > n {
		maxLag = n
	}
	if maxLag < 1 {
		maxLag = 1
	}
	return maxLag
}

// StandardError estimates the standard error of the mean of samples,
// correcting for autocorrelation between nearby samples. samples must be in
// collection order. Returns NaN when len(samples) <= 1.
func StandardError(samples []float64) float64 {
	return StandardErrorWithOptions(samples, Options{})
}

// StandardErrorWithOptions is StandardError with a configurable bandwidth and
// parallel lag summation
func StandardErrorWithOptions(samples []float64, opts Options) float64 {
	return Estimate(samples, opts).StdErr
}

// Estimation holds the corrected standard error together with the
// intermediate quantities it was derived from
type Estimation struct {
	N              int     `json:"n"`
	Mean           float64 `json:"mean"`
	Variance       float64 `json:"variance"`       // biased, divided by N
	MaxLag         int     `json:"max_lag"`        // lags 1..MaxLag-1 are summed
	Autocovariance float64 `json:"autocovariance"` // weighted lag sum divided by N
	StdErr         float64 `json:"std_err"`        // corrected standard error
	NaiveStdErr    float64 `json:"naive_std_err"`  // sqrt(Variance/N), assumes independence
	EffectiveN     float64 `json:"effective_n"`    // Variance / StdErr^2
}

// Estimate computes the corrected standard error and its intermediates.
// All float fields are NaN when len(samples) <= 1.
func Estimate(samples []float64, opts Options) Estimation {
	n := len(samples)
	if n <= 1 {
		nan := math.NaN()
		return Estimation{
			N:              n,
			Mean:           nan,
			Variance:       nan,
			Autocovariance: nan,
			StdErr:         nan,
			NaiveStdErr:    nan,
			EffectiveN:     nan,
		}
	}

	nf := float64(n)
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= nf

	variance := 0.0
	for _, v := range samples {
		diff := v - mean
		variance += diff * diff
	}
	variance /= nf

	maxLag := opts.MaxLag(n)

	var cov float64
	if opts.Workers > 1 && maxLag > 2 {
		cov = weightedLagSumParallel(samples, mean, maxLag, opts.Workers)
	} else {
		cov = weightedLagSum(samples, mean, maxLag)
	}
	cov /= nf

	stdErr := math.Sqrt(math.Max(variance+cov, 0) / nf)

	return Estimation{
		N:              n,
		Mean:           mean,
		Variance:       variance,
		MaxLag:         maxLag,
		Autocovariance: cov,
		StdErr:         stdErr,
		NaiveStdErr:    math.Sqrt(variance / nf),
		EffectiveN:     effectiveN(n, variance, stdErr),
	}
}

func effectiveN(n int, variance, stdErr float64) float64 {
	if variance == 0 {
		return float64(n)
	}
	if stdErr == 0 {
		return math.Inf(1)
	}
	return variance / (stdErr * stdErr)
}

// lagWeight is the Bartlett-like weight 1 - k/n
func lagWeight(k, n int) float64 {
	return 1 - float64(k)/float64(n)
}

// lagProductSum returns sum_{i=k}^{n-1} (x[i]-mean)(x[i-k]-mean)
func lagProductSum(samples []float64, mean float64, k int) float64 {
	sum := 0.0
	for i := k; i < len(samples); i++ {
		sum += (samples[i] - mean) * (samples[i-k] - mean)
	}
	return sum
}

// weightedLagSum accumulates 2*w(k)*lagProductSum over k = 1..maxLag-1
func weightedLagSum(samples []float64, mean float64, maxLag int) float64 {
	n := len(samples)
	cov := 0.0
	for k := 1; k < maxLag; k++ {
		cov += 2 * lagWeight(k, n) * lagProductSum(samples, mean, k)
	}
	return cov
}

// Autocovariance returns the lag-k autocovariance of samples, divided by N.
// Returns NaN when lag is outside [0, N-1].
func Autocovariance(samples []float64, lag int) float64 {
	n := len(samples)
	if n == 0 || lag < 0 || lag >= n {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	return lagProductSum(samples, mean, lag) / float64(n)
}

// Autocorrelation returns the lag-k autocorrelation coefficient of samples.
// Returns NaN when lag is out of range or the samples have zero variance.
func Autocorrelation(samples []float64, lag int) float64 {
	c0 := Autocovariance(samples, 0)
	if math.IsNaN(c0) || c0 == 0 {
		return math.NaN()
	}
	return Autocovariance(samples, lag) / c0
}
