package stats

import (
	"math"

	"benchse/internal/errors"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summarize computes descriptive statistics for series together with a
// two-sided confidence interval for its mean. The interval half-width is the
// Student's t quantile at the requested confidence times the corrected
// standard error, with EffectiveN-1 degrees of freedom.
func Summarize(series Series, confidence float64, opts Options) (Summary, error) {
	if !(confidence > 0 && confidence < 1) {
		return Summary{}, errors.InvalidInput("confidence must be in (0, 1)")
	}
	data := series.Values
	if len(data) == 0 {
		return Summary{}, errors.InvalidInput("series " + series.Name + " has no samples")
	}

	min, err := mstats.Min(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to compute min")
	}
	max, err := mstats.Max(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to compute max")
	}
	median, err := mstats.Median(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to compute median")
	}

	stdDev := math.NaN()
	if len(data) > 1 {
		stdDev, err = mstats.StandardDeviationSample(data)
		if err != nil {
			return Summary{}, errors.Wrap(err, "failed to compute standard deviation")
		}
	}

	est := Estimate(data, opts)
	half := criticalValue(confidence, est.EffectiveN) * est.StdErr

	return Summary{
		Name:       series.Name,
		Min:        min,
		Max:        max,
		Median:     median,
		StdDev:     stdDev,
		Lag1Corr:   Autocorrelation(data, 1),
		Confidence: confidence,
		CILower:    est.Mean - half,
		CIUpper:    est.Mean + half,
		Estimation: est,
	}, nil
}

// criticalValue returns the two-sided t quantile for the given confidence
// and effective sample size
func criticalValue(confidence, effectiveN float64) float64 {
	if math.IsNaN(effectiveN) {
		return math.NaN()
	}
	p := (1 + confidence) / 2
	if math.IsInf(effectiveN, 1) {
		return distuv.UnitNormal.Quantile(p)
	}
	nu := math.Max(effectiveN-1, 1)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	return tDist.Quantile(p)
}
