// Package stats estimates the uncertainty of benchmark results.
//
// Samples collected over time from a live system are rarely independent: a
// slow response is often followed by another slow response. The classical
// standard error sqrt(var/N) then understates the uncertainty of the mean.
// StandardError corrects for this by adding the weighted autocovariances of
// the first ceil(sqrt(N)) lags, a truncated Bartlett-kernel HAC estimator:
//
//	se := stats.StandardError(latencies)
//
// Estimate exposes the intermediates (mean, biased variance, autocovariance
// term, naive standard error and effective sample size) and accepts Options
// to change the bandwidth or sum the lags on several goroutines:
//
//	est := stats.Estimate(latencies, stats.Options{Workers: runtime.NumCPU()})
//	fmt.Printf("%.3f ± %.3f (n_eff=%.0f)\n", est.Mean, est.StdErr, est.EffectiveN)
//
// Summarize adds descriptive statistics and a Student's t confidence interval
// whose degrees of freedom come from the effective sample size.
//
// Fewer than two samples yield NaN rather than an error.
package stats
