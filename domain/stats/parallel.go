package stats

import (
	"golang.org/x/sync/errgroup"
)

// weightedLagSumParallel computes the same value as weightedLagSum, bit for
// bit. Each per-lag product sum runs on a single goroutine in sequence order;
// the weighted sums are then folded in ascending lag order.
func weightedLagSumParallel(samples []float64, mean float64, maxLag, workers int) float64 {
	n := len(samples)
	lagSums := make([]float64, maxLag)

	var g errgroup.Group
	g.SetLimit(workers)
	for k := 1; k < maxLag; k++ {
		k := k
		g.Go(func() error {
			lagSums[k] = lagProductSum(samples, mean, k)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	cov := 0.0
	for k := 1; k < maxLag; k++ {
		cov += 2 * lagWeight(k, n) * lagSums[k]
	}
	return cov
}
