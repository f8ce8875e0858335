package ports

import (
	"context"

	"benchse/domain/stats"
)

// SampleSource yields benchmark series in collection order
type SampleSource interface {
	ReadSeries(ctx context.Context) ([]stats.Series, error)
}
