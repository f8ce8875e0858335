package stats

// Series is a named sequence of benchmark samples in collection order
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// NewSeries creates a new series
func NewSeries(name string, values []float64) Series {
	return Series{Name: name, Values: values}
}

// Len returns the number of samples
func (s Series) Len() int {
	return len(s.Values)
}

// Summary describes a series: location, spread, and the
// autocorrelation-aware uncertainty of its mean
type Summary struct {
	Name       string     `json:"name"`
	Min        float64    `json:"min"`
	Max        float64    `json:"max"`
	Median     float64    `json:"median"`
	StdDev     float64    `json:"std_dev"` // sample standard deviation (N-1)
	Lag1Corr   float64    `json:"lag1_autocorrelation"`
	Confidence float64    `json:"confidence"`
	CILower    float64    `json:"ci_lower"`
	CIUpper    float64    `json:"ci_upper"`
	Estimation Estimation `json:"estimation"`
}
