package domain

import "fmt"

// UndefinedMetricPolicy controls how an organization's undefined raw metric
// enters scoring. Undefined values never join the normalization pool; the
// policy decides what the organization itself gets for that metric.
type UndefinedMetricPolicy string

const (
	// PolicyWorstCase assigns normalized score 0 for the undefined metric.
	PolicyWorstCase UndefinedMetricPolicy = "worst-case"
	// PolicyExclude drops the metric from the organization's composite and
	// renormalizes the remaining weights.
	PolicyExclude UndefinedMetricPolicy = "exclude"
)

// TurnoverBand is a half-open turnover range [Min, Max). Max <= 0 means unbounded.
type TurnoverBand struct {
	Name string
	Min  float64
	Max  float64
}

func (b TurnoverBand) Contains(turnover float64) bool {
	if turnover < b.Min {
		return false
	}
	return b.Max <= 0 || turnover < b.Max
}

func (b TurnoverBand) String() string {
	if b.Max <= 0 {
		return fmt.Sprintf("%s [%.0f+)", b.Name, b.Min)
	}
	return fmt.Sprintf("%s [%.0f, %.0f)", b.Name, b.Min, b.Max)
}

// Weights are the composite-score coefficients. They must sum to 1.
type Weights struct {
	Growth    float64
	Balance   float64
	Stability float64
}

// RankingConfig is the full configuration surface of the ranking engine.
// It is passed explicitly into every batch; the engine keeps no state between runs.
type RankingConfig struct {
	Weights         Weights
	Bands           []TurnoverBand // ordered by Min ascending, first band starts at 0
	UndefinedPolicy UndefinedMetricPolicy
}
