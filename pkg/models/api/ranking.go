package api

import "time"

type Band struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max,omitempty"`
}

// RankedResult is the wire shape of one ranked row. Undefined metrics are
// nulls, never zeros.
type RankedResult struct {
	OrgID string `json:"org_id"`
	Band  string `json:"band"`
	Rank  int    `json:"rank"`

	Growth    *float64 `json:"growth"`
	Balance   *float64 `json:"balance"`
	Stability *float64 `json:"stability"`

	GrowthScore    *float64 `json:"growth_score"`
	BalanceScore   *float64 `json:"balance_score"`
	StabilityScore *float64 `json:"stability_score"`

	CompositeScore float64 `json:"composite_score"`

	GrowthBenchmark    *float64 `json:"growth_benchmark"`
	BalanceBenchmark   *float64 `json:"balance_benchmark"`
	StabilityBenchmark *float64 `json:"stability_benchmark"`
}

type RecordWarning struct {
	OrgID  string `json:"org_id"`
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

type RankRun struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Results     []RankedResult  `json:"results"`
	Warnings    []RecordWarning `json:"warnings,omitempty"`
}
