package store

import "time"

// FinancialRecord is the persisted row shape of one yearly report.
type FinancialRecord struct {
	OrgID           string
	Year            int
	Turnover        float64
	SurplusDeficit  float64
	IncomeBreakdown map[string]float64
}

// RankRunMeta is the rank_runs row.
type RankRunMeta struct {
	ID              string
	GeneratedAt     time.Time
	RejectedRecords int
}

// RankedRow is the ranked_results row. Nil metric pointers are NULL columns,
// the persisted form of an undefined metric. BandOrdinal is the band's position
// in the run's configured band sequence; reads order by it so bands come back
// by size, not alphabetically.
type RankedRow struct {
	RunID       string
	OrgID       string
	Band        string
	BandOrdinal int
	Rank        int

	Composite float64

	Growth    *float64
	Balance   *float64
	Stability *float64

	GrowthScore    *float64
	BalanceScore   *float64
	StabilityScore *float64

	GrowthBenchmark    *float64
	BalanceBenchmark   *float64
	StabilityBenchmark *float64
}
