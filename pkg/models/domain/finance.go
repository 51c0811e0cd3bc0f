package domain

import "time"

// IncomeSource is one of the reported income groups on a yearly financial report.
type IncomeSource string

const (
	IncomeDonations   IncomeSource = "donations"
	IncomeGovernment  IncomeSource = "government"
	IncomeServiceFees IncomeSource = "service_fees"
	IncomeOther       IncomeSource = "other"
)

// IncomeSources returns the income groups in their declared order.
// Iteration over the breakdown map must go through this to stay deterministic.
func IncomeSources() []IncomeSource {
	return []IncomeSource{IncomeDonations, IncomeGovernment, IncomeServiceFees, IncomeOther}
}

type FinancialRecord struct {
	OrgID          string
	Year           int
	Turnover       float64 // total yearly income, non-negative
	SurplusDeficit float64 // signed net result
	// IncomeBreakdown maps income groups to reported amounts. Absent groups are
	// simply missing keys; an empty map means no breakdown was reported at all.
	IncomeBreakdown map[IncomeSource]float64
}

// Metric is a scalar that may be undefined. The zero value is undefined;
// undefined is distinct from a zero-valued metric and must stay that way
// through scoring.
type Metric struct {
	Value float64
	Valid bool
}

func Defined(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// MetricSet holds the three raw per-organization metrics.
type MetricSet struct {
	OrgID     string
	Growth    Metric // year-over-year turnover growth rate
	Balance   Metric // surplus/deficit to turnover ratio
	Stability Metric // income diversification, in [0, 1]
}

// OrganizationProfile is one organization's reporting history, ordered by year ascending.
type OrganizationProfile struct {
	OrgID   string
	Records []FinancialRecord
	Band    string // assigned turnover band name
}

// Benchmarks are per-band means of the raw metrics, computed over defined values only.
type Benchmarks struct {
	Growth    Metric
	Balance   Metric
	Stability Metric
}

type RankedResult struct {
	OrgID   string
	Band    string
	Metrics MetricSet

	GrowthScore    Metric
	BalanceScore   Metric
	StabilityScore Metric

	Composite  float64
	Rank       int // 1-based, within band
	Benchmarks Benchmarks
}

// RecordWarning reports a single rejected financial record. Rejection is
// per-record: the rest of the organization's history stays in the batch.
type RecordWarning struct {
	OrgID  string
	Year   int
	Reason string
}

// RankRun is the output of one engine batch.
type RankRun struct {
	ID          string
	GeneratedAt time.Time
	Results     []RankedResult // ordered by band, then rank
	Warnings    []RecordWarning
}
