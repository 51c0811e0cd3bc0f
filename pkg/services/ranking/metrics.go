package ranking

import "github.com/de-tools/ngo-atlas/pkg/models/domain"

// ComputeMetrics derives the three raw metrics from one organization's
// reporting history. Records must be ordered by year ascending. Each metric
// degrades to undefined independently; no amount of missing data is an error.
func ComputeMetrics(profile domain.OrganizationProfile) domain.MetricSet {
	return domain.MetricSet{
		OrgID:     profile.OrgID,
		Growth:    computeGrowth(profile.Records),
		Balance:   computeBalance(profile.Records),
		Stability: computeStability(profile.Records),
	}
}

// computeGrowth uses the most recent pair of consecutive reported years with
// non-zero prior-year turnover. The same single-pair policy applies to every
// organization so rankings stay comparable. Gap years never form a pair.
func computeGrowth(records []domain.FinancialRecord) domain.Metric {
	for i := len(records) - 1; i > 0; i-- {
		curr, prev := records[i], records[i-1]
		if curr.Year != prev.Year+1 {
			continue
		}
		if prev.Turnover <= 0 {
			continue
		}
		return domain.Defined((curr.Turnover - prev.Turnover) / prev.Turnover)
	}
	return domain.Metric{}
}

// computeBalance is the surplus/deficit-to-turnover ratio of the most recent
// year with non-zero turnover.
func computeBalance(records []domain.FinancialRecord) domain.Metric {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Turnover > 0 {
			return domain.Defined(records[i].SurplusDeficit / records[i].Turnover)
		}
	}
	return domain.Metric{}
}

// computeStability measures income diversification as one minus the normalized
// Herfindahl index of the most recent non-empty income breakdown: a single-source
// organization scores 0, an even split across all groups scores 1.
func computeStability(records []domain.FinancialRecord) domain.Metric {
	for i := len(records) - 1; i >= 0; i-- {
		breakdown := records[i].IncomeBreakdown
		var total float64
		for _, source := range domain.IncomeSources() {
			total += breakdown[source]
		}
		if total <= 0 {
			continue
		}

		var hhi float64
		for _, source := range domain.IncomeSources() {
			share := breakdown[source] / total
			hhi += share * share
		}

		n := float64(len(domain.IncomeSources()))
		normalized := (hhi - 1/n) / (1 - 1/n)
		return domain.Defined(clamp01(1 - normalized))
	}
	return domain.Metric{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
