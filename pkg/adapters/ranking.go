package adapters

import (
	"github.com/de-tools/ngo-atlas/pkg/models/api"
	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/de-tools/ngo-atlas/pkg/models/store"
)

func metricToPtr(m domain.Metric) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func ptrToMetric(p *float64) domain.Metric {
	if p == nil {
		return domain.Metric{}
	}
	return domain.Defined(*p)
}

func MapDomainRecordToStore(r domain.FinancialRecord) store.FinancialRecord {
	var breakdown map[string]float64
	if r.IncomeBreakdown != nil {
		breakdown = make(map[string]float64, len(r.IncomeBreakdown))
		for source, amount := range r.IncomeBreakdown {
			breakdown[string(source)] = amount
		}
	}
	return store.FinancialRecord{
		OrgID:           r.OrgID,
		Year:            r.Year,
		Turnover:        r.Turnover,
		SurplusDeficit:  r.SurplusDeficit,
		IncomeBreakdown: breakdown,
	}
}

func MapStoreRecordToDomain(r store.FinancialRecord) domain.FinancialRecord {
	var breakdown map[domain.IncomeSource]float64
	if r.IncomeBreakdown != nil {
		breakdown = make(map[domain.IncomeSource]float64, len(r.IncomeBreakdown))
		for source, amount := range r.IncomeBreakdown {
			breakdown[domain.IncomeSource(source)] = amount
		}
	}
	return domain.FinancialRecord{
		OrgID:           r.OrgID,
		Year:            r.Year,
		Turnover:        r.Turnover,
		SurplusDeficit:  r.SurplusDeficit,
		IncomeBreakdown: breakdown,
	}
}

// MapDomainResultToStoreRow flattens one ranked result into its persisted row.
// bandOrdinal is the band's position in the run's configured band sequence.
func MapDomainResultToStoreRow(runID string, bandOrdinal int, r domain.RankedResult) store.RankedRow {
	return store.RankedRow{
		RunID:              runID,
		OrgID:              r.OrgID,
		Band:               r.Band,
		BandOrdinal:        bandOrdinal,
		Rank:               r.Rank,
		Composite:          r.Composite,
		Growth:             metricToPtr(r.Metrics.Growth),
		Balance:            metricToPtr(r.Metrics.Balance),
		Stability:          metricToPtr(r.Metrics.Stability),
		GrowthScore:        metricToPtr(r.GrowthScore),
		BalanceScore:       metricToPtr(r.BalanceScore),
		StabilityScore:     metricToPtr(r.StabilityScore),
		GrowthBenchmark:    metricToPtr(r.Benchmarks.Growth),
		BalanceBenchmark:   metricToPtr(r.Benchmarks.Balance),
		StabilityBenchmark: metricToPtr(r.Benchmarks.Stability),
	}
}

func MapStoreRowToDomainResult(row store.RankedRow) domain.RankedResult {
	return domain.RankedResult{
		OrgID: row.OrgID,
		Band:  row.Band,
		Rank:  row.Rank,
		Metrics: domain.MetricSet{
			OrgID:     row.OrgID,
			Growth:    ptrToMetric(row.Growth),
			Balance:   ptrToMetric(row.Balance),
			Stability: ptrToMetric(row.Stability),
		},
		GrowthScore:    ptrToMetric(row.GrowthScore),
		BalanceScore:   ptrToMetric(row.BalanceScore),
		StabilityScore: ptrToMetric(row.StabilityScore),
		Composite:      row.Composite,
		Benchmarks: domain.Benchmarks{
			Growth:    ptrToMetric(row.GrowthBenchmark),
			Balance:   ptrToMetric(row.BalanceBenchmark),
			Stability: ptrToMetric(row.StabilityBenchmark),
		},
	}
}

func MapRankedResultDomainToApi(r domain.RankedResult) api.RankedResult {
	return api.RankedResult{
		OrgID:              r.OrgID,
		Band:               r.Band,
		Rank:               r.Rank,
		Growth:             metricToPtr(r.Metrics.Growth),
		Balance:            metricToPtr(r.Metrics.Balance),
		Stability:          metricToPtr(r.Metrics.Stability),
		GrowthScore:        metricToPtr(r.GrowthScore),
		BalanceScore:       metricToPtr(r.BalanceScore),
		StabilityScore:     metricToPtr(r.StabilityScore),
		CompositeScore:     r.Composite,
		GrowthBenchmark:    metricToPtr(r.Benchmarks.Growth),
		BalanceBenchmark:   metricToPtr(r.Benchmarks.Balance),
		StabilityBenchmark: metricToPtr(r.Benchmarks.Stability),
	}
}

func MapRankRunDomainToApi(run *domain.RankRun) api.RankRun {
	out := api.RankRun{
		ID:          run.ID,
		GeneratedAt: run.GeneratedAt,
		Results:     make([]api.RankedResult, 0, len(run.Results)),
	}
	for _, r := range run.Results {
		out.Results = append(out.Results, MapRankedResultDomainToApi(r))
	}
	for _, w := range run.Warnings {
		out.Warnings = append(out.Warnings, api.RecordWarning{OrgID: w.OrgID, Year: w.Year, Reason: w.Reason})
	}
	return out
}

func MapBandDomainToApi(b domain.TurnoverBand) api.Band {
	return api.Band{Name: b.Name, Min: b.Min, Max: b.Max}
}
