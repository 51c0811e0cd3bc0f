package ranking

import (
	"sort"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
)

// pool is the per-band normalization pool for one metric, built from defined
// values only.
type pool struct {
	min, max, sum float64
	count         int
}

func (p *pool) add(v float64) {
	if p.count == 0 || v < p.min {
		p.min = v
	}
	if p.count == 0 || v > p.max {
		p.max = v
	}
	p.sum += v
	p.count++
}

// normalize maps a defined raw value onto [0, 1] by min-max position among
// peers. A degenerate pool (all peers equal) maps to the midpoint so output
// stays deterministic.
func (p pool) normalize(v float64) float64 {
	if p.max == p.min {
		return 0.5
	}
	return (v - p.min) / (p.max - p.min)
}

func (p pool) mean() domain.Metric {
	if p.count == 0 {
		return domain.Metric{}
	}
	return domain.Defined(p.sum / float64(p.count))
}

// ScoreAndRank benchmarks each metric within its turnover band, combines the
// normalized scores into the weighted composite, and assigns 1-based ranks per
// band. Output is ordered by band (configuration order) then rank; every input
// organization appears exactly once.
func ScoreAndRank(
	profiles []domain.OrganizationProfile,
	sets map[string]domain.MetricSet,
	cfg domain.RankingConfig,
) []domain.RankedResult {
	byBand := make(map[string][]domain.OrganizationProfile)
	for _, p := range profiles {
		byBand[p.Band] = append(byBand[p.Band], p)
	}

	results := make([]domain.RankedResult, 0, len(profiles))
	for _, band := range cfg.Bands {
		results = append(results, scoreBand(band.Name, byBand[band.Name], sets, cfg)...)
	}
	return results
}

func scoreBand(
	band string,
	members []domain.OrganizationProfile,
	sets map[string]domain.MetricSet,
	cfg domain.RankingConfig,
) []domain.RankedResult {
	if len(members) == 0 {
		return nil
	}

	var growthPool, balancePool, stabilityPool pool
	for _, m := range members {
		set := sets[m.OrgID]
		if set.Growth.Valid {
			growthPool.add(set.Growth.Value)
		}
		if set.Balance.Valid {
			balancePool.add(set.Balance.Value)
		}
		if set.Stability.Valid {
			stabilityPool.add(set.Stability.Value)
		}
	}

	benchmarks := domain.Benchmarks{
		Growth:    growthPool.mean(),
		Balance:   balancePool.mean(),
		Stability: stabilityPool.mean(),
	}

	results := make([]domain.RankedResult, 0, len(members))
	for _, m := range members {
		set := sets[m.OrgID]
		growthScore := normalizedScore(set.Growth, growthPool, cfg.UndefinedPolicy)
		balanceScore := normalizedScore(set.Balance, balancePool, cfg.UndefinedPolicy)
		stabilityScore := normalizedScore(set.Stability, stabilityPool, cfg.UndefinedPolicy)

		results = append(results, domain.RankedResult{
			OrgID:          m.OrgID,
			Band:           band,
			Metrics:        set,
			GrowthScore:    growthScore,
			BalanceScore:   balanceScore,
			StabilityScore: stabilityScore,
			Composite: composite(
				[]domain.Metric{growthScore, balanceScore, stabilityScore},
				[]float64{cfg.Weights.Growth, cfg.Weights.Balance, cfg.Weights.Stability},
			),
			Benchmarks: benchmarks,
		})
	}

	// Composite descending, organization ID ascending as the total tie-break.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Composite != results[j].Composite {
			return results[i].Composite > results[j].Composite
		}
		return results[i].OrgID < results[j].OrgID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// normalizedScore converts one raw metric into its benchmarked score.
// Undefined raw values never enter the pool; under the worst-case policy the
// organization gets score 0 for that metric, under the exclude policy the
// score stays undefined and composite drops its weight.
func normalizedScore(raw domain.Metric, p pool, policy domain.UndefinedMetricPolicy) domain.Metric {
	if !raw.Valid {
		if policy == domain.PolicyWorstCase {
			return domain.Defined(0)
		}
		return domain.Metric{}
	}
	return domain.Defined(p.normalize(raw.Value))
}

// composite is the weighted sum over defined scores. Under the exclude policy
// the remaining weights are renormalized; an organization with every score
// undefined gets 0 rather than being dropped.
func composite(scores []domain.Metric, weights []float64) float64 {
	var sum, weightSum float64
	for i, s := range scores {
		if !s.Valid {
			continue
		}
		sum += weights[i] * s.Value
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}
