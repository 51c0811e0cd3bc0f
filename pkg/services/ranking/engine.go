package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

// Engine runs the three ranking stages as one synchronous batch:
// metrics per organization, turnover banding, then per-band scoring and
// ranking. It holds validated configuration and nothing else; every run is a
// pure function of its input records plus that configuration.
type Engine struct {
	cfg domain.RankingConfig
}

// NewEngine validates the configuration up front. A ConfigurationError here is
// fatal by contract: no batch may start with broken weights or bands.
func NewEngine(cfg domain.RankingConfig) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() domain.RankingConfig {
	return e.cfg
}

// Run ranks one batch of financial records. Malformed records are rejected
// individually and reported as warnings; they never abort the batch. The
// output covers every organization that contributed at least one valid record,
// ordered by band then rank.
func (e *Engine) Run(ctx context.Context, records []domain.FinancialRecord) (*domain.RankRun, error) {
	logger := zerolog.Ctx(ctx)

	clean, warnings := ValidateRecords(records)
	if len(warnings) > 0 {
		for _, w := range warnings {
			logger.Warn().
				Str("org_id", w.OrgID).
				Int("year", w.Year).
				Str("reason", w.Reason).
				Msg("rejected financial record")
		}
	}

	profiles := BuildProfiles(clean)
	sets := make(map[string]domain.MetricSet, len(profiles))
	for _, p := range profiles {
		sets[p.OrgID] = ComputeMetrics(p)
	}

	profiles = Categorize(profiles, e.cfg.Bands)
	results := ScoreAndRank(profiles, sets, e.cfg)

	logger.Info().
		Int("organizations", len(profiles)).
		Int("rejected_records", len(warnings)).
		Msg("ranking batch complete")

	return &domain.RankRun{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Results:     results,
		Warnings:    warnings,
	}, nil
}

// ValidateRecords applies the structural invariants: non-negative turnover and
// at most one record per organization per year. The first record seen for a
// given organization and year wins; later duplicates are rejected.
func ValidateRecords(records []domain.FinancialRecord) ([]domain.FinancialRecord, []domain.RecordWarning) {
	type orgYear struct {
		org  string
		year int
	}

	seen := make(map[orgYear]struct{}, len(records))
	clean := make([]domain.FinancialRecord, 0, len(records))
	var warnings []domain.RecordWarning

	for _, r := range records {
		if r.Turnover < 0 {
			warnings = append(warnings, domain.RecordWarning{
				OrgID:  r.OrgID,
				Year:   r.Year,
				Reason: fmt.Sprintf("negative turnover %v", r.Turnover),
			})
			continue
		}
		key := orgYear{org: r.OrgID, year: r.Year}
		if _, dup := seen[key]; dup {
			warnings = append(warnings, domain.RecordWarning{
				OrgID:  r.OrgID,
				Year:   r.Year,
				Reason: "duplicate record for year",
			})
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, r)
	}
	return clean, warnings
}

// BuildProfiles groups records by organization and orders each history by year
// ascending. Organizations come out sorted by ID so every later stage walks
// them in the same order on every run.
func BuildProfiles(records []domain.FinancialRecord) []domain.OrganizationProfile {
	grouped := make(map[string][]domain.FinancialRecord)
	for _, r := range records {
		grouped[r.OrgID] = append(grouped[r.OrgID], r)
	}

	ids := maps.Keys(grouped)
	sort.Strings(ids)

	profiles := make([]domain.OrganizationProfile, 0, len(ids))
	for _, id := range ids {
		history := grouped[id]
		sort.Slice(history, func(i, j int) bool {
			return history[i].Year < history[j].Year
		})
		profiles = append(profiles, domain.OrganizationProfile{OrgID: id, Records: history})
	}
	return profiles
}
