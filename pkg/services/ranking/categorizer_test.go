package ranking

import (
	"testing"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	bands := DefaultConfig().Bands

	t.Run("partition is total and disjoint", func(t *testing.T) {
		profiles := []domain.OrganizationProfile{
			profile("org-a", record("org-a", 2022, 120_000, 0)),
			profile("org-b", record("org-b", 2022, 500_000, 0)),
			profile("org-c", record("org-c", 2022, 75_000_000, 0)),
			profile("org-d"), // no records at all
		}

		categorized := Categorize(profiles, bands)

		require.Len(t, categorized, len(profiles))
		byOrg := map[string]string{}
		for _, p := range categorized {
			byOrg[p.OrgID] = p.Band
		}
		assert.Equal(t, "under-500k", byOrg["org-a"])
		assert.Equal(t, "500k-1m", byOrg["org-b"]) // lower bound is inclusive
		assert.Equal(t, "over-50m", byOrg["org-c"])
		assert.Equal(t, "under-500k", byOrg["org-d"])
	})

	t.Run("band comes from the most recent year", func(t *testing.T) {
		p := profile("org-a",
			record("org-a", 2021, 60_000_000, 0),
			record("org-a", 2022, 400_000, 0),
		)

		categorized := Categorize([]domain.OrganizationProfile{p}, bands)

		assert.Equal(t, "under-500k", categorized[0].Band)
	})

	t.Run("zero turnover lands in the smallest band", func(t *testing.T) {
		p := profile("org-a", record("org-a", 2022, 0, 0))

		categorized := Categorize([]domain.OrganizationProfile{p}, bands)

		assert.Equal(t, "under-500k", categorized[0].Band)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		profiles := []domain.OrganizationProfile{
			profile("org-a", record("org-a", 2022, 100, 0)),
		}

		_ = Categorize(profiles, bands)

		assert.Empty(t, profiles[0].Band)
	})
}
