package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	results := []domain.RankedResult{
		{
			OrgID: "org-a",
			Band:  "under-500k",
			Rank:  1,
			Metrics: domain.MetricSet{
				OrgID:     "org-a",
				Growth:    domain.Defined(0.5),
				Balance:   domain.Defined(0.1),
				Stability: domain.Defined(0.75),
			},
			GrowthScore:    domain.Defined(1),
			BalanceScore:   domain.Defined(1),
			StabilityScore: domain.Defined(1),
			Composite:      1,
		},
		{
			OrgID:   "org-b",
			Band:    "under-500k",
			Rank:    2,
			Metrics: domain.MetricSet{OrgID: "org-b"}, // everything undefined
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "org_id", rows[0][0])
	assert.Equal(t, []string{"org-a", "under-500k", "1"}, rows[1][:3])
	assert.Equal(t, "0.5", rows[1][3])

	// Undefined metrics are empty cells, never zeros.
	assert.Equal(t, "org-b", rows[2][0])
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "0", rows[2][9]) // composite is always defined
}

func TestWriteCSV_IsByteIdenticalAcrossRuns(t *testing.T) {
	results := []domain.RankedResult{
		{OrgID: "org-a", Band: "under-500k", Rank: 1, Composite: 0.5},
		{OrgID: "org-b", Band: "under-500k", Rank: 2, Composite: 0.25},
	}

	var first, second bytes.Buffer
	require.NoError(t, WriteCSV(&first, results))
	require.NoError(t, WriteCSV(&second, results))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestReporter_Handle(t *testing.T) {
	run := &domain.RankRun{
		ID: "run-1",
		Results: []domain.RankedResult{
			{OrgID: "org-a", Band: "under-500k", Rank: 1, Composite: 0.9,
				GrowthScore: domain.Defined(1), BalanceScore: domain.Defined(0.8), StabilityScore: domain.Defined(0.5)},
			{OrgID: "org-b", Band: "1m-3m", Rank: 1, Composite: 0.4},
		},
		Warnings: []domain.RecordWarning{
			{OrgID: "org-x", Year: 2022, Reason: "negative turnover -5"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(run))

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "=== under-500k ===")
	assert.Contains(t, out, "=== 1m-3m ===")
	assert.Contains(t, out, "org-a")
	assert.Contains(t, out, "n/a") // org-b scores are undefined
	assert.Contains(t, out, "rejected record org-x/2022")
}
