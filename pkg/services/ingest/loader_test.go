package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRecordsFile(t *testing.T) {
	t.Run("parses complete records", func(t *testing.T) {
		path := writeRecords(t, `[
			{"org_id": "580000001", "year": 2022, "turnover": 150000,
			 "surplus_deficit": -2500,
			 "income_breakdown": {"donations": 100000, "government": 50000}}
		]`)

		records, warnings, err := ReadRecordsFile(path)

		require.NoError(t, err)
		require.Empty(t, warnings)
		require.Len(t, records, 1)
		r := records[0]
		assert.Equal(t, "580000001", r.OrgID)
		assert.Equal(t, 2022, r.Year)
		assert.Equal(t, float64(150_000), r.Turnover)
		assert.Equal(t, float64(-2500), r.SurplusDeficit)
		assert.Equal(t, float64(100_000), r.IncomeBreakdown[domain.IncomeDonations])
	})

	t.Run("missing turnover is rejected with a warning, not zeroed", func(t *testing.T) {
		path := writeRecords(t, `[
			{"org_id": "580000001", "year": 2022, "surplus_deficit": 10},
			{"org_id": "580000002", "year": 2022, "turnover": 5000, "surplus_deficit": 10}
		]`)

		records, warnings, err := ReadRecordsFile(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "580000002", records[0].OrgID)
		require.Len(t, warnings, 1)
		assert.Equal(t, "580000001", warnings[0].OrgID)
		assert.Equal(t, "missing turnover", warnings[0].Reason)
	})

	t.Run("absent breakdown stays absent", func(t *testing.T) {
		path := writeRecords(t, `[
			{"org_id": "580000001", "year": 2022, "turnover": 100, "surplus_deficit": 0}
		]`)

		records, _, err := ReadRecordsFile(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].IncomeBreakdown)
	})

	t.Run("unknown income sources fold into other", func(t *testing.T) {
		path := writeRecords(t, `[
			{"org_id": "580000001", "year": 2022, "turnover": 100, "surplus_deficit": 0,
			 "income_breakdown": {"membership_fees": 30, "other": 20}}
		]`)

		records, _, err := ReadRecordsFile(path)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, float64(50), records[0].IncomeBreakdown[domain.IncomeOther])
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		_, _, err := ReadRecordsFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		path := writeRecords(t, `{"not": "an array"`)

		_, _, err := ReadRecordsFile(path)

		require.Error(t, err)
	})
}
