package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
)

var csvHeader = []string{
	"org_id", "band", "rank",
	"growth", "balance", "stability",
	"growth_score", "balance_score", "stability_score",
	"composite_score",
	"growth_benchmark", "balance_benchmark", "stability_benchmark",
}

// WriteCSV writes the ranked table in the layout the spreadsheet publisher
// consumes. Rows keep the run's band-then-rank order; undefined metrics become
// empty cells rather than zeros.
func WriteCSV(w io.Writer, results []domain.RankedResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.OrgID,
			r.Band,
			strconv.Itoa(r.Rank),
			csvMetric(r.Metrics.Growth),
			csvMetric(r.Metrics.Balance),
			csvMetric(r.Metrics.Stability),
			csvMetric(r.GrowthScore),
			csvMetric(r.BalanceScore),
			csvMetric(r.StabilityScore),
			strconv.FormatFloat(r.Composite, 'f', -1, 64),
			csvMetric(r.Benchmarks.Growth),
			csvMetric(r.Benchmarks.Balance),
			csvMetric(r.Benchmarks.Stability),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.OrgID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvMetric(m domain.Metric) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}
