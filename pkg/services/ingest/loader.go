package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
)

// fileRecord is the scraped-record wire shape. Turnover and surplus are
// pointers so an absent field is visible as absent instead of arriving as a
// zero; the engine must never see a coerced value.
type fileRecord struct {
	OrgID           string             `json:"org_id"`
	Year            int                `json:"year"`
	Turnover        *float64           `json:"turnover"`
	SurplusDeficit  *float64           `json:"surplus_deficit"`
	IncomeBreakdown map[string]float64 `json:"income_breakdown"`
}

// ReadRecordsFile loads a scraped financial-records JSON file. Structurally
// incomplete entries (missing identifier, year, turnover or surplus) are
// rejected individually and reported as warnings; the rest of the file is
// kept. Income sources outside the enumerated set are folded into "other",
// matching how the source registry groups residual income.
func ReadRecordsFile(path string) ([]domain.FinancialRecord, []domain.RecordWarning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
	}

	var records []domain.FinancialRecord
	var warnings []domain.RecordWarning
	for _, r := range raw {
		if reason := incomplete(r); reason != "" {
			warnings = append(warnings, domain.RecordWarning{OrgID: r.OrgID, Year: r.Year, Reason: reason})
			continue
		}
		records = append(records, domain.FinancialRecord{
			OrgID:           r.OrgID,
			Year:            r.Year,
			Turnover:        *r.Turnover,
			SurplusDeficit:  *r.SurplusDeficit,
			IncomeBreakdown: mapBreakdown(r.IncomeBreakdown),
		})
	}
	return records, warnings, nil
}

func incomplete(r fileRecord) string {
	switch {
	case r.OrgID == "":
		return "missing org_id"
	case r.Year <= 0:
		return "missing year"
	case r.Turnover == nil:
		return "missing turnover"
	case r.SurplusDeficit == nil:
		return "missing surplus_deficit"
	default:
		return ""
	}
}

func mapBreakdown(raw map[string]float64) map[domain.IncomeSource]float64 {
	if raw == nil {
		return nil
	}

	known := map[string]domain.IncomeSource{}
	for _, s := range domain.IncomeSources() {
		known[string(s)] = s
	}

	breakdown := make(map[domain.IncomeSource]float64, len(raw))
	for label, amount := range raw {
		source, ok := known[label]
		if !ok {
			source = domain.IncomeOther
		}
		breakdown[source] += amount
	}
	return breakdown
}
