package ranking

import "github.com/de-tools/ngo-atlas/pkg/models/domain"

// Categorize assigns every profile a turnover band. Band boundaries are fixed
// configuration, never derived from the data, so membership is stable across
// runs as the organization set changes. The partition is total: an organization
// with no usable turnover lands in the first band, one beyond every bounded
// band lands in the last.
func Categorize(profiles []domain.OrganizationProfile, bands []domain.TurnoverBand) []domain.OrganizationProfile {
	out := make([]domain.OrganizationProfile, len(profiles))
	for i, p := range profiles {
		p.Band = bandFor(bandingTurnover(p.Records), bands).Name
		out[i] = p
	}
	return out
}

// bandingTurnover is the most recent reported year's turnover, 0 when no
// records exist.
func bandingTurnover(records []domain.FinancialRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].Turnover
}

func bandFor(turnover float64, bands []domain.TurnoverBand) domain.TurnoverBand {
	for _, b := range bands {
		if b.Contains(turnover) {
			return b
		}
	}
	return bands[len(bands)-1]
}
