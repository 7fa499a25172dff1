package projection

import (
	"gonum.org/v1/gonum/floats"

	"github.com/mr1hm/water-insights/internal/models"
)

type SummaryStats struct {
	TotalConsumption  float64 `json:"totalConsumption"`
	AveragePerCapita  float64 `json:"averagePerCapita"`
	HighScarcityCount int     `json:"highScarcityCount"`
	SelectedCount     int     `json:"selectedCount"`
	// MatchedCount is the number of rows at the max year the figures are based on.
	MatchedCount int `json:"matchedCount"`
}

// Summary aggregates the rows at the max year. ok is false when no row
// matches, which callers must render as "no data" rather than zeros.
//
// The per-capita average divides by the matched row count, so a selected
// country without data at the max year does not drag the average down.
func Summary(ds models.Dataset, c Criteria) (SummaryStats, bool) {
	rows := latest(ds, c)
	if len(rows) == 0 {
		return SummaryStats{}, false
	}

	consumption := make([]float64, len(rows))
	perCapita := make([]float64, len(rows))
	high := 0
	for i, o := range rows {
		consumption[i] = o.TotalConsumption
		perCapita[i] = o.PerCapitaUse
		if o.ScarcityLevel == models.ScarcityHigh {
			high++
		}
	}

	return SummaryStats{
		TotalConsumption:  floats.Sum(consumption),
		AveragePerCapita:  floats.Sum(perCapita) / float64(len(rows)),
		HighScarcityCount: high,
		SelectedCount:     c.SelectedCount(),
		MatchedCount:      len(rows),
	}, true
}
