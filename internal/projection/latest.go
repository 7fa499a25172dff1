package projection

import "github.com/mr1hm/water-insights/internal/models"

type LatestRow struct {
	Country     string  `json:"country"`
	Consumption float64 `json:"consumption"`
	PerCapita   float64 `json:"perCapita"`
}

type SectorRow struct {
	Country      string  `json:"country"`
	Agricultural float64 `json:"agricultural"`
	Industrial   float64 `json:"industrial"`
	Household    float64 `json:"household"`
}

// LatestYear emits one row per matching observation at the range's max year.
// Countries with no row at exactly that year are absent.
func LatestYear(ds models.Dataset, c Criteria) []LatestRow {
	rows := latest(ds, c)
	out := make([]LatestRow, 0, len(rows))
	for _, o := range rows {
		out = append(out, LatestRow{
			Country:     o.Country,
			Consumption: o.TotalConsumption,
			PerCapita:   o.PerCapitaUse,
		})
	}
	return out
}

// SectorShares reports the three sector percentages verbatim; they are not
// re-normalized.
func SectorShares(ds models.Dataset, c Criteria) []SectorRow {
	rows := latest(ds, c)
	out := make([]SectorRow, 0, len(rows))
	for _, o := range rows {
		out = append(out, SectorRow{
			Country:      o.Country,
			Agricultural: o.AgriculturalPct,
			Industrial:   o.IndustrialPct,
			Household:    o.HouseholdPct,
		})
	}
	return out
}
