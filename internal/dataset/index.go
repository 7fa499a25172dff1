package dataset

import (
	"slices"
	"sort"

	"github.com/mr1hm/water-insights/internal/models"
)

// DistinctCountries returns every country in ds exactly once, sorted.
func DistinctCountries(ds models.Dataset) []string {
	seen := make(map[string]struct{}, 64)
	countries := make([]string, 0, 64)
	for _, o := range ds {
		if _, ok := seen[o.Country]; ok {
			continue
		}
		seen[o.Country] = struct{}{}
		countries = append(countries, o.Country)
	}
	sort.Strings(countries)
	return countries
}

// SliceByCountry returns the observations for country in ascending year
// order. Rows sharing a year keep their source order.
func SliceByCountry(ds models.Dataset, country string) []models.Observation {
	var rows []models.Observation
	for _, o := range ds {
		if o.Country == country {
			rows = append(rows, o)
		}
	}
	slices.SortStableFunc(rows, func(a, b models.Observation) int {
		return a.Year - b.Year
	})
	return rows
}

// YearBounds returns the smallest and largest year in ds. ok is false for an
// empty dataset.
func YearBounds(ds models.Dataset) (min, max int, ok bool) {
	if len(ds) == 0 {
		return 0, 0, false
	}
	min, max = ds[0].Year, ds[0].Year
	for _, o := range ds[1:] {
		if o.Year < min {
			min = o.Year
		}
		if o.Year > max {
			max = o.Year
		}
	}
	return min, max, true
}
