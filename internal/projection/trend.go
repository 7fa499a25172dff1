package projection

import (
	"encoding/json"
	"sort"

	"github.com/mr1hm/water-insights/internal/models"
)

// Keys shared with country names in the flat TrendPoint and RadarPoint
// encodings. A country carrying one of these names would be overwritten.
const (
	YearKey   = "year"
	MetricKey = "metric"
)

// IsReservedKey reports whether a country name collides with a flat encoding key.
func IsReservedKey(country string) bool {
	return country == YearKey || country == MetricKey
}

// TrendPoint holds total consumption per country for one year. It encodes as
// a flat object: {"year": 2020, "Chile": 12.3, ...}. Countries named by
// IsReservedKey lose to the year key.
type TrendPoint struct {
	Year   int
	Values map[string]float64
}

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Values)+1)
	for country, v := range p.Values {
		flat[country] = v
	}
	flat[YearKey] = p.Year
	return json.Marshal(flat)
}

// Trend groups filtered observations by year. Years without any matching
// observation are omitted. A later duplicate (country, year) row overwrites
// an earlier one.
func Trend(ds models.Dataset, c Criteria) []TrendPoint {
	byYear := make(map[int]map[string]float64)
	for _, o := range Filter(ds, c) {
		values, ok := byYear[o.Year]
		if !ok {
			values = make(map[string]float64)
			byYear[o.Year] = values
		}
		values[o.Country] = o.TotalConsumption
	}

	points := make([]TrendPoint, 0, len(byYear))
	for year, values := range byYear {
		points = append(points, TrendPoint{Year: year, Values: values})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}
