package projection

import (
	"encoding/json"

	"gonum.org/v1/gonum/floats"

	"github.com/mr1hm/water-insights/internal/models"
)

const (
	precipitationScale = 3000
	groundwaterScale   = 100
)

// RadarPoint is one metric axis with a normalized 0..100 value per country.
// It encodes as {"metric": "Dams", "Chile": 40, ...}; see IsReservedKey.
type RadarPoint struct {
	Metric string
	Values map[string]float64
}

func (p RadarPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Values)+1)
	for country, v := range p.Values {
		flat[country] = v
	}
	flat[MetricKey] = p.Metric
	return json.Marshal(flat)
}

type radarMetric struct {
	name  string
	value func(o models.Observation) float64
	// scale is a fixed denominator; zero means use the in-filter maximum.
	scale float64
}

var radarMetrics = []radarMetric{
	{name: "Population", value: func(o models.Observation) float64 { return o.Population }},
	{name: "Rainfall", value: func(o models.Observation) float64 { return o.AnnualPrecipitationMm }, scale: precipitationScale},
	{name: "GW Depletion", value: func(o models.Observation) float64 { return o.GroundwaterDepletionPct }, scale: groundwaterScale},
	{name: "Dams", value: func(o models.Observation) float64 { return float64(o.DamCount) }},
	{name: "Industries", value: func(o models.Observation) float64 { return float64(o.IndustryCount) }},
}

// RadarMetrics lists the metric names in output order.
func RadarMetrics() []string {
	names := make([]string, len(radarMetrics))
	for i, m := range radarMetrics {
		names[i] = m.name
	}
	return names
}

// Radar normalizes five metrics at the max year against the maximum across
// the filtered countries, or against a fixed scale for precipitation and
// groundwater depletion.
func Radar(ds models.Dataset, c Criteria) []RadarPoint {
	rows := latest(ds, c)
	if len(rows) == 0 {
		return []RadarPoint{}
	}

	points := make([]RadarPoint, 0, len(radarMetrics))
	values := make([]float64, len(rows))
	for _, m := range radarMetrics {
		for i, o := range rows {
			values[i] = m.value(o)
		}
		denom := m.scale
		if denom == 0 {
			denom = floats.Max(values)
		}

		p := RadarPoint{Metric: m.name, Values: make(map[string]float64, len(rows))}
		for i, o := range rows {
			p.Values[o.Country] = normalize(values[i], denom)
		}
		points = append(points, p)
	}
	return points
}

func normalize(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	return v / max * 100
}
