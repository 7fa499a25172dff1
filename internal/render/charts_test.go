package render

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/water-insights/internal/models"
	"github.com/mr1hm/water-insights/internal/projection"
)

func dashboardData() (models.Dataset, projection.Criteria) {
	ds := models.Dataset{
		{Year: 2019, Country: "Aland", TotalConsumption: 10, PerCapitaUse: 100, Population: 10, DamCount: 1, IndustryCount: 2},
		{Year: 2020, Country: "Aland", TotalConsumption: 11, PerCapitaUse: 110, Population: 10, DamCount: 1, IndustryCount: 2},
		{Year: 2020, Country: "Borovia", TotalConsumption: 20, PerCapitaUse: 300, Population: 20, DamCount: 2, IndustryCount: 1},
	}
	c := projection.Criteria{
		Countries: []string{"Aland", "Borovia"},
		Years:     projection.YearRange{Min: 2019, Max: 2020},
		Scarcity:  projection.ScarcityAll,
	}
	return ds, c
}

func TestDashboard_Renders(t *testing.T) {
	ds, c := dashboardData()

	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, ds, c))

	html := buf.String()
	assert.Contains(t, html, "Consumption Trends")
	assert.Contains(t, html, "Sector Distribution")
	assert.Contains(t, html, "Environmental Factors")
	assert.Contains(t, html, "Borovia")
}

func TestDashboard_EmptySelection(t *testing.T) {
	ds, c := dashboardData()
	c.Countries = nil

	var buf bytes.Buffer
	assert.NoError(t, Dashboard(&buf, ds, c))
}

func TestTrendChart_MarksMissingYears(t *testing.T) {
	ds, c := dashboardData()
	line := TrendChart(projection.Trend(ds, c), c.Countries)

	require.Len(t, line.MultiSeries, 2)
	borovia := line.MultiSeries[1]
	assert.Equal(t, "Borovia", borovia.Name)

	data, ok := borovia.Data.([]opts.LineData)
	require.True(t, ok)
	assert.Equal(t, missing, data[0].Value)
	assert.Equal(t, 20.0, data[1].Value)
}

func TestForecastChart_SharedAxis(t *testing.T) {
	v100, v110 := 100.0, 110.0
	seam := models.FuturePoint(2021, models.Predictions{Lasso: 110, KNN: 110, Ridge: 110})
	next := models.FuturePoint(2022, models.Predictions{Lasso: 115, KNN: 114, Ridge: 116})
	s := &models.ForecastSeries{
		Country:      "Testland",
		BaselineYear: 2021,
		TargetYear:   2022,
		Historical: []models.SeriesPoint{
			{Year: 2020, Consumption: &v100},
			{Year: 2021, Consumption: &v110},
		},
		Future: []models.SeriesPoint{seam, next},
	}

	line := ForecastChart(s)
	require.Len(t, line.MultiSeries, 4)

	hist := line.MultiSeries[0].Data.([]opts.LineData)
	lasso := line.MultiSeries[1].Data.([]opts.LineData)
	require.Len(t, hist, 3)
	assert.Equal(t, 110.0, hist[1].Value)
	assert.Equal(t, missing, hist[2].Value)
	assert.Equal(t, missing, lasso[0].Value)
	assert.Equal(t, 110.0, lasso[1].Value)

	var buf bytes.Buffer
	require.NoError(t, Forecast(&buf, s))
	assert.Contains(t, buf.String(), "Testland Forecast")
}
