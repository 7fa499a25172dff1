package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mr1hm/water-insights/internal/models"
	"github.com/mr1hm/water-insights/internal/projection"
)

// missing is echarts' marker for an absent data point.
const missing = "-"

func baseOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	}
}

// TrendChart draws one line per country across the years of points.
func TrendChart(points []projection.TrendPoint, countries []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(baseOpts("Consumption Trends", "billion cubic meters")...)

	years := make([]string, len(points))
	for i, p := range points {
		years[i] = strconv.Itoa(p.Year)
	}
	line.SetXAxis(years)

	for _, country := range countries {
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			if v, ok := p.Values[country]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: missing}
			}
		}
		line.AddSeries(country, data)
	}
	return line
}

// LatestChart compares consumption and per-capita use at the latest year.
func LatestChart(rows []projection.LatestRow, year int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOpts("Latest Year Comparison", strconv.Itoa(year))...)

	x := make([]string, len(rows))
	consumption := make([]opts.BarData, len(rows))
	perCapita := make([]opts.BarData, len(rows))
	for i, r := range rows {
		x[i] = r.Country
		consumption[i] = opts.BarData{Value: r.Consumption}
		perCapita[i] = opts.BarData{Value: r.PerCapita}
	}

	bar.SetXAxis(x).
		AddSeries("Consumption (BCM)", consumption).
		AddSeries("Per Capita (L/day)", perCapita)
	return bar
}

// SectorChart stacks the three sector shares per country.
func SectorChart(rows []projection.SectorRow, year int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOpts("Sector Distribution", strconv.Itoa(year))...)

	x := make([]string, len(rows))
	agri := make([]opts.BarData, len(rows))
	ind := make([]opts.BarData, len(rows))
	house := make([]opts.BarData, len(rows))
	for i, r := range rows {
		x[i] = r.Country
		agri[i] = opts.BarData{Value: r.Agricultural}
		ind[i] = opts.BarData{Value: r.Industrial}
		house[i] = opts.BarData{Value: r.Household}
	}

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "sector"})
	bar.SetXAxis(x).
		AddSeries("Agricultural %", agri, stack).
		AddSeries("Industrial %", ind, stack).
		AddSeries("Household %", house, stack)
	return bar
}

// RadarChart draws one polygon per country over the normalized metrics.
func RadarChart(points []projection.RadarPoint, countries []string) *charts.Radar {
	radar := charts.NewRadar()

	indicators := make([]*opts.Indicator, len(points))
	for i, p := range points {
		indicators[i] = &opts.Indicator{Name: p.Metric, Max: 100}
	}
	radar.SetGlobalOptions(append(baseOpts("Environmental Factors", "normalized 0-100"),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators, Shape: "polygon"}),
	)...)

	for _, country := range countries {
		values := make([]float64, len(points))
		present := false
		for i, p := range points {
			if v, ok := p.Values[country]; ok {
				values[i] = v
				present = true
			}
		}
		if !present {
			continue
		}
		radar.AddSeries(country, []opts.RadarData{{Name: country, Value: values}})
	}
	return radar
}

// ForecastChart draws the observed history and the three model arms on a
// shared year axis. The model arms start at the baseline year.
func ForecastChart(s *models.ForecastSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(baseOpts(
		fmt.Sprintf("%s Forecast", s.Country),
		fmt.Sprintf("baseline %d, target %d", s.BaselineYear, s.TargetYear),
	)...)

	byYear := make(map[int]models.SeriesPoint)
	for _, p := range append(append([]models.SeriesPoint{}, s.Historical...), s.Future...) {
		merged := byYear[p.Year]
		merged.Year = p.Year
		if p.Consumption != nil {
			merged.Consumption = p.Consumption
		}
		if p.Lasso != nil {
			merged.Lasso, merged.KNN, merged.Ridge = p.Lasso, p.KNN, p.Ridge
		}
		byYear[p.Year] = merged
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	x := make([]string, len(years))
	series := map[string][]opts.LineData{}
	order := []string{"Historical", "LASSO", "KNN", "Ridge"}
	for i, y := range years {
		x[i] = strconv.Itoa(y)
		p := byYear[y]
		series["Historical"] = append(series["Historical"], lineValue(p.Consumption))
		series["LASSO"] = append(series["LASSO"], lineValue(p.Lasso))
		series["KNN"] = append(series["KNN"], lineValue(p.KNN))
		series["Ridge"] = append(series["Ridge"], lineValue(p.Ridge))
	}

	line.SetXAxis(x)
	for _, name := range order {
		line.AddSeries(name, series[name])
	}
	return line
}

func lineValue(v *float64) opts.LineData {
	if v == nil {
		return opts.LineData{Value: missing}
	}
	return opts.LineData{Value: *v}
}

// Dashboard writes an HTML page with every dashboard projection for c.
func Dashboard(w io.Writer, ds models.Dataset, c projection.Criteria) error {
	page := components.NewPage()
	page.AddCharts(
		TrendChart(projection.Trend(ds, c), c.Countries),
		LatestChart(projection.LatestYear(ds, c), c.Years.Max),
		SectorChart(projection.SectorShares(ds, c), c.Years.Max),
		RadarChart(projection.Radar(ds, c), c.Countries),
	)
	return page.Render(w)
}

// Forecast writes an HTML page with the forecast chart for s.
func Forecast(w io.Writer, s *models.ForecastSeries) error {
	page := components.NewPage()
	page.AddCharts(ForecastChart(s))
	return page.Render(w)
}
