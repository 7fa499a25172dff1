package models

// Predictions holds one value per forecasting model.
type Predictions struct {
	Lasso float64 `json:"lasso"`
	KNN   float64 `json:"knn"`
	Ridge float64 `json:"ridge"`
}

// SeriesPoint is shared by the historical and future arms so every entry of a
// ForecastSeries carries the same fields. Absent values encode as null.
type SeriesPoint struct {
	Year        int      `json:"year"`
	Consumption *float64 `json:"consumption"`
	Lasso       *float64 `json:"lasso"`
	KNN         *float64 `json:"knn"`
	Ridge       *float64 `json:"ridge"`
}

func HistoricalPoint(year int, consumption float64) SeriesPoint {
	return SeriesPoint{Year: year, Consumption: &consumption}
}

func FuturePoint(year int, p Predictions) SeriesPoint {
	lasso, knn, ridge := p.Lasso, p.KNN, p.Ridge
	return SeriesPoint{Year: year, Lasso: &lasso, KNN: &knn, Ridge: &ridge}
}

// GrowthRates are percentage changes from the baseline per model.
type GrowthRates struct {
	Lasso float64 `json:"lasso"`
	KNN   float64 `json:"knn"`
	Ridge float64 `json:"ridge"`
}

type ForecastSeries struct {
	Country       string        `json:"country"`
	TargetYear    int           `json:"target_year"`
	BaselineYear  int           `json:"baseline_year"`
	BaselineValue float64       `json:"baseline_value"`
	Historical    []SeriesPoint `json:"historical"`
	Future        []SeriesPoint `json:"future"`
	Predicted     Predictions   `json:"predicted"`
	// Growth is nil when the baseline is zero and growth is undefined.
	Growth *GrowthRates `json:"growth"`
}

// Horizon is the number of predicted years after the baseline. Zero means no
// forecast was requested.
func (s *ForecastSeries) Horizon() int {
	if len(s.Future) == 0 {
		return 0
	}
	return len(s.Future) - 1
}
