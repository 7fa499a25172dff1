package forecast

import "github.com/mr1hm/water-insights/internal/models"

// GrowthRate is the percentage change from baseline to predicted. ok is false
// when baseline is zero and the rate is undefined.
func GrowthRate(baseline, predicted float64) (rate float64, ok bool) {
	if baseline == 0 {
		return 0, false
	}
	return (predicted - baseline) / baseline * 100, true
}

// Growth computes per-model growth rates, or nil when undefined.
func Growth(baseline float64, p models.Predictions) *models.GrowthRates {
	if baseline == 0 {
		return nil
	}
	lasso, _ := GrowthRate(baseline, p.Lasso)
	knn, _ := GrowthRate(baseline, p.KNN)
	ridge, _ := GrowthRate(baseline, p.Ridge)
	return &models.GrowthRates{Lasso: lasso, KNN: knn, Ridge: ridge}
}
