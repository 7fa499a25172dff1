package models

import "time"

// PredictionRecord is a persisted summary of one completed forecast.
type PredictionRecord struct {
	ID            string       `json:"id"`
	Country       string       `json:"country"`
	BaselineYear  int          `json:"baseline_year"`
	TargetYear    int          `json:"target_year"`
	BaselineValue float64      `json:"baseline_value"`
	Predicted     Predictions  `json:"predicted"`
	Growth        *GrowthRates `json:"growth"`
	CreatedAt     time.Time    `json:"created_at"`
}
