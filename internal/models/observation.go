package models

import "strings"

type ScarcityLevel string

const (
	ScarcityLow      ScarcityLevel = "Low"
	ScarcityModerate ScarcityLevel = "Moderate"
	ScarcityHigh     ScarcityLevel = "High"
)

// ParseScarcityLevel maps text onto one of the canonical levels, ignoring case.
// Unrecognized text is returned verbatim and never equals a canonical level.
func ParseScarcityLevel(s string) ScarcityLevel {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "low":
		return ScarcityLow
	case "moderate":
		return ScarcityModerate
	case "high":
		return ScarcityHigh
	default:
		return ScarcityLevel(s)
	}
}

func (l ScarcityLevel) IsCanonical() bool {
	return l == ScarcityLow || l == ScarcityModerate || l == ScarcityHigh
}

// Observation is one country-year record. (Country, Year) is the natural key
// but is not enforced unique.
type Observation struct {
	Year                    int           `json:"year"`
	Country                 string        `json:"country"`
	CountryCode             int           `json:"country_code,omitempty"`
	ISOCode                 string        `json:"iso_code,omitempty"`
	Population              float64       `json:"population"`
	TotalConsumption        float64       `json:"total_consumption"` // billion cubic meters
	PerCapitaUse            float64       `json:"per_capita_use"`    // liters per day
	AgriculturalPct         float64       `json:"agricultural_pct"`
	IndustrialPct           float64       `json:"industrial_pct"`
	HouseholdPct            float64       `json:"household_pct"`
	AnnualPrecipitationMm   float64       `json:"annual_precipitation_mm"`
	GroundwaterDepletionPct float64       `json:"groundwater_depletion_pct"`
	ScarcityLevel           ScarcityLevel `json:"scarcity_level"`
	DamCount                int           `json:"dam_count"`
	ReservoirCapacityTMC    float64       `json:"reservoir_capacity_tmc,omitempty"`
	IndustryCount           int           `json:"industry_count"`
}

// Dataset is the loader's output, in source order.
type Dataset []Observation
