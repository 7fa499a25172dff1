package projection

import (
	"strings"

	"github.com/mr1hm/water-insights/internal/models"
)

// ScarcityAll disables the scarcity predicate.
const ScarcityAll = "all"

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Criteria selects the observations a projection works on. It is a value:
// build a new one for every query.
type Criteria struct {
	Countries []string  `json:"countries"`
	Years     YearRange `json:"years"`
	Scarcity  string    `json:"scarcity"`
}

// SelectedCount is the number of distinct selected countries.
func (c Criteria) SelectedCount() int {
	return len(c.countrySet())
}

func (c Criteria) countrySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Countries))
	for _, country := range c.Countries {
		set[country] = struct{}{}
	}
	return set
}

type predicate func(o models.Observation) bool

func (c Criteria) predicate() predicate {
	countries := c.countrySet()
	scarcity := strings.TrimSpace(c.Scarcity)
	anyScarcity := scarcity == "" || strings.EqualFold(scarcity, ScarcityAll)

	return func(o models.Observation) bool {
		if _, ok := countries[o.Country]; !ok {
			return false
		}
		if o.Year < c.Years.Min || o.Year > c.Years.Max {
			return false
		}
		return anyScarcity || string(o.ScarcityLevel) == scarcity
	}
}

// Filter returns the observations of ds that satisfy c, in source order.
func Filter(ds models.Dataset, c Criteria) []models.Observation {
	match := c.predicate()
	var out []models.Observation
	for _, o := range ds {
		if match(o) {
			out = append(out, o)
		}
	}
	return out
}

// latest returns the filtered observations at the upper bound of the year range.
func latest(ds models.Dataset, c Criteria) []models.Observation {
	var out []models.Observation
	for _, o := range Filter(ds, c) {
		if o.Year == c.Years.Max {
			out = append(out, o)
		}
	}
	return out
}
