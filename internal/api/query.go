package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/water-insights/internal/dataset"
	"github.com/mr1hm/water-insights/internal/ingestion"
	"github.com/mr1hm/water-insights/internal/models"
	"github.com/mr1hm/water-insights/internal/projection"
)

const defaultSelection = 3

// parseCriteria builds projection criteria from query parameters. Missing or
// unparsable values fall back to defaults drawn from the snapshot.
//
//	countries=Chile,Peru  (or repeated)  default: first three countries
//	from=1990&to=2024                    default: dataset year bounds
//	scarcity=Low|Moderate|High|all       default: all
//
// Country names that collide with the flat chart keys are rejected.
func parseCriteria(c *gin.Context, snap *ingestion.Snapshot) (projection.Criteria, error) {
	var countries []string
	for _, raw := range c.QueryArray("countries") {
		for _, country := range strings.Split(raw, ",") {
			country = strings.TrimSpace(country)
			if country == "" {
				continue
			}
			if projection.IsReservedKey(country) {
				return projection.Criteria{}, fmt.Errorf("country name %q is reserved", country)
			}
			countries = append(countries, country)
		}
	}
	if len(countries) == 0 {
		countries = defaultCountries(snap.Countries)
	}

	minYear, maxYear, _ := dataset.YearBounds(snap.Dataset)
	years := projection.YearRange{
		Min: queryInt(c, "from", minYear),
		Max: queryInt(c, "to", maxYear),
	}

	scarcity := c.DefaultQuery("scarcity", projection.ScarcityAll)
	if !strings.EqualFold(scarcity, projection.ScarcityAll) {
		scarcity = string(models.ParseScarcityLevel(scarcity))
	}

	return projection.Criteria{
		Countries: countries,
		Years:     years,
		Scarcity:  scarcity,
	}, nil
}

func defaultCountries(all []string) []string {
	out := make([]string, 0, defaultSelection)
	for _, country := range all {
		if len(out) == defaultSelection {
			break
		}
		if !projection.IsReservedKey(country) {
			out = append(out, country)
		}
	}
	return out
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
