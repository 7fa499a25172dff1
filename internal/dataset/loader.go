package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mr1hm/water-insights/internal/models"
)

// Column names fixed by the upstream data provider.
const (
	ColYear          = "Year"
	ColCountry       = "Country"
	ColCountryCode   = "Country code"
	ColPopulation    = "Population"
	ColTotal         = "Total Water Consumption(Billion Cubic Meters)"
	ColPerCapita     = "Per Capita Water Use (Liters per Day)"
	ColAgricultural  = "Agricultural Water Use (%)"
	ColIndustrial    = "Industrial Water Use (%)"
	ColHousehold     = "Household Water Use (%)"
	ColPrecipitation = "Rainfall Impact (Annual Precipitation in mm)"
	ColGroundwater   = "Groundwater Depletion Rate (%)"
	ColScarcity      = "Water Scarcity Level"
	ColDams          = "Number of dams"
	ColReservoir     = "Reservoir_Capacity_TMC"
	ColIndustries    = "Number_of_Industries"
	ColISOCode       = "ISO_Code"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindFloat
	kindInt
)

type field struct {
	column   string
	kind     fieldKind
	required bool
	assign   func(o *models.Observation, text string, num float64)
}

var schema = []field{
	{ColYear, kindInt, true, func(o *models.Observation, _ string, n float64) { o.Year = int(n) }},
	{ColCountry, kindText, true, func(o *models.Observation, s string, _ float64) { o.Country = s }},
	{ColCountryCode, kindInt, false, func(o *models.Observation, _ string, n float64) { o.CountryCode = int(n) }},
	{ColPopulation, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.Population = n }},
	{ColTotal, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.TotalConsumption = n }},
	{ColPerCapita, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.PerCapitaUse = n }},
	{ColAgricultural, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.AgriculturalPct = n }},
	{ColIndustrial, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.IndustrialPct = n }},
	{ColHousehold, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.HouseholdPct = n }},
	{ColPrecipitation, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.AnnualPrecipitationMm = n }},
	{ColGroundwater, kindFloat, true, func(o *models.Observation, _ string, n float64) { o.GroundwaterDepletionPct = n }},
	{ColScarcity, kindText, true, func(o *models.Observation, s string, _ float64) { o.ScarcityLevel = models.ParseScarcityLevel(s) }},
	{ColDams, kindInt, true, func(o *models.Observation, _ string, n float64) { o.DamCount = int(n) }},
	{ColReservoir, kindFloat, false, func(o *models.Observation, _ string, n float64) { o.ReservoirCapacityTMC = n }},
	{ColIndustries, kindInt, true, func(o *models.Observation, _ string, n float64) { o.IndustryCount = int(n) }},
	{ColISOCode, kindText, false, func(o *models.Observation, s string, _ float64) { o.ISOCode = s }},
}

type binding struct {
	field
	index int
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) (models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a header-bearing CSV source into a Dataset. The first bad row
// rejects the whole source.
func Load(r io.Reader) (models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataFormatError{Reason: "missing header row"}
		}
		return nil, &DataFormatError{Reason: "unreadable header row", Err: err}
	}

	bindings, err := bind(header)
	if err != nil {
		return nil, err
	}

	ds := make(models.Dataset, 0, 256)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataFormatError{Reason: "malformed row", Err: err}
		}
		line, _ := reader.FieldPos(0)

		obs, err := decode(record, bindings, line)
		if err != nil {
			return nil, err
		}
		ds = append(ds, obs)
	}

	return ds, nil
}

func bind(header []string) ([]binding, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	bindings := make([]binding, 0, len(schema))
	for _, f := range schema {
		i, ok := index[f.column]
		if !ok {
			if f.required {
				return nil, &DataFormatError{Reason: fmt.Sprintf("missing required column %q", f.column)}
			}
			continue
		}
		bindings = append(bindings, binding{field: f, index: i})
	}
	return bindings, nil
}

func decode(record []string, bindings []binding, line int) (models.Observation, error) {
	var obs models.Observation
	for _, b := range bindings {
		text := strings.TrimSpace(record[b.index])
		if b.kind == kindText {
			b.assign(&obs, text, 0)
			continue
		}

		num, err := coerce(text, b.kind)
		if err != nil {
			return models.Observation{}, &TypeMismatchError{Line: line, Column: b.column, Value: text, Err: err}
		}
		b.assign(&obs, text, num)
	}
	return obs, nil
}

func coerce(text string, kind fieldKind) (float64, error) {
	if text == "" {
		return 0, errors.New("empty value")
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("not a finite number")
	}
	if kind == kindInt && n != math.Trunc(n) {
		return 0, errors.New("not an integer")
	}
	return n, nil
}
