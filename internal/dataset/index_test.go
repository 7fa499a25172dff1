package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mr1hm/water-insights/internal/models"
)

func TestDistinctCountries_SortedAndUnique(t *testing.T) {
	ds := models.Dataset{
		{Country: "Chile", Year: 2020},
		{Country: "Austria", Year: 2020},
		{Country: "Chile", Year: 2021},
		{Country: "Brazil", Year: 2019},
		{Country: "Austria", Year: 2020},
	}

	got := DistinctCountries(ds)
	want := []string{"Austria", "Brazil", "Chile"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("countries mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctCountries_Empty(t *testing.T) {
	if got := DistinctCountries(nil); len(got) != 0 {
		t.Errorf("expected no countries, got %v", got)
	}
}

func TestSliceByCountry_StableAscending(t *testing.T) {
	ds := models.Dataset{
		{Country: "Chile", Year: 2022, Population: 1},
		{Country: "Peru", Year: 2000},
		{Country: "Chile", Year: 2020, Population: 2},
		{Country: "Chile", Year: 2022, Population: 3},
		{Country: "Chile", Year: 2021, Population: 4},
	}

	got := SliceByCountry(ds, "Chile")

	var years []int
	var pops []float64
	for _, o := range got {
		years = append(years, o.Year)
		pops = append(pops, o.Population)
	}
	if diff := cmp.Diff([]int{2020, 2021, 2022, 2022}, years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
	// duplicate 2022 rows keep source order
	if diff := cmp.Diff([]float64{2, 4, 1, 3}, pops); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSliceByCountry_DoesNotMutateDataset(t *testing.T) {
	ds := models.Dataset{
		{Country: "Chile", Year: 2022},
		{Country: "Chile", Year: 2020},
	}
	SliceByCountry(ds, "Chile")
	if ds[0].Year != 2022 {
		t.Error("expected source dataset order untouched")
	}
}

func TestSliceByCountry_Unknown(t *testing.T) {
	ds := models.Dataset{{Country: "Chile", Year: 2022}}
	if got := SliceByCountry(ds, "Narnia"); len(got) != 0 {
		t.Errorf("expected empty slice, got %d rows", len(got))
	}
}

func TestYearBounds(t *testing.T) {
	ds := models.Dataset{{Year: 2001}, {Year: 1990}, {Year: 2024}}
	min, max, ok := YearBounds(ds)
	if !ok || min != 1990 || max != 2024 {
		t.Errorf("expected 1990..2024, got %d..%d ok=%v", min, max, ok)
	}
	if _, _, ok := YearBounds(nil); ok {
		t.Error("expected ok=false for empty dataset")
	}
}
