package id3

import (
	"math"
	"testing"
)

func columnDataset(t *testing.T, column []float64) Dataset {
	ds, err := NewDataset(column, len(column), 1)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestDensityLandmarks(t *testing.T) {
	column := make([]float64, 100)
	for i := range column {
		// reversed so that the summary has to sort
		column[i] = float64(100 - i)
	}
	d := ComputeDensities(columnDataset(t, column), math.NaN())[0]

	if !d.Usable || d.NValid != 100 || !d.IsCategorical {
		t.Fatalf("unexpected flags: %+v", d)
	}
	for p, v := range d.Percentiles {
		if v != float64(p+1) {
			t.Fatalf("percentile %d: expected %v, got %v", p, p+1, v)
		}
	}
	for k, v := range d.Deciles {
		if v != float64(10*k+1) {
			t.Fatalf("decile %d: expected %v, got %v", k, 10*k+1, v)
		}
	}
	if d.Quartiles != [4]float64{1, 26, 51, 76} {
		t.Fatalf("unexpected quartiles %v", d.Quartiles)
	}
}

func TestDensityMonotoneAndBounded(t *testing.T) {
	column := make([]float64, 37)
	for i := range column {
		column[i] = math.Sin(float64(i)) * 10
	}
	d := ComputeDensities(columnDataset(t, column), math.NaN())[0]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range column {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if d.IsCategorical {
		t.Fatalf("non integral column flagged as categorical")
	}
	for p := range d.Percentiles {
		if d.Percentiles[p] < lo || d.Percentiles[p] > hi {
			t.Fatalf("percentile %d = %v out of [%v, %v]", p, d.Percentiles[p], lo, hi)
		}
		if p > 0 && d.Percentiles[p] < d.Percentiles[p-1] {
			t.Fatalf("percentiles decrease at %d", p)
		}
	}
	if d.Percentiles[0] != lo {
		t.Fatalf("first percentile %v is not the minimum %v", d.Percentiles[0], lo)
	}
}

func TestDensitySkipsMissing(t *testing.T) {
	const nan = -999.0
	column := []float64{nan, 3, math.NaN(), 1, nan, 2}
	d := ComputeDensities(columnDataset(t, column), nan)[0]
	if d.NValid != 3 {
		t.Fatalf("expected 3 valid readings, got %d", d.NValid)
	}
	candidates := d.Candidates(PercentilePartitioning)
	if len(candidates) != 3 || candidates[0] != 1 || candidates[1] != 2 || candidates[2] != 3 {
		t.Fatalf("unexpected candidates %v", candidates)
	}
}

func TestDensityAllMissing(t *testing.T) {
	column := []float64{math.NaN(), math.NaN()}
	d := ComputeDensities(columnDataset(t, column), 0)[0]
	if d.Usable || d.NValid != 0 {
		t.Fatalf("feature without readings must not be usable: %+v", d)
	}
	if c := d.Candidates(QuartilePartitioning); c != nil {
		t.Fatalf("expected no candidates, got %v", c)
	}
}

func TestCandidatesAreDistinct(t *testing.T) {
	column := []float64{5, 5, 5, 5, 5, 5, 5, 7}
	d := ComputeDensities(columnDataset(t, column), math.NaN())[0]
	for _, partitioning := range []Partitioning{PercentilePartitioning, DecilePartitioning, QuartilePartitioning} {
		candidates := d.Candidates(partitioning)
		for k := 1; k < len(candidates); k++ {
			if candidates[k] <= candidates[k-1] {
				t.Fatalf("%s candidates not strictly ascending: %v", partitioning, candidates)
			}
		}
	}
	if q := d.Candidates(QuartilePartitioning); len(q) != 1 || q[0] != 5 {
		t.Fatalf("unexpected quartile candidates %v", q)
	}
}
