package id3

import (
	"math"
	"sort"
)

// Density summarizes the distribution of one feature over the training
// set. Landmarks are drawn from the sorted non-missing readings.
type Density struct {
	Quartiles   [4]float64
	Deciles     [10]float64
	Percentiles [100]float64

	// IsCategorical is set when every non-missing reading is integral.
	IsCategorical bool

	// NValid is the number of non-missing readings.
	NValid int

	// Usable is false when the feature has no non-missing reading; such a
	// feature costs +Inf at every node.
	Usable bool
}

// optionalValue is a reading with its missingness made explicit.
type optionalValue struct {
	value float64
	valid bool
}

// readValue converts a raw reading into an optionalValue. The sentinel and
// NaN both mark a missing reading.
func readValue(v, nanValue float64) optionalValue {
	if v == nanValue || math.IsNaN(v) {
		return optionalValue{}
	}
	return optionalValue{value: v, valid: true}
}

// ComputeDensities summarizes every feature of ds.
func ComputeDensities(ds Dataset, nanValue float64) []Density {
	densities := make([]Density, ds.NFeatures)
	sorted := make([]float64, 0, ds.NInstances)
	for f := range densities {
		sorted = sorted[:0]
		isCategorical := true
		for i := 0; i < ds.NInstances; i++ {
			x := readValue(ds.At(i, f), nanValue)
			if !x.valid {
				continue
			}
			sorted = append(sorted, x.value)
			if isCategorical && math.Round(x.value) != x.value {
				isCategorical = false
			}
		}
		sort.Float64s(sorted)
		densities[f] = summarize(sorted, isCategorical)
	}
	return densities
}

// summarize derives the landmarks of an ascending slice.
func summarize(sorted []float64, isCategorical bool) Density {
	n := len(sorted)
	density := Density{NValid: n, IsCategorical: isCategorical, Usable: n > 0}
	if n == 0 {
		return density
	}
	for p := range density.Percentiles {
		density.Percentiles[p] = sorted[p*n/100]
	}
	for d := range density.Deciles {
		density.Deciles[d] = density.Percentiles[10*d]
	}
	for q := range density.Quartiles {
		density.Quartiles[q] = sorted[q*n/4]
	}
	return density
}

// Candidates returns the distinct landmarks selected by the partitioning,
// in ascending order.
func (d Density) Candidates(partitioning Partitioning) []float64 {
	if !d.Usable {
		return nil
	}
	var landmarks []float64
	switch partitioning {
	case DecilePartitioning:
		landmarks = d.Deciles[:]
	case QuartilePartitioning:
		landmarks = d.Quartiles[:]
	default:
		landmarks = d.Percentiles[:]
	}
	candidates := make([]float64, 0, len(landmarks))
	for i, v := range landmarks {
		if i == 0 || v != landmarks[i-1] {
			candidates = append(candidates, v)
		}
	}
	return candidates
}
