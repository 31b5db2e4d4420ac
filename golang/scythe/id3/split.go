package id3

import (
	"math"
)

//FeatureSplit contains results of the threshold search on one feature at one node.
type FeatureSplit struct {
	Feature   int
	Threshold float64
	Cost      float64
	Partition Partition
	valid     bool
}

//noSplit is the result for a node where no feature can be evaluated.
func noSplit() FeatureSplit {
	return FeatureSplit{Feature: NoFeature, Threshold: math.NaN(), Cost: math.Inf(1)}
}

//splitter evaluates candidate splits of the training set. It only reads
//shared state, so several goroutines may use it at once.
type splitter struct {
	ds           Dataset
	labels       []float64
	densities    []Density
	nClasses     int
	nanValue     float64
	partitioning Partitioning
	cost         CostFunction
	threadsNum   int
}

func newSplitter(ds Dataset, labels []float64, densities []Density, cfg TreeConfig) *splitter {
	return &splitter{
		ds:           ds,
		labels:       labels,
		densities:    densities,
		nClasses:     cfg.NClasses,
		nanValue:     cfg.NaNValue,
		partitioning: cfg.Partitioning,
		cost:         cfg.Cost,
		threadsNum:   cfg.Workers,
	}
}

//countPartition routes the given instances around threshold on feature and
//returns fresh counters.
func (s *splitter) countPartition(instances []int, feature int, threshold float64) Partition {
	p := Partition{Left: newSide(s.nClasses), Right: newSide(s.nClasses), Missing: newSide(s.nClasses)}
	for _, i := range instances {
		x := readValue(s.ds.At(i, feature), s.nanValue)
		switch {
		case !x.valid:
			p.Missing.add(s.labels[i])
		case x.value >= threshold:
			p.Right.add(s.labels[i])
		default:
			p.Left.add(s.labels[i])
		}
	}
	return p
}

//evaluateByThreshold tries every candidate landmark of the feature and keeps
//the first one reaching the lowest cost.
func (s *splitter) evaluateByThreshold(instances []int, feature int) FeatureSplit {
	best := noSplit()
	best.Feature = feature
	for _, threshold := range s.densities[feature].Candidates(s.partitioning) {
		partition := s.countPartition(instances, feature, threshold)
		cost := s.cost.Cost(partition)
		if !best.valid || cost < best.Cost {
			best = FeatureSplit{Feature: feature, Threshold: threshold, Cost: cost, Partition: partition, valid: true}
		}
	}
	return best
}

//bestSplit finds the best split of the given instances over all features.
//Features are evaluated on a pool of workers; the reduction keeps the
//lowest-indexed feature among equal costs.
func (s *splitter) bestSplit(instances []int) FeatureSplit {
	result := make([]FeatureSplit, s.ds.NFeatures)

	if s.threadsNum <= 1 {
		for q := range result {
			result[q] = s.evaluateByThreshold(instances, q)
		}
	} else {
		taskPool := NewPool(s.threadsNum)
		for q := range result {
			taskPool.AddTask(&TaskFindBestSplit{result, q, func(localQ int) FeatureSplit {
				return s.evaluateByThreshold(instances, localQ)
			}})
		}
		taskPool.Close()
		taskPool.WaitAll()
	}

	best := noSplit()
	for _, currentSplit := range result {
		if currentSplit.valid && currentSplit.Cost < best.Cost {
			best = currentSplit
		}
	}
	return best
}
