package id3

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CostOfEmptiness is the cost of a split leaving one side empty. It
// disqualifies the split without being an error.
const CostOfEmptiness = math.MaxFloat32

// Side accumulates the instances routed to one side of a threshold.
type Side struct {
	// Counts holds per-class counts; nil for regression.
	Counts []int
	// N is the number of instances.
	N int
	// Sum and SumSquares are the moments of the targets.
	Sum, SumSquares float64
}

func newSide(nClasses int) Side {
	if nClasses == 0 {
		return Side{}
	}
	return Side{Counts: make([]int, nClasses)}
}

func (s *Side) add(y float64) {
	s.N++
	s.Sum += y
	s.SumSquares += y * y
	if s.Counts != nil {
		s.Counts[int(y)]++
	}
}

// merge returns the union of s and other as a fresh Side.
func (s Side) merge(other Side) Side {
	merged := Side{N: s.N + other.N, Sum: s.Sum + other.Sum, SumSquares: s.SumSquares + other.SumSquares}
	if s.Counts != nil {
		merged.Counts = make([]int, len(s.Counts))
		for c := range s.Counts {
			merged.Counts[c] = s.Counts[c] + other.Counts[c]
		}
	}
	return merged
}

// Mean is the average target of the side, 0 when empty.
func (s Side) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

func (s Side) distribution() []float64 {
	p := make([]float64, len(s.Counts))
	for c, n := range s.Counts {
		p[c] = float64(n) / float64(s.N)
	}
	return p
}

// Partition splits the instances of a node around a threshold.
type Partition struct {
	Left, Right, Missing Side
}

// Total is the number of instances in the partition, missing included.
func (p Partition) Total() int {
	return p.Left.N + p.Right.N + p.Missing.N
}

// CostFunction scores a partition; lower is better. Implementations return
// CostOfEmptiness when either side is empty.
type CostFunction interface {
	Cost(p Partition) float64
}

// classCost is implemented by costs computed from class counts. Such a cost
// sees no counts on regression targets and scores every split 0.
type classCost interface {
	classification()
}

// EntropyCost weights the Shannon entropy (in bits) of each side's class
// distribution by the side's share of non-missing instances.
type EntropyCost struct{}

func (EntropyCost) classification() {}

func (EntropyCost) Cost(p Partition) float64 {
	return weightedCost(p, func(s Side) float64 {
		return stat.Entropy(s.distribution()) / math.Ln2
	})
}

// GiniCost weights the Gini impurity of each side.
type GiniCost struct{}

func (GiniCost) classification() {}

func (GiniCost) Cost(p Partition) float64 {
	return weightedCost(p, func(s Side) float64 {
		g := 0.0
		for _, v := range s.distribution() {
			g += v * v
		}
		return 1 - g
	})
}

// VarianceCost weights the variance of the targets of each side. It is the
// cost used for regression.
type VarianceCost struct{}

func (VarianceCost) Cost(p Partition) float64 {
	return weightedCost(p, func(s Side) float64 {
		mean := s.Mean()
		return math.Max(0, s.SumSquares/float64(s.N)-mean*mean)
	})
}

func weightedCost(p Partition, impurity func(Side) float64) float64 {
	if p.Left.N == 0 || p.Right.N == 0 {
		return CostOfEmptiness
	}
	total := float64(p.Left.N + p.Right.N)
	leftRate := float64(p.Left.N) / total
	rightRate := float64(p.Right.N) / total
	return leftRate*impurity(p.Left) + rightRate*impurity(p.Right)
}

// CostByName maps "entropy", "gini" or "variance" to a CostFunction. The
// empty name yields nil, leaving the choice to the task default.
func CostByName(name string) (CostFunction, error) {
	switch name {
	case "":
		return nil, nil
	case "entropy":
		return EntropyCost{}, nil
	case "gini":
		return GiniCost{}, nil
	case "variance", "mse":
		return VarianceCost{}, nil
	}
	return nil, preconditionf("unknown cost %q", name)
}
