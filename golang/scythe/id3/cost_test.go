package id3

import (
	"math"
	"testing"
)

func sideOf(nClasses int, labels ...float64) Side {
	s := newSide(nClasses)
	for _, y := range labels {
		s.add(y)
	}
	return s
}

func TestCostOfEmptySide(t *testing.T) {
	p := Partition{Left: sideOf(2), Right: sideOf(2, 0, 1, 1), Missing: sideOf(2)}
	for name, cost := range map[string]CostFunction{"entropy": EntropyCost{}, "gini": GiniCost{}, "variance": VarianceCost{}} {
		if c := cost.Cost(p); c != CostOfEmptiness {
			t.Fatalf("%s: expected CostOfEmptiness, got %v", name, c)
		}
	}
}

func TestEntropyCost(t *testing.T) {
	pure := Partition{Left: sideOf(2, 0, 0), Right: sideOf(2, 1, 1, 1)}
	if c := (EntropyCost{}).Cost(pure); c != 0 {
		t.Fatalf("pure split: expected 0, got %v", c)
	}
	mixed := Partition{Left: sideOf(2, 0, 1), Right: sideOf(2, 1, 0)}
	if c := (EntropyCost{}).Cost(mixed); math.Abs(c-1) > 1e-12 {
		t.Fatalf("even split: expected 1 bit, got %v", c)
	}
	four := Partition{Left: sideOf(4, 0, 1, 2, 3), Right: sideOf(4, 0, 1, 2, 3)}
	if c := (EntropyCost{}).Cost(four); math.Abs(c-2) > 1e-12 {
		t.Fatalf("uniform over 4 classes: expected 2 bits, got %v", c)
	}
}

func TestMissingDoesNotChangeCost(t *testing.T) {
	p := Partition{Left: sideOf(2, 0, 0, 1), Right: sideOf(2, 1, 1)}
	withMissing := p
	withMissing.Missing = sideOf(2, 0, 0, 0, 0)
	if (EntropyCost{}).Cost(p) != (EntropyCost{}).Cost(withMissing) {
		t.Fatalf("missing instances changed the cost")
	}
	if withMissing.Total() != 9 {
		t.Fatalf("expected 9 instances, got %d", withMissing.Total())
	}
}

func TestGiniCost(t *testing.T) {
	p := Partition{Left: sideOf(2, 0, 1), Right: sideOf(2, 0, 0)}
	// left impurity 0.5 with weight 0.5, right is pure
	if c := (GiniCost{}).Cost(p); math.Abs(c-0.25) > 1e-12 {
		t.Fatalf("expected 0.25, got %v", c)
	}
}

func TestVarianceCost(t *testing.T) {
	p := Partition{Left: sideOf(0, 1, 3), Right: sideOf(0, 10, 10)}
	if c := (VarianceCost{}).Cost(p); math.Abs(c-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", c)
	}
	if m := p.Left.Mean(); m != 2 {
		t.Fatalf("expected mean 2, got %v", m)
	}
}

func TestCostByName(t *testing.T) {
	for _, name := range []string{"entropy", "gini", "variance", "mse"} {
		if c, err := CostByName(name); err != nil || c == nil {
			t.Fatalf("%s: %v %v", name, c, err)
		}
	}
	if c, err := CostByName(""); err != nil || c != nil {
		t.Fatalf("empty name must yield the task default")
	}
	if _, err := CostByName("hinge"); err == nil {
		t.Fatalf("expected an error for an unknown cost")
	}
}
