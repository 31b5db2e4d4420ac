package scanning

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

var (
	_ Layer = (*MultiGrainedScanner1D)(nil)
	_ Layer = (*MultiGrainedScanner2D)(nil)
)

//sequences returns an N x M grid with reading 10*i + k at position k of instance i.
func sequences(t *testing.T, n, m int) Grid {
	data := make([]float64, 0, n*m)
	for i := 0; i < n; i++ {
		for k := 0; k < m; k++ {
			data = append(data, float64(10*i+k))
		}
	}
	grid, err := NewFloat64Grid(data, n, m)
	if err != nil {
		t.Fatalf("NewFloat64Grid: %v", err)
	}
	return grid
}

func classificationLayer(nClasses, nForests int) LayerConfig {
	tree := id3.DefaultTreeConfig()
	tree.NClasses = nClasses
	return LayerConfig{NForests: nForests, Tree: tree}
}

func TestScannedDataset1DCounts(t *testing.T) {
	ds, err := NewScannedDataset1D(sequences(t, 5, 4), 2)
	if err != nil {
		t.Fatalf("NewScannedDataset1D: %v", err)
	}
	if ds.Sc() != 3 || ds.NumInstances() != 15 || ds.NumFeatures() != 2 {
		t.Fatalf("expected 3 / 15 / 2, got %d / %d / %d", ds.Sc(), ds.NumInstances(), ds.NumFeatures())
	}
	if ds.RequiredMemorySize() != 30 || ds.NumVirtualInstancesPerInstance() != 3 {
		t.Fatalf("unexpected sizes %d, %d", ds.RequiredMemorySize(), ds.NumVirtualInstancesPerInstance())
	}
}

func TestScannedDataset1DWindows(t *testing.T) {
	ds, _ := NewScannedDataset1D(sequences(t, 5, 4), 2)
	for i := 0; i < ds.NumInstances(); i++ {
		for j := 0; j < ds.NumFeatures(); j++ {
			expected := float64(10*(i/3) + i%3 + j)
			if v := ds.At(i, j); v != expected {
				t.Fatalf("At(%d, %d): expected %v, got %v", i, j, expected, v)
			}
		}
	}
}

func TestScannedDataset2DWindows(t *testing.T) {
	// two 3 x 4 images, reading 100*i + 10*row + col
	data := make([]float64, 0, 24)
	for i := 0; i < 2; i++ {
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				data = append(data, float64(100*i+10*row+col))
			}
		}
	}
	grid, err := NewFloat64Grid(data, 2, 3, 4)
	if err != nil {
		t.Fatalf("NewFloat64Grid: %v", err)
	}
	ds, err := NewScannedDataset2D(grid, 2, 2)
	if err != nil {
		t.Fatalf("NewScannedDataset2D: %v", err)
	}
	if ds.Sr() != 2 || ds.Sc() != 3 || ds.NumInstances() != 12 || ds.NumFeatures() != 4 {
		t.Fatalf("unexpected shape: sr %d sc %d instances %d features %d", ds.Sr(), ds.Sc(), ds.NumInstances(), ds.NumFeatures())
	}
	// instance 7 is image 1 at window origin (0, 1); feature 3 is kernel cell (1, 1)
	if v := ds.At(7, 3); v != 112 {
		t.Fatalf("At(7, 3): expected 112, got %v", v)
	}
	if v := ds.At(5, 0); v != 12 {
		t.Fatalf("At(5, 0): expected 12, got %v", v)
	}
}

func TestKernelLargerThanInstance(t *testing.T) {
	if _, err := NewScannedDataset1D(sequences(t, 5, 4), 5); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("expected a precondition error, got %v", err)
	}
	grid, _ := NewFloat64Grid(make([]float64, 12), 1, 3, 4)
	if _, err := NewScannedDataset2D(grid, 2, 4); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("expected a precondition error, got %v", err)
	}
	if _, err := NewScannedDataset2D(sequences(t, 2, 2), 1, 1); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("rank 2 grid accepted by the 2-D scanner: %v", err)
	}
}

func TestNonPositiveGridDimensions(t *testing.T) {
	shapes := [][]int{{-1, -2}, {0, 3}, {2, 0, 1}, {}}
	for _, shape := range shapes {
		if _, err := NewFloat64Grid([]float64{1, 2}, shape...); errors.Cause(err) != id3.ErrPrecondition {
			t.Fatalf("shape %v: expected a precondition error, got %v", shape, err)
		}
	}
}

func TestScannedTargets(t *testing.T) {
	targets, err := NewScannedTargets([]float64{4, 5, 6, 7, 8}, 3)
	if err != nil {
		t.Fatalf("NewScannedTargets: %v", err)
	}
	if targets.At(7) != 6 {
		t.Fatalf("virtual instance 7 must carry the label of instance 2, got %v", targets.At(7))
	}
	labels := targets.Materialize()
	if len(labels) != 15 || labels[14] != 8 || labels[0] != 4 {
		t.Fatalf("unexpected labels %v", labels)
	}
}

func TestGridKinds(t *testing.T) {
	grids := map[ElementKind]*tensor.Dense{
		Int64Kind:   tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]int64{1, 2, 3, 4})),
		Int32Kind:   tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]int32{1, 2, 3, 4})),
		Float32Kind: tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float32{1, 2, 3, 4})),
		Uint8Kind:   tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]uint8{1, 2, 3, 4})),
	}
	for kind, raw := range grids {
		grid, err := NewGrid(raw)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if grid.Kind() != kind {
			t.Fatalf("expected %s, got %s", kind, grid.Kind())
		}
		ds, _ := NewScannedDataset1D(grid, 1)
		if ds.At(3, 0) != 4 {
			t.Fatalf("%s: expected 4, got %v", kind, ds.At(3, 0))
		}
	}

	unsupported := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]bool{true, false, true, false}))
	if _, err := NewGrid(unsupported); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("expected a precondition error, got %v", err)
	}
	flat := tensor.New(tensor.WithShape(4), tensor.WithBacking([]float64{1, 2, 3, 4}))
	if _, err := NewGrid(flat); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("rank 1 tensor accepted: %v", err)
	}
}

func TestMultiGrainedScanner1D(t *testing.T) {
	layer, err := NewMultiGrainedScanner1D(classificationLayer(3, 2), 2)
	if err != nil {
		t.Fatalf("NewMultiGrainedScanner1D: %v", err)
	}
	if _, err := layer.VirtualizeTargets([]float64{0, 1, 2, 0, 1}); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("targets virtualized before the dataset: %v", err)
	}
	if _, err := layer.Virtualize(sequences(t, 5, 4)); err != nil {
		t.Fatalf("Virtualize: %v", err)
	}
	if memory, _ := layer.RequiredMemorySize(); memory != 90 {
		t.Fatalf("expected 90 outputs, got %d", memory)
	}
	if features, _ := layer.NumVirtualFeatures(); features != 18 {
		t.Fatalf("expected 18 virtual features, got %d", features)
	}
	if _, err := layer.VirtualizeTargets([]float64{0, 1}); errors.Cause(err) != id3.ErrPrecondition {
		t.Fatalf("label count mismatch accepted: %v", err)
	}
	targets, err := layer.VirtualizeTargets([]float64{0, 1, 2, 0, 1})
	if err != nil || targets.NumInstances() != 15 {
		t.Fatalf("VirtualizeTargets: %v", err)
	}
	if layer.IsConcatenable() || layer.Type() != "MultiGrainedScanner1D" {
		t.Fatalf("unexpected layer description")
	}
}

func TestMultiGrainedScanner2DRegression(t *testing.T) {
	tree := id3.DefaultTreeConfig()
	tree.Task = id3.RegressionTask
	layer, err := NewMultiGrainedScanner2D(LayerConfig{NForests: 4, Tree: tree}, 2, 2)
	if err != nil {
		t.Fatalf("NewMultiGrainedScanner2D: %v", err)
	}
	grid, _ := NewFloat64Grid(make([]float64, 24), 2, 3, 4)
	if _, err := layer.Virtualize(grid); err != nil {
		t.Fatalf("Virtualize: %v", err)
	}
	if memory, _ := layer.RequiredMemorySize(); memory != 48 {
		t.Fatalf("expected 48 outputs, got %d", memory)
	}
	if features, _ := layer.NumVirtualFeatures(); features != 24 {
		t.Fatalf("expected 24 virtual features, got %d", features)
	}
}

func TestGrowOnScannedSequences(t *testing.T) {
	// class 1 sequences contain a spike somewhere, class 0 ones are flat
	data := []float64{
		0, 0, 0, 0, 0,
		0, 9, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 9, 0,
	}
	grid, _ := NewFloat64Grid(data, 4, 5)
	layer, _ := NewMultiGrainedScanner1D(classificationLayer(2, 1), 3)
	vd, err := layer.Virtualize(grid)
	if err != nil {
		t.Fatalf("Virtualize: %v", err)
	}
	targets, err := layer.VirtualizeTargets([]float64{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("VirtualizeTargets: %v", err)
	}
	ds, err := Materialize(vd)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if ds.NInstances != 12 || ds.NFeatures != 3 {
		t.Fatalf("unexpected dataset %d x %d", ds.NInstances, ds.NFeatures)
	}
	tree, err := id3.Grow(context.Background(), ds, targets.Materialize(), layer.config.Tree)
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if len(tree.Nodes) < 3 {
		t.Fatalf("expected at least one split, got %d nodes", len(tree.Nodes))
	}
}
