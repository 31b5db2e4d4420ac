package scanning

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

// ElementKind is the element type of the raw readings behind a Grid.
type ElementKind int

const (
	Float64Kind ElementKind = iota
	Float32Kind
	Int64Kind
	Int32Kind
	IntKind
	Uint8Kind
)

func (k ElementKind) String() string {
	switch k {
	case Float64Kind:
		return "float64"
	case Float32Kind:
		return "float32"
	case Int64Kind:
		return "int64"
	case Int32Kind:
		return "int32"
	case IntKind:
		return "int"
	case Uint8Kind:
		return "uint8"
	}
	return "unknown"
}

func preconditionf(format string, args ...interface{}) error {
	return errors.Wrapf(id3.ErrPrecondition, format, args...)
}

// Grid is a row-major block of raw instances: N x M for sequences, N x M x P
// for images. The reader is bound to the element kind once, at construction.
type Grid struct {
	shape []int
	kind  ElementKind
	read  func(k int) float64
}

// NewGrid wraps a rank 2 or rank 3 tensor. Views are materialized first.
func NewGrid(t *tensor.Dense) (Grid, error) {
	if t == nil {
		return Grid{}, preconditionf("nil tensor")
	}
	if t.Dims() != 2 && t.Dims() != 3 {
		return Grid{}, preconditionf("grid must have rank 2 or 3, got shape %v", t.Shape())
	}
	for _, d := range t.Shape() {
		if d <= 0 {
			return Grid{}, preconditionf("grid dimensions must be positive, got shape %v", t.Shape())
		}
	}
	if t.RequiresIterator() {
		materialized, ok := t.Materialize().(*tensor.Dense)
		if !ok {
			return Grid{}, errors.Wrapf(id3.ErrNotImplemented, "cannot materialize %T", t.Materialize())
		}
		t = materialized
	}

	grid := Grid{shape: append([]int(nil), t.Shape()...)}
	switch data := t.Data().(type) {
	case []float64:
		grid.kind, grid.read = Float64Kind, func(k int) float64 { return data[k] }
	case []float32:
		grid.kind, grid.read = Float32Kind, func(k int) float64 { return float64(data[k]) }
	case []int64:
		grid.kind, grid.read = Int64Kind, func(k int) float64 { return float64(data[k]) }
	case []int32:
		grid.kind, grid.read = Int32Kind, func(k int) float64 { return float64(data[k]) }
	case []int:
		grid.kind, grid.read = IntKind, func(k int) float64 { return float64(data[k]) }
	case []uint8:
		grid.kind, grid.read = Uint8Kind, func(k int) float64 { return float64(data[k]) }
	default:
		return Grid{}, preconditionf("unsupported element type %v", t.Dtype())
	}
	return grid, nil
}

// NewFloat64Grid builds a grid over a float64 buffer of the given shape.
func NewFloat64Grid(data []float64, shape ...int) (Grid, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return Grid{}, preconditionf("grid dimensions must be positive, got shape %v", shape)
		}
		size *= d
	}
	if len(shape) == 0 || size != len(data) {
		return Grid{}, preconditionf("buffer holds %d values, shape %v", len(data), shape)
	}
	return NewGrid(tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data)))
}

func (g Grid) Shape() []int      { return g.shape }
func (g Grid) Kind() ElementKind { return g.kind }
func (g Grid) Rank() int         { return len(g.shape) }

// Float64s converts every reading of the grid.
func (g Grid) Float64s() []float64 {
	size := 1
	for _, d := range g.shape {
		size *= d
	}
	values := make([]float64, size)
	for k := range values {
		values[k] = g.read(k)
	}
	return values
}
