package scanning

import (
	"github.com/tarstars/scythe/golang/scythe/id3"
)

// VirtualDataset exposes the sub-windows of raw instances as a dataset
// without copying them.
type VirtualDataset interface {
	At(i, j int) float64
	NumInstances() int
	NumFeatures() int
	RequiredMemorySize() int
	NumVirtualInstancesPerInstance() int
}

// ScannedDataset1D slides a window of kc readings along each sequence of an
// N x M grid. Every window position is a virtual instance of kc features.
type ScannedDataset1D struct {
	grid   Grid
	n, m   int
	kc, sc int
}

func NewScannedDataset1D(grid Grid, kc int) (*ScannedDataset1D, error) {
	if grid.Rank() != 2 {
		return nil, preconditionf("1-D scanning needs a rank 2 grid, got shape %v", grid.Shape())
	}
	n, m := grid.shape[0], grid.shape[1]
	if kc <= 0 || kc > m {
		return nil, preconditionf("kernel width %d does not fit instances of length %d", kc, m)
	}
	return &ScannedDataset1D{grid: grid, n: n, m: m, kc: kc, sc: m - kc + 1}, nil
}

// Sc is the number of window positions per instance.
func (ds *ScannedDataset1D) Sc() int                             { return ds.sc }
func (ds *ScannedDataset1D) NumInstances() int                   { return ds.n * ds.sc }
func (ds *ScannedDataset1D) NumFeatures() int                    { return ds.kc }
func (ds *ScannedDataset1D) RequiredMemorySize() int             { return ds.NumInstances() * ds.NumFeatures() }
func (ds *ScannedDataset1D) NumVirtualInstancesPerInstance() int { return ds.sc }
func (ds *ScannedDataset1D) Kind() ElementKind                   { return ds.grid.kind }

// At returns feature j of virtual instance i.
func (ds *ScannedDataset1D) At(i, j int) float64 {
	source, position := i/ds.sc, i%ds.sc
	return ds.grid.read(source*ds.m + position + j)
}

// ScannedDataset2D slides a kr x kc kernel over each M x P image of an
// N x M x P grid. Features are the kernel cells in row-major order.
type ScannedDataset2D struct {
	grid    Grid
	n, m, p int
	kc, kr  int
	sc, sr  int
}

func NewScannedDataset2D(grid Grid, kc, kr int) (*ScannedDataset2D, error) {
	if grid.Rank() != 3 {
		return nil, preconditionf("2-D scanning needs a rank 3 grid, got shape %v", grid.Shape())
	}
	n, m, p := grid.shape[0], grid.shape[1], grid.shape[2]
	if kc <= 0 || kc > p {
		return nil, preconditionf("kernel width %d does not fit images of width %d", kc, p)
	}
	if kr <= 0 || kr > m {
		return nil, preconditionf("kernel height %d does not fit images of height %d", kr, m)
	}
	return &ScannedDataset2D{grid: grid, n: n, m: m, p: p, kc: kc, kr: kr, sc: p - kc + 1, sr: m - kr + 1}, nil
}

func (ds *ScannedDataset2D) Sc() int                             { return ds.sc }
func (ds *ScannedDataset2D) Sr() int                             { return ds.sr }
func (ds *ScannedDataset2D) NumInstances() int                   { return ds.n * ds.sr * ds.sc }
func (ds *ScannedDataset2D) NumFeatures() int                    { return ds.kr * ds.kc }
func (ds *ScannedDataset2D) RequiredMemorySize() int             { return ds.NumInstances() * ds.NumFeatures() }
func (ds *ScannedDataset2D) NumVirtualInstancesPerInstance() int { return ds.sr * ds.sc }
func (ds *ScannedDataset2D) Kind() ElementKind                   { return ds.grid.kind }

func (ds *ScannedDataset2D) At(i, j int) float64 {
	positions := ds.sr * ds.sc
	source, position := i/positions, i%positions
	row := position/ds.sc + j/ds.kc
	col := position%ds.sc + j%ds.kc
	return ds.grid.read((source*ds.m+row)*ds.p + col)
}

// Materialize copies a virtual dataset into a dense buffer for tree induction.
func Materialize(vd VirtualDataset) (id3.Dataset, error) {
	nInstances, nFeatures := vd.NumInstances(), vd.NumFeatures()
	data := make([]float64, 0, vd.RequiredMemorySize())
	for i := 0; i < nInstances; i++ {
		for j := 0; j < nFeatures; j++ {
			data = append(data, vd.At(i, j))
		}
	}
	return id3.NewDataset(data, nInstances, nFeatures)
}

// ScannedTargets repeats the label of every raw instance for each of its
// virtual instances.
type ScannedTargets struct {
	labels []float64
	s      int
}

func NewScannedTargets(labels []float64, s int) (*ScannedTargets, error) {
	if s <= 0 {
		return nil, preconditionf("virtual instances per instance must be positive, got %d", s)
	}
	return &ScannedTargets{labels: labels, s: s}, nil
}

func (st *ScannedTargets) At(i int) float64  { return st.labels[i/st.s] }
func (st *ScannedTargets) NumInstances() int { return len(st.labels) * st.s }

// Materialize expands the labels to one per virtual instance.
func (st *ScannedTargets) Materialize() []float64 {
	labels := make([]float64, st.NumInstances())
	for i := range labels {
		labels[i] = st.At(i)
	}
	return labels
}
