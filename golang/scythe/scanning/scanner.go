package scanning

import (
	"go.uber.org/zap"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

// LayerConfig describes the forests fed by a scanning layer.
type LayerConfig struct {
	NForests int
	Tree     id3.TreeConfig
}

func (cfg LayerConfig) validate() error {
	if cfg.NForests <= 0 {
		return preconditionf("NForests must be positive, got %d", cfg.NForests)
	}
	if cfg.Tree.Task == id3.ClassificationTask && cfg.Tree.NClasses <= 0 {
		return preconditionf("NClasses must be positive, got %d", cfg.Tree.NClasses)
	}
	return nil
}

// outputsPerInstance is the number of values the forests of the layer emit
// for each virtual instance.
func (cfg LayerConfig) outputsPerInstance() int {
	if cfg.Tree.Task == id3.ClassificationTask {
		return cfg.Tree.NClasses * cfg.NForests
	}
	return cfg.NForests
}

// Layer turns raw instances into a virtual dataset for the forests of a
// cascade level.
type Layer interface {
	Virtualize(grid Grid) (VirtualDataset, error)
	VirtualizeTargets(labels []float64) (*ScannedTargets, error)
	RequiredMemorySize() (int, error)
	NumVirtualFeatures() (int, error)
	IsConcatenable() bool
	Type() string
}

// scanner holds what both scanners share: the layer config and the dataset
// produced by the last Virtualize call.
type scanner struct {
	config   LayerConfig
	vdataset VirtualDataset
	nRaw     int
}

func (s *scanner) virtualized() error {
	if s.vdataset == nil {
		return preconditionf("Virtualize must be called first")
	}
	return nil
}

func (s *scanner) VirtualizeTargets(labels []float64) (*ScannedTargets, error) {
	if err := s.virtualized(); err != nil {
		return nil, err
	}
	if len(labels) != s.nRaw {
		return nil, preconditionf("got %d labels for %d instances", len(labels), s.nRaw)
	}
	return NewScannedTargets(labels, s.vdataset.NumVirtualInstancesPerInstance())
}

// RequiredMemorySize is the number of values the forests emit over the
// whole virtual dataset.
func (s *scanner) RequiredMemorySize() (int, error) {
	if err := s.virtualized(); err != nil {
		return 0, err
	}
	return s.vdataset.NumInstances() * s.config.outputsPerInstance(), nil
}

// NumVirtualFeatures is the width of the representation handed to the next
// level: one block of forest outputs per window position.
func (s *scanner) NumVirtualFeatures() (int, error) {
	if err := s.virtualized(); err != nil {
		return 0, err
	}
	return s.vdataset.NumVirtualInstancesPerInstance() * s.config.outputsPerInstance(), nil
}

func (s *scanner) IsConcatenable() bool { return false }

func (s *scanner) logVirtualized(kind string, vd VirtualDataset) {
	zap.L().Debug("virtualized",
		zap.String("layer", kind),
		zap.Int("raw", s.nRaw),
		zap.Int("instances", vd.NumInstances()),
		zap.Int("features", vd.NumFeatures()),
		zap.Int("memory", vd.RequiredMemorySize()))
}

// MultiGrainedScanner1D scans sequences with a window of Kc readings.
type MultiGrainedScanner1D struct {
	scanner
	Kc int
}

func NewMultiGrainedScanner1D(config LayerConfig, kc int) (*MultiGrainedScanner1D, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if kc <= 0 {
		return nil, preconditionf("kernel width must be positive, got %d", kc)
	}
	return &MultiGrainedScanner1D{scanner: scanner{config: config}, Kc: kc}, nil
}

func (s *MultiGrainedScanner1D) Virtualize(grid Grid) (VirtualDataset, error) {
	vd, err := NewScannedDataset1D(grid, s.Kc)
	if err != nil {
		return nil, err
	}
	s.vdataset, s.nRaw = vd, grid.shape[0]
	s.logVirtualized(s.Type(), vd)
	return vd, nil
}

func (s *MultiGrainedScanner1D) Type() string { return "MultiGrainedScanner1D" }

// MultiGrainedScanner2D scans images with a Kr x Kc kernel.
type MultiGrainedScanner2D struct {
	scanner
	Kc, Kr int
}

func NewMultiGrainedScanner2D(config LayerConfig, kc, kr int) (*MultiGrainedScanner2D, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if kc <= 0 || kr <= 0 {
		return nil, preconditionf("kernel must be positive, got %d x %d", kr, kc)
	}
	return &MultiGrainedScanner2D{scanner: scanner{config: config}, Kc: kc, Kr: kr}, nil
}

func (s *MultiGrainedScanner2D) Virtualize(grid Grid) (VirtualDataset, error) {
	vd, err := NewScannedDataset2D(grid, s.Kc, s.Kr)
	if err != nil {
		return nil, err
	}
	s.vdataset, s.nRaw = vd, grid.shape[0]
	s.logVirtualized(s.Type(), vd)
	return vd, nil
}

func (s *MultiGrainedScanner2D) Type() string { return "MultiGrainedScanner2D" }
