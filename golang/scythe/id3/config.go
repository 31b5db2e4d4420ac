package id3

import (
	"math"
	"runtime"
	"strings"
)

// Task selects what the tree predicts.
type Task int

const (
	ClassificationTask Task = iota
	RegressionTask
)

func (t Task) String() string {
	switch t {
	case ClassificationTask:
		return "classification"
	case RegressionTask:
		return "regression"
	}
	return "unknown"
}

// ParseTask maps "classification" / "regression" to a Task.
func ParseTask(name string) (Task, error) {
	switch strings.ToLower(name) {
	case "", "classification":
		return ClassificationTask, nil
	case "regression":
		return RegressionTask, nil
	}
	return 0, preconditionf("unknown task %q", name)
}

// Partitioning selects which density landmarks are tried as thresholds.
type Partitioning int

const (
	PercentilePartitioning Partitioning = iota
	DecilePartitioning
	QuartilePartitioning
)

func (p Partitioning) String() string {
	switch p {
	case PercentilePartitioning:
		return "percentile"
	case DecilePartitioning:
		return "decile"
	case QuartilePartitioning:
		return "quartile"
	}
	return "unknown"
}

// ParsePartitioning maps "percentile", "decile" or "quartile" to a Partitioning.
func ParsePartitioning(name string) (Partitioning, error) {
	switch strings.ToLower(name) {
	case "", "percentile", "percentiles":
		return PercentilePartitioning, nil
	case "decile", "deciles":
		return DecilePartitioning, nil
	case "quartile", "quartiles":
		return QuartilePartitioning, nil
	}
	return 0, preconditionf("unknown partitioning %q", name)
}

// TreeConfig controls tree induction.
// Start with DefaultTreeConfig and override the fields you need.
type TreeConfig struct {
	// Task is either classification (labels are class ids) or regression.
	Task Task

	// NClasses is the number of classes; labels must lie in [0, NClasses).
	// Ignored for regression.
	NClasses int

	// MaxNodes is the node budget. The tree never holds more nodes.
	MaxNodes int

	// MinThreshold is the minimum split cost for which the children of a
	// split are expanded further. Splits at or below it produce leaves.
	MinThreshold float64

	// NaNValue is the sentinel marking a missing reading. NaN readings are
	// always missing.
	NaNValue float64

	// Partitioning selects the candidate thresholds.
	Partitioning Partitioning

	// Cost scores candidate splits. Nil means EntropyCost for
	// classification and VarianceCost for regression.
	Cost CostFunction

	// Workers is the number of goroutines evaluating features of a node.
	// 0 means runtime.NumCPU().
	Workers int
}

// DefaultTreeConfig returns a binary classification config with
// percentile thresholds and entropy cost.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Task:         ClassificationTask,
		NClasses:     2,
		MaxNodes:     4096,
		MinThreshold: 1e-6,
		NaNValue:     math.NaN(),
		Partitioning: PercentilePartitioning,
		Workers:      1,
	}
}

func (cfg TreeConfig) withDefaults() TreeConfig {
	if cfg.Cost == nil {
		if cfg.Task == RegressionTask {
			cfg.Cost = VarianceCost{}
		} else {
			cfg.Cost = EntropyCost{}
		}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Task == RegressionTask {
		cfg.NClasses = 0
	}
	return cfg
}

func (cfg TreeConfig) validate() error {
	switch cfg.Task {
	case ClassificationTask:
		if cfg.NClasses < 1 {
			return preconditionf("NClasses must be >= 1, got %d", cfg.NClasses)
		}
	case RegressionTask:
		if _, ok := cfg.Cost.(classCost); ok {
			return preconditionf("cost %T needs class labels, not regression targets", cfg.Cost)
		}
	default:
		return preconditionf("invalid task %d", cfg.Task)
	}
	if cfg.MaxNodes < 1 {
		return preconditionf("MaxNodes must be >= 1, got %d", cfg.MaxNodes)
	}
	if math.IsNaN(cfg.MinThreshold) {
		return preconditionf("MinThreshold must not be NaN")
	}
	switch cfg.Partitioning {
	case PercentilePartitioning, DecilePartitioning, QuartilePartitioning:
	default:
		return preconditionf("invalid partitioning %d", cfg.Partitioning)
	}
	if cfg.Workers < 0 {
		return preconditionf("Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

func validateLabels(labels []float64, nInstances int, cfg TreeConfig) error {
	if len(labels) != nInstances {
		return preconditionf("got %d labels for %d instances", len(labels), nInstances)
	}
	for i, y := range labels {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return preconditionf("label %d is not finite", i)
		}
		if cfg.Task != ClassificationTask {
			continue
		}
		if y != math.Trunc(y) || y < 0 || y >= float64(cfg.NClasses) {
			return preconditionf("label %d = %g is not a class id in [0, %d)", i, y, cfg.NClasses)
		}
	}
	return nil
}
