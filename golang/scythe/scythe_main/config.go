package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

//decodeConfig reads a run config, as YAML when the extension says so and as JSON otherwise.
func decodeConfig(srcConfig string, out interface{}) (err error) {
	file, err := os.Open(srcConfig)
	if err != nil {
		return errors.Wrap(err, "opening config")
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	switch strings.ToLower(filepath.Ext(srcConfig)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(out)
	default:
		err = json.NewDecoder(file).Decode(out)
	}
	return errors.Wrapf(err, "decoding %s", srcConfig)
}

//TreeParams are the tree induction settings of a run config. Zero values keep the defaults.
type TreeParams struct {
	Task         string   `json:"task" yaml:"task"`
	NClasses     int      `json:"n_classes" yaml:"n_classes"`
	MaxNodes     int      `json:"max_nodes" yaml:"max_nodes"`
	MinThreshold *float64 `json:"min_threshold" yaml:"min_threshold"`
	NaNValue     *float64 `json:"nan_value" yaml:"nan_value"`
	Partitioning string   `json:"partitioning" yaml:"partitioning"`
	Cost         string   `json:"cost" yaml:"cost"`
	Workers      int      `json:"workers" yaml:"workers"`
}

func (params TreeParams) treeConfig() (id3.TreeConfig, error) {
	cfg := id3.DefaultTreeConfig()
	var err error
	if cfg.Task, err = id3.ParseTask(params.Task); err != nil {
		return cfg, err
	}
	if cfg.Partitioning, err = id3.ParsePartitioning(params.Partitioning); err != nil {
		return cfg, err
	}
	if cfg.Cost, err = id3.CostByName(params.Cost); err != nil {
		return cfg, err
	}
	if params.NClasses != 0 {
		cfg.NClasses = params.NClasses
	}
	if params.MaxNodes != 0 {
		cfg.MaxNodes = params.MaxNodes
	}
	if params.MinThreshold != nil {
		cfg.MinThreshold = *params.MinThreshold
	}
	if params.NaNValue != nil {
		cfg.NaNValue = *params.NaNValue
	}
	cfg.Workers = params.Workers
	return cfg, nil
}

//GraphParams select where and how the fitted tree is drawn.
type GraphParams struct {
	FigureType    string `json:"figure_type" yaml:"figure_type"`
	GraphFilename string `json:"graph_filename" yaml:"graph_filename"`
}

type TrainConfig struct {
	FileNameTrainFeatures string      `json:"filename_train_features" yaml:"filename_train_features"`
	FileNameTrainLabels   string      `json:"filename_train_labels" yaml:"filename_train_labels"`
	FileNameTestFeatures  string      `json:"filename_test_features" yaml:"filename_test_features"`
	FileNamePredictions   string      `json:"filename_predictions" yaml:"filename_predictions"`
	FileNameLeaves        string      `json:"filename_leaves" yaml:"filename_leaves"`
	Tree                  TreeParams  `json:"tree" yaml:"tree"`
	Graph                 GraphParams `json:"graph" yaml:"graph"`
}

type ScanConfig struct {
	FileNameGrid        string      `json:"filename_grid" yaml:"filename_grid"`
	FileNameLabels      string      `json:"filename_labels" yaml:"filename_labels"`
	FileNamePredictions string      `json:"filename_predictions" yaml:"filename_predictions"`
	KernelWidth         int         `json:"kernel_width" yaml:"kernel_width"`
	KernelHeight        int         `json:"kernel_height" yaml:"kernel_height"`
	NForests            int         `json:"n_forests" yaml:"n_forests"`
	Tree                TreeParams  `json:"tree" yaml:"tree"`
	Graph               GraphParams `json:"graph" yaml:"graph"`
}
