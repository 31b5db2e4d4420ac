package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/tarstars/scythe/golang/scythe/id3"
	"github.com/tarstars/scythe/golang/scythe/scanning"
)

type scanCmdConfig struct {
	*rootCmdConfig
	configFile string
}

func scanCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &scanCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Grow a tree on the sub-windows of sequences or images",
		Long: `Slide a kernel over every raw instance of a 2-D (sequences) or 3-D (images)
grid, grow a tree on the windows and write one prediction per window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var scanConfig ScanConfig
			if err := decodeConfig(config.configFile, &scanConfig); err != nil {
				return err
			}
			return scan(cmd.Context(), config.logger, scanConfig)
		},
	}
	cmd.Flags().StringVar(&config.configFile, "config", "scan_config.json", "a config file for the run of the program")
	return cmd
}

func newLayer(scanConfig ScanConfig, rank int) (scanning.Layer, error) {
	treeConfig, err := scanConfig.Tree.treeConfig()
	if err != nil {
		return nil, err
	}
	layerConfig := scanning.LayerConfig{NForests: scanConfig.NForests, Tree: treeConfig}
	if layerConfig.NForests == 0 {
		layerConfig.NForests = 1
	}
	switch rank {
	case 2:
		layer, err := scanning.NewMultiGrainedScanner1D(layerConfig, scanConfig.KernelWidth)
		if err != nil {
			return nil, err
		}
		return layer, nil
	case 3:
		layer, err := scanning.NewMultiGrainedScanner2D(layerConfig, scanConfig.KernelWidth, scanConfig.KernelHeight)
		if err != nil {
			return nil, err
		}
		return layer, nil
	}
	return nil, errors.Wrapf(id3.ErrPrecondition, "grid must have rank 2 or 3, got %d", rank)
}

func scan(ctx context.Context, logger *zap.Logger, scanConfig ScanConfig) error {
	raw, err := readTensor(scanConfig.FileNameGrid)
	if err != nil {
		return err
	}
	grid, err := scanning.NewGrid(raw)
	if err != nil {
		return err
	}
	labels, err := readLabels(scanConfig.FileNameLabels)
	if err != nil {
		return err
	}
	layer, err := newLayer(scanConfig, grid.Rank())
	if err != nil {
		return err
	}

	vd, err := layer.Virtualize(grid)
	if err != nil {
		return err
	}
	targets, err := layer.VirtualizeTargets(labels)
	if err != nil {
		return err
	}
	memory, err := layer.RequiredMemorySize()
	if err != nil {
		return err
	}
	nVirtualFeatures, err := layer.NumVirtualFeatures()
	if err != nil {
		return err
	}
	logger.Info("grid scanned",
		zap.String("layer", layer.Type()),
		zap.Stringer("kind", grid.Kind()),
		zap.Int("virtual_instances", vd.NumInstances()),
		zap.Int("window_features", vd.NumFeatures()),
		zap.Int("dataset_memory", vd.RequiredMemorySize()),
		zap.Int("layer_memory", memory),
		zap.Int("virtual_features", nVirtualFeatures))

	ds, err := scanning.Materialize(vd)
	if err != nil {
		return err
	}
	virtualLabels := targets.Materialize()
	cfg, err := scanConfig.Tree.treeConfig()
	if err != nil {
		return err
	}
	tree, err := id3.Grow(ctx, ds, virtualLabels, cfg)
	if err != nil {
		return errors.Wrap(err, "growing tree on windows")
	}
	reportFit(logger, tree, ds, virtualLabels)

	if scanConfig.FileNamePredictions != "" {
		predictions, err := tree.PredictDense(mat.NewDense(ds.NInstances, ds.NFeatures, ds.Data))
		if err != nil {
			return err
		}
		if err := writeNpy(scanConfig.FileNamePredictions, predictions); err != nil {
			return err
		}
	}
	return renderTree(logger, tree, scanConfig.Graph)
}
