package main

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

type fitCmdConfig struct {
	*rootCmdConfig
	configFile string
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &fitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Grow a tree and predict with it",
		Long: `Grow a tree from the training features and labels of the config, then write
its predictions for the test features (the training features when none are given).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var trainConfig TrainConfig
			if err := decodeConfig(config.configFile, &trainConfig); err != nil {
				return err
			}
			return fit(cmd.Context(), config.logger, trainConfig)
		},
	}
	cmd.Flags().StringVar(&config.configFile, "config", "fit_config.json", "a config file for the run of the program")
	return cmd
}

func fit(ctx context.Context, logger *zap.Logger, trainConfig TrainConfig) error {
	tree, err := growFromFiles(ctx, logger, trainConfig)
	if err != nil {
		return err
	}

	testFeatures := trainConfig.FileNameTrainFeatures
	if trainConfig.FileNameTestFeatures != "" {
		testFeatures = trainConfig.FileNameTestFeatures
	}
	features, err := readNpy(testFeatures)
	if err != nil {
		return err
	}
	if trainConfig.FileNamePredictions != "" {
		predictions, err := tree.PredictDense(features)
		if err != nil {
			return err
		}
		if err := writeNpy(trainConfig.FileNamePredictions, predictions); err != nil {
			return err
		}
		logger.Info("predictions written", zap.String("file", trainConfig.FileNamePredictions))
	}
	if trainConfig.FileNameLeaves != "" {
		leaves, err := tree.Apply(id3.NewDatasetFromDense(features))
		if err != nil {
			return err
		}
		column := mat.NewDense(len(leaves), 1, nil)
		for k, leaf := range leaves {
			column.Set(k, 0, float64(leaf))
		}
		if err := writeNpy(trainConfig.FileNameLeaves, column); err != nil {
			return err
		}
	}
	return renderTree(logger, tree, trainConfig.Graph)
}

func growFromFiles(ctx context.Context, logger *zap.Logger, trainConfig TrainConfig) (*id3.Tree, error) {
	logger.Info("load train", zap.String("features", trainConfig.FileNameTrainFeatures))
	features, err := readNpy(trainConfig.FileNameTrainFeatures)
	if err != nil {
		return nil, err
	}
	labels, err := readLabels(trainConfig.FileNameTrainLabels)
	if err != nil {
		return nil, err
	}
	cfg, err := trainConfig.Tree.treeConfig()
	if err != nil {
		return nil, err
	}
	ds := id3.NewDatasetFromDense(features)
	tree, err := id3.Grow(ctx, ds, labels, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "growing tree")
	}
	reportFit(logger, tree, ds, labels)
	return tree, nil
}

//reportFit logs the size of the tree and its error on the training set.
func reportFit(logger *zap.Logger, tree *id3.Tree, ds id3.Dataset, labels []float64) {
	fields := []zap.Field{
		zap.Int("nodes", len(tree.Nodes)),
		zap.Int("leaves", tree.NumLeaves()),
		zap.Int("depth", tree.Depth()),
	}
	switch tree.Config.Task {
	case id3.ClassificationTask:
		frequencies, err := tree.Classify(ds)
		if err != nil {
			logger.Warn("cannot score training set", zap.Error(err))
			break
		}
		hits := 0
		for k, y := range labels {
			if floats.MaxIdx(frequencies[k*tree.NClasses:(k+1)*tree.NClasses]) == int(y) {
				hits++
			}
		}
		fields = append(fields, zap.Float64("train_accuracy", float64(hits)/float64(len(labels))))
	case id3.RegressionTask:
		values, err := tree.Regress(ds)
		if err != nil {
			logger.Warn("cannot score training set", zap.Error(err))
			break
		}
		fields = append(fields, zap.Float64("train_rmse", floats.Distance(values, labels, 2)/math.Sqrt(float64(len(labels)))))
	}
	logger.Info("tree fitted", fields...)
}

func renderTree(logger *zap.Logger, tree *id3.Tree, params GraphParams) error {
	if params.GraphFilename == "" {
		return nil
	}
	figureType := params.FigureType
	if figureType == "" {
		figureType = "svg"
	}
	if err := tree.RenderTree(params.GraphFilename, figureType); err != nil {
		return err
	}
	logger.Info("tree drawn", zap.String("file", params.GraphFilename))
	return nil
}
