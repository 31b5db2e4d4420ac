package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type graphCmdConfig struct {
	*rootCmdConfig
	configFile string
}

func graphCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &graphCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Grow a tree and draw it",
		Long:  `Grow a tree from the training files of a fit config and only render it as png, svg or jpg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var trainConfig TrainConfig
			if err := decodeConfig(config.configFile, &trainConfig); err != nil {
				return err
			}
			if trainConfig.Graph.GraphFilename == "" {
				return errors.New("graph.graph_filename is required")
			}
			tree, err := growFromFiles(cmd.Context(), config.logger, trainConfig)
			if err != nil {
				return err
			}
			return renderTree(config.logger, tree, trainConfig.Graph)
		},
	}
	cmd.Flags().StringVar(&config.configFile, "config", "graph_config.json", "a config file for the run of the program")
	return cmd
}
