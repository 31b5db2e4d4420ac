package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type rootCmdConfig struct {
	verbose    bool
	logFile    string
	logMaxSize int
	memprofile string
	logger     *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

//run executes the command line and flushes the logger whether or not the command failed.
func run(ctx context.Context, args []string) error {
	cmd := cliParser()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		zap.L().Error("command failed", zap.Error(err))
	}
	_ = zap.L().Sync()
	return err
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "scythe",
		Short: "scythe grows ID3 decision trees",
		Long: `Grow decision trees from .npy matrices, predict with them and draw them.
The scan command grows a tree on the sub-windows of sequences or images.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.newLogger()
			if err != nil {
				return err
			}
			config.logger = logger
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return config.writeMemProfile()
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&config.verbose, "verbose", "v", false, "log every split")
	flags.StringVar(&config.logFile, "log-file", "", "also write JSON logs to this file, rotated")
	flags.IntVar(&config.logMaxSize, "log-max-size", 100, "size in megabytes at which the log file is rotated")
	flags.StringVar(&config.memprofile, "memprofile", "", "write memory profile to `file`")
	rootCmd.AddCommand(fitCmd(config), scanCmd(config), graphCmd(config))
	return rootCmd
}

func (config *rootCmdConfig) newLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if config.verbose {
		level = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(os.Stderr), level),
	}
	if config.logFile != "" {
		if config.logMaxSize <= 0 {
			return nil, errors.Errorf("log-max-size must be positive, got %d", config.logMaxSize)
		}
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.logFile,
			MaxSize:    config.logMaxSize,
			MaxBackups: 3,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rotated, level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

func (config *rootCmdConfig) writeMemProfile() error {
	if config.memprofile == "" {
		return nil
	}
	f, err := os.Create(config.memprofile)
	if err != nil {
		return errors.Wrap(err, "could not create memory profile")
	}
	defer func() { _ = f.Close() }()
	runtime.GC()
	return errors.Wrap(pprof.WriteHeapProfile(f), "could not write memory profile")
}
