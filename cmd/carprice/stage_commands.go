package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"carprice/internal/dataset"
	"carprice/internal/features"
	"carprice/internal/normalize"
	"carprice/internal/pipeline"
	"carprice/internal/registry"
	"carprice/internal/training"
)

// runStage executes a single batch stage with logging and the shared
// batch-failure convention: log at error level, then return the error so
// main prints a short message and exits non-zero.
func runStage(cmd *cobra.Command, logger *slog.Logger, stage pipeline.Stage) error {
	if err := stage.Run(cmd.Context()); err != nil {
		logger.Error("stage failed",
			slog.String("stage", stage.Name()),
			slog.Any("error", err))
		return err
	}
	return nil
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Clean the raw train/test listings into the interim schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := runStage(cmd, logger, normalize.NewStage(cfg, logger)); err != nil {
				return err
			}
			return printSplitSummary(cmd, map[string]string{
				"train": cfg.InterimTrainPath(),
				"test":  cfg.InterimTestPath(),
			})
		},
	}
}

// printSplitSummary renders a row/column count table for the written splits.
func printSplitSummary(cmd *cobra.Command, splits map[string]string) error {
	names := make([]string, 0, len(splits))
	for name := range splits {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		frame, err := dataset.ReadCSV(splits[name])
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(frame.Len()),
			strconv.Itoa(len(frame.Columns())),
			splits[name],
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Split", "Rows", "Columns", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func newFeaturesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Fit the feature transformer and write the processed matrices",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			params, err := ctx.ensureParams()
			if err != nil {
				return err
			}
			return runStage(cmd, logger, features.NewStage(cfg, params, logger))
		},
	}
}

func newTrainCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Fit the regression forest and register a new model version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := registry.Open(cfg.RegistryPath())
			if err != nil {
				return err
			}
			defer store.Close()
			return runStage(cmd, logger, training.NewStage(cfg, store, logger))
		},
	}
}

func newPipelineCommand(ctx *commandContext) *cobra.Command {
	pipelineCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Operate the batch pipeline",
	}
	pipelineCmd.AddCommand(newPipelineRunCommand(ctx))
	return pipelineCmd
}

func newPipelineRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run normalize, features, and train in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			params, err := ctx.ensureParams()
			if err != nil {
				return err
			}
			store, err := registry.Open(cfg.RegistryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runner := pipeline.NewRunner(cfg.PipelineLockPath(), logger,
				normalize.NewStage(cfg, logger),
				features.NewStage(cfg, params, logger),
				training.NewStage(cfg, store, logger),
			)
			if err := runner.Run(cmd.Context()); err != nil {
				logger.Error("pipeline failed", slog.Any("error", err))
				return err
			}
			return nil
		},
	}
}
