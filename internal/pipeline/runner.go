package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// Stage is one batch step of the offline workflow. Stages run sequentially:
// each reads the fixed paths the previous stage wrote and overwrites its own
// outputs on rerun.
type Stage interface {
	Name() string
	Run(context.Context) error
}

// Runner executes stages in order under a file lock so overlapping pipeline
// invocations cannot interleave artifact writes.
type Runner struct {
	lockPath string
	logger   *slog.Logger
	stages   []Stage
}

// NewRunner builds a runner over the given stages.
func NewRunner(lockPath string, logger *slog.Logger, stages ...Stage) *Runner {
	return &Runner{lockPath: lockPath, logger: logger, stages: stages}
}

// Run acquires the pipeline lock and executes every stage in order. The
// first failing stage aborts the run; later stages do not execute.
func (r *Runner) Run(ctx context.Context) error {
	lock := flock.New(r.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: lock held at %s", ErrLocked, r.lockPath)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		started := time.Now()
		r.logger.Info("stage starting", slog.String("stage", stage.Name()))
		if err := stage.Run(ctx); err != nil {
			r.logger.Error("stage failed",
				slog.String("stage", stage.Name()),
				slog.Duration("elapsed", time.Since(started)),
				slog.Any("error", err))
			return err
		}
		r.logger.Info("stage complete",
			slog.String("stage", stage.Name()),
			slog.Duration("elapsed", time.Since(started)))
	}
	return nil
}
