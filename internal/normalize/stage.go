package normalize

import (
	"context"
	"log/slog"

	"carprice/internal/config"
	"carprice/internal/dataset"
	"carprice/internal/pipeline"
)

// Stage normalizes the raw train and test CSVs into the interim schema.
type Stage struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewStage wires the normalizer into the batch pipeline.
func NewStage(cfg *config.Config, logger *slog.Logger) *Stage {
	return &Stage{cfg: cfg, logger: logger.With(slog.String("component", "normalize"))}
}

func (s *Stage) Name() string { return "normalize" }

// Run processes both splits. Any failure aborts before either output is
// replaced, so a partial rerun never mixes schema generations.
func (s *Stage) Run(ctx context.Context) error {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return pipeline.Wrap(pipeline.ErrConfiguration, s.Name(), "ensure directories", err)
	}

	train, err := s.normalizeFile(s.cfg.RawTrainPath())
	if err != nil {
		return err
	}
	test, err := s.normalizeFile(s.cfg.RawTestPath())
	if err != nil {
		return err
	}

	if err := dataset.WriteCSV(train, s.cfg.InterimTrainPath()); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "write interim train", err)
	}
	if err := dataset.WriteCSV(test, s.cfg.InterimTestPath()); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "write interim test", err)
	}

	s.logger.Info("interim datasets written",
		slog.String("dir", s.cfg.InterimDir()),
		slog.Int("train_rows", train.Len()),
		slog.Int("test_rows", test.Len()))
	return nil
}

func (s *Stage) normalizeFile(path string) (*dataset.Frame, error) {
	frame, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "load "+path, err)
	}
	normalized, err := Apply(frame, s.logger)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "normalize "+path, err)
	}
	return normalized, nil
}
