package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"carprice/internal/config"
	"carprice/internal/dataset"
	"carprice/internal/model"
	"carprice/internal/pipeline"
	"carprice/internal/registry"
)

// Stage fits the regressor on the processed training matrix, persists the
// artifact, and registers a new version in the model registry.
type Stage struct {
	cfg    *config.Config
	store  *registry.Store
	logger *slog.Logger
}

// NewStage wires the trainer into the batch pipeline.
func NewStage(cfg *config.Config, store *registry.Store, logger *slog.Logger) *Stage {
	return &Stage{cfg: cfg, store: store, logger: logger.With(slog.String("component", "train"))}
}

func (s *Stage) Name() string { return "train" }

func (s *Stage) Run(ctx context.Context) error {
	X, y, err := s.loadMatrix(s.cfg.ProcessedTrainPath())
	if err != nil {
		return err
	}

	forest := model.NewForestRegressor()
	if err := forest.Fit(X, y); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "fit forest", err)
	}
	s.logger.Info("forest fitted",
		slog.Int("rows", len(X)),
		slog.Int("trees", forest.NEstimators))

	runID := uuid.NewString()
	if err := model.SaveArtifact(s.cfg.ModelPath(), forest, runID); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "persist model", err)
	}

	version, err := s.store.Register(ctx, s.cfg.Registry.ModelName, runID, s.cfg.ModelPath())
	if err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "register model", err)
	}
	s.logger.Info("model registered",
		slog.String("name", version.Name),
		slog.Int("version", version.Version),
		slog.String("run_id", runID))
	return nil
}

// loadMatrix reads a processed CSV: every column but the last is a feature,
// the last is the target.
func (s *Stage) loadMatrix(path string) ([][]float64, []float64, error) {
	frame, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "load "+path, err)
	}
	columns := frame.Columns()
	if len(columns) < 2 {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "split "+path,
			fmt.Errorf("expected features plus target, found %d columns", len(columns)))
	}

	target := columns[len(columns)-1]
	y, err := frame.Floats(target)
	if err != nil {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "parse target", err)
	}

	X := make([][]float64, frame.Len())
	featureCols := columns[:len(columns)-1]
	parsed := make([][]float64, len(featureCols))
	for j, col := range featureCols {
		parsed[j], err = frame.Floats(col)
		if err != nil {
			return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "parse features", err)
		}
	}
	for i := range X {
		row := make([]float64, len(featureCols))
		for j := range featureCols {
			row[j] = parsed[j][i]
		}
		X[i] = row
	}
	return X, y, nil
}
