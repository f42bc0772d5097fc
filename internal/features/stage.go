package features

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"carprice/internal/config"
	"carprice/internal/dataset"
	"carprice/internal/pipeline"
)

// Stage fits the transformer on the interim training split, transforms both
// splits, and persists the processed matrices plus the fitted artifact.
type Stage struct {
	cfg    *config.Config
	params *config.Params
	logger *slog.Logger
}

// NewStage wires the feature pipeline builder into the batch pipeline.
func NewStage(cfg *config.Config, params *config.Params, logger *slog.Logger) *Stage {
	return &Stage{cfg: cfg, params: params, logger: logger.With(slog.String("component", "features"))}
}

func (s *Stage) Name() string { return "features" }

func (s *Stage) Run(ctx context.Context) error {
	target := s.params.Target.Column

	trainX, trainY, err := s.loadSplit(s.cfg.InterimTrainPath(), target)
	if err != nil {
		return err
	}
	testX, testY, err := s.loadSplit(s.cfg.InterimTestPath(), target)
	if err != nil {
		return err
	}

	// Fit happens exactly once, on training features. Both splits are then
	// transformed with the same fitted statistics.
	transformer, err := Fit(trainX)
	if err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "fit transformer", err)
	}
	s.logger.Info("transformer fitted",
		slog.Int("numeric", len(transformer.Numeric)),
		slog.Int("categorical", len(transformer.Categorical)),
		slog.Int("width", transformer.Width()))

	trainMatrix, err := transformer.Transform(trainX)
	if err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "transform train", err)
	}
	testMatrix, err := transformer.Transform(testX)
	if err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "transform test", err)
	}

	if err := s.writeMatrix(trainMatrix, trainY, target, transformer, s.cfg.ProcessedTrainPath()); err != nil {
		return err
	}
	if err := s.writeMatrix(testMatrix, testY, target, transformer, s.cfg.ProcessedTestPath()); err != nil {
		return err
	}

	runID := uuid.NewString()
	if err := SaveArtifact(s.cfg.TransformerPath(), transformer, runID); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "persist transformer", err)
	}
	s.logger.Info("transformer artifact written",
		slog.String("path", s.cfg.TransformerPath()),
		slog.String("run_id", runID))
	return nil
}

// loadSplit reads an interim CSV and separates the target column from the
// feature frame.
func (s *Stage) loadSplit(path, target string) (*dataset.Frame, []float64, error) {
	frame, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "load "+path, err)
	}
	if !frame.Has(target) {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "split "+path,
			fmt.Errorf("target column %q not present", target))
	}
	y, err := frame.Floats(target)
	if err != nil {
		return nil, nil, pipeline.Wrap(pipeline.ErrData, s.Name(), "parse target", err)
	}
	frame.DropColumns(target)
	return frame, y, nil
}

// writeMatrix stores a transformed split as CSV: feature columns in
// transform order, the target as the last column.
func (s *Stage) writeMatrix(matrix [][]float64, y []float64, target string, t *Transformer, path string) error {
	columns := append(t.FeatureNames(), target)
	out := dataset.New(columns...)
	for i, row := range matrix {
		cells := make([]string, 0, len(row)+1)
		for _, v := range row {
			cells = append(cells, strconv.FormatFloat(v, 'g', -1, 64))
		}
		cells = append(cells, strconv.FormatFloat(y[i], 'g', -1, 64))
		if err := out.AppendRow(cells); err != nil {
			return pipeline.Wrap(pipeline.ErrData, s.Name(), "assemble "+path, err)
		}
	}
	if err := dataset.WriteCSV(out, path); err != nil {
		return pipeline.Wrap(pipeline.ErrData, s.Name(), "write "+path, err)
	}
	return nil
}
