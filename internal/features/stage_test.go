package features_test

import (
	"context"
	"errors"
	"testing"

	"carprice/internal/config"
	"carprice/internal/dataset"
	"carprice/internal/features"
	"carprice/internal/logging"
	"carprice/internal/pipeline"
	"carprice/internal/testsupport"
)

const interimCSV = `Car Name,Total_KM_Run,Price
Maruti Swift,30000,550000
Honda City,60000,420000
Maruti Baleno,15000,700000
`

func TestStageTransformsBothSplitsAndPersistsTransformer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.InterimTrainPath(), interimCSV)
	testsupport.WriteFile(t, cfg.InterimTestPath(), interimCSV)
	params := &config.Params{Target: config.Target{Column: "Price"}}

	stage := features.NewStage(cfg, params, logging.NewNop())
	if err := stage.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	artifact, err := features.LoadArtifact(cfg.TransformerPath())
	if err != nil {
		t.Fatalf("LoadArtifact returned error: %v", err)
	}
	width := artifact.Transformer.Width()
	if width == 0 {
		t.Fatal("persisted transformer has no features")
	}

	for _, path := range []string{cfg.ProcessedTrainPath(), cfg.ProcessedTestPath()} {
		frame, err := dataset.ReadCSV(path)
		if err != nil {
			t.Fatalf("ReadCSV(%s) returned error: %v", path, err)
		}
		if frame.Len() != 3 {
			t.Fatalf("%s has %d rows, want 3", path, frame.Len())
		}
		// Feature columns plus the trailing target.
		if got := len(frame.Columns()); got != width+1 {
			t.Fatalf("%s has %d columns, want %d", path, got, width+1)
		}
		columns := frame.Columns()
		if columns[len(columns)-1] != "Price" {
			t.Fatalf("%s last column %q, want the target", path, columns[len(columns)-1])
		}
	}
}

func TestStageFailsWhenTargetColumnMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.InterimTrainPath(), interimCSV)
	testsupport.WriteFile(t, cfg.InterimTestPath(), interimCSV)
	params := &config.Params{Target: config.Target{Column: "Resale Value"}}

	stage := features.NewStage(cfg, params, logging.NewNop())
	if err := stage.Run(context.Background()); !errors.Is(err, pipeline.ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
}
