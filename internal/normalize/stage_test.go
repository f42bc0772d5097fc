package normalize_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"carprice/internal/dataset"
	"carprice/internal/logging"
	"carprice/internal/normalize"
	"carprice/internal/pipeline"
	"carprice/internal/testsupport"
)

const rawCSV = `Car Name,Price,Registration Number,Insurance,Service Record,Registration Certificate,Mileage,Body Color
Maruti Eeco,500000,KA01AB1234,No Current Insurance,No Service Record,Available,40000,White
Honda City,800000,DL05XY0002,Valid Until [date],Full Service History,Not Available,25000,Blue
`

func TestStageWritesInterimSplits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.RawTrainPath(), rawCSV)
	testsupport.WriteFile(t, cfg.RawTestPath(), rawCSV)

	stage := normalize.NewStage(cfg, logging.NewNop())
	if err := stage.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for _, path := range []string{cfg.InterimTrainPath(), cfg.InterimTestPath()} {
		frame, err := dataset.ReadCSV(path)
		if err != nil {
			t.Fatalf("ReadCSV(%s) returned error: %v", path, err)
		}
		if frame.Len() != 2 {
			t.Fatalf("%s has %d rows, want 2", path, frame.Len())
		}
		if frame.Has(normalize.ColRegistration) {
			t.Fatalf("%s still carries the registration column", path)
		}
		price, err := frame.Cell(0, normalize.ColPrice)
		if err != nil {
			t.Fatalf("Cell returned error: %v", err)
		}
		if price != "50000" {
			t.Fatalf("%s row 0 price %q, want corrected 50000", path, price)
		}
	}
}

func TestStageFailsWhenRawSplitMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.RawTrainPath(), rawCSV)
	// No raw test split.

	stage := normalize.NewStage(cfg, logging.NewNop())
	err := stage.Run(context.Background())
	if !errors.Is(err, pipeline.ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
	// Neither interim output is committed on a failed run.
	if _, statErr := os.Stat(cfg.InterimTrainPath()); !os.IsNotExist(statErr) {
		t.Fatal("failed run committed a partial interim train split")
	}
}
