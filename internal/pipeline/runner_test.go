package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"carprice/internal/logging"
	"carprice/internal/pipeline"
)

type recordedStage struct {
	name string
	err  error
	log  *[]string
}

func (s *recordedStage) Name() string { return s.name }

func (s *recordedStage) Run(context.Context) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func TestRunnerExecutesStagesInOrder(t *testing.T) {
	var order []string
	runner := pipeline.NewRunner(
		filepath.Join(t.TempDir(), "lock"),
		logging.NewNop(),
		&recordedStage{name: "normalize", log: &order},
		&recordedStage{name: "features", log: &order},
		&recordedStage{name: "train", log: &order},
	)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []string{"normalize", "features", "train"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	var order []string
	boom := errors.New("bad batch")
	runner := pipeline.NewRunner(
		filepath.Join(t.TempDir(), "lock"),
		logging.NewNop(),
		&recordedStage{name: "normalize", log: &order},
		&recordedStage{name: "features", err: boom, log: &order},
		&recordedStage{name: "train", log: &order},
	)
	err := runner.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected stage error, got %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("stages after the failure still ran: %v", order)
	}
}

func TestRunnerHonorsCancelledContext(t *testing.T) {
	var order []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := pipeline.NewRunner(
		filepath.Join(t.TempDir(), "lock"),
		logging.NewNop(),
		&recordedStage{name: "normalize", log: &order},
	)
	if err := runner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("stage ran despite cancelled context: %v", order)
	}
}

func TestWrapTagsWithMarker(t *testing.T) {
	inner := errors.New("missing column")
	err := pipeline.Wrap(pipeline.ErrData, "normalize", "read train csv", inner)
	if !errors.Is(err, pipeline.ErrData) {
		t.Fatalf("error %v does not match ErrData", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("error %v does not wrap the cause", err)
	}

	err = pipeline.Wrap(nil, "", "", nil)
	if !errors.Is(err, pipeline.ErrData) {
		t.Fatalf("nil marker should default to ErrData, got %v", err)
	}
}
