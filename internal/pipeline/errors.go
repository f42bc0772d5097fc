package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy shared by the batch stages: configuration problems stop
// the process before any stage runs, data-shape problems abort the current
// batch with nothing committed.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrData          = errors.New("data error")
	ErrLocked        = errors.New("pipeline already running")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation string, err error) error {
	detail := buildDetail(stage, operation)
	if marker == nil {
		marker = ErrData
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
