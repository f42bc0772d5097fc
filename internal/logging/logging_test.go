package logging_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carprice/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(data)
}

func TestConsoleFormatIncludesComponentAndAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithComponent(logger, "train").Info("model registered",
		slog.Int("version", 3),
		slog.String("name", "carprice-forest"))

	line := readLog(t, path)
	if !strings.Contains(line, "INFO [train] model registered") {
		t.Fatalf("unexpected line format: %q", line)
	}
	// Attrs render sorted as key=value.
	if !strings.Contains(line, "name=carprice-forest version=3") {
		t.Fatalf("attrs missing or unsorted: %q", line)
	}
	// A file writer is never a terminal, so no color codes appear.
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("ANSI codes in non-terminal output: %q", line)
	}
}

func TestConsoleFormatHonorsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	out := readLog(t, path)
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record not suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormatUsesStableKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Error("stage failed", slog.String("stage", "features"))

	var record map[string]any
	if err := json.Unmarshal([]byte(readLog(t, path)), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "stage failed" {
		t.Fatalf("msg key %v", record["msg"])
	}
	if record["level"] != "error" {
		t.Fatalf("level key %v", record["level"])
	}
	if record["stage"] != "features" {
		t.Fatalf("stage attr %v", record["stage"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("ts key missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{"stdout"}})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not enable error records")
	}
}
