package features

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"carprice/internal/fileutil"
)

// artifactFormatVersion guards against loading bundles written by an
// incompatible build.
const artifactFormatVersion = 1

// Artifact wraps the fitted transformer with enough metadata to trace it
// back to the training run that produced it.
type Artifact struct {
	FormatVersion int
	CreatedAt     time.Time
	RunID         string
	Transformer   *Transformer
}

// SaveArtifact serializes the fitted transformer to path via a temp-file
// rename so a crashed run never leaves a truncated artifact behind.
func SaveArtifact(path string, t *Transformer, runID string) error {
	artifact := Artifact{
		FormatVersion: artifactFormatVersion,
		CreatedAt:     time.Now().UTC(),
		RunID:         runID,
		Transformer:   t,
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		if err := gob.NewEncoder(w).Encode(&artifact); err != nil {
			return fmt.Errorf("encode transformer artifact: %w", err)
		}
		return nil
	})
}

// LoadArtifact reads a previously saved transformer bundle.
func LoadArtifact(path string) (*Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transformer artifact: %w", err)
	}
	defer file.Close()

	var artifact Artifact
	if err := gob.NewDecoder(file).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode transformer artifact %s: %w", path, err)
	}
	if artifact.FormatVersion != artifactFormatVersion {
		return nil, fmt.Errorf("transformer artifact %s has format version %d, expected %d",
			path, artifact.FormatVersion, artifactFormatVersion)
	}
	if artifact.Transformer == nil {
		return nil, fmt.Errorf("transformer artifact %s has no transformer payload", path)
	}
	return &artifact, nil
}
