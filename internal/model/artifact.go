package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"carprice/internal/fileutil"
)

const artifactFormatVersion = 1

// Artifact wraps a fitted regressor with the metadata the registry records
// about the training run that produced it.
type Artifact struct {
	FormatVersion int
	CreatedAt     time.Time
	RunID         string
	Forest        *ForestRegressor
}

// SaveArtifact serializes the fitted forest to path via a temp-file rename.
func SaveArtifact(path string, forest *ForestRegressor, runID string) error {
	artifact := Artifact{
		FormatVersion: artifactFormatVersion,
		CreatedAt:     time.Now().UTC(),
		RunID:         runID,
		Forest:        forest,
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		if err := gob.NewEncoder(w).Encode(&artifact); err != nil {
			return fmt.Errorf("encode model artifact: %w", err)
		}
		return nil
	})
}

// LoadArtifact reads a previously saved model bundle.
func LoadArtifact(path string) (*Artifact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer file.Close()

	var artifact Artifact
	if err := gob.NewDecoder(file).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	if artifact.FormatVersion != artifactFormatVersion {
		return nil, fmt.Errorf("model artifact %s has format version %d, expected %d",
			path, artifact.FormatVersion, artifactFormatVersion)
	}
	if artifact.Forest == nil {
		return nil, fmt.Errorf("model artifact %s has no forest payload", path)
	}
	return &artifact, nil
}
