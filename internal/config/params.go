package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Target identifies the label column the feature stage splits away from the
// feature matrix.
type Target struct {
	Column string `toml:"column"`
}

// Params is the shared parameters document consumed by the batch stages.
type Params struct {
	Target Target `toml:"target"`
}

// LoadParams reads and validates the parameters file. A missing file or an
// empty target column is a configuration error fatal to the run.
func LoadParams(path string) (*Params, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open params file: %w", err)
	}
	defer file.Close()

	var params Params
	if err := toml.NewDecoder(file).Decode(&params); err != nil {
		return nil, fmt.Errorf("parse params file %s: %w", path, err)
	}
	if params.Target.Column == "" {
		return nil, errors.New("params: target.column must be set")
	}
	return &params, nil
}
