package testsupport

import (
	"path/filepath"
	"testing"

	"carprice/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ModelsDir = filepath.Join(base, "models")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HTTPBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithModelName sets the registry model name on the test config.
func WithModelName(name string) ConfigOption {
	return func(c *config.Config) {
		c.Registry.ModelName = name
	}
}
