package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// RegistryTokenEnv names the environment variable carrying the model
// registry credential. The serving daemon refuses to start without it.
const RegistryTokenEnv = "CARPRICE_REGISTRY_TOKEN"

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	ModelsDir string `toml:"models_dir"`
	LogDir    string `toml:"log_dir"`
	HTTPBind  string `toml:"http_bind"`
}

// Registry contains model registry configuration.
type Registry struct {
	ModelName string `toml:"model_name"`
}

// Pipeline contains batch pipeline configuration.
type Pipeline struct {
	ParamsFile string `toml:"params_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the car price workflow.
//
// Configuration sections by subsystem:
//   - Paths: dataset/artifact directories and the HTTP bind address
//   - Registry: model registry settings used by training and serving
//   - Pipeline: batch pipeline inputs such as the parameters file
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Registry Registry `toml:"registry"`
	Pipeline Pipeline `toml:"pipeline"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/carprice/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A .env file in the
// working directory is honored for the registry token.
func Load(path string) (*Config, string, bool, error) {
	// Best effort; a missing .env simply means the variable must come
	// from the real environment.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("carprice.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline and daemon write to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.RawDir(), c.InterimDir(), c.ProcessedDir(),
		c.Paths.ModelsDir, c.Paths.LogDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RawDir is where the source train/test CSVs live.
func (c *Config) RawDir() string { return filepath.Join(c.Paths.DataDir, "raw") }

// InterimDir holds the normalized CSVs between the normalize and feature
// stages.
func (c *Config) InterimDir() string { return filepath.Join(c.Paths.DataDir, "interim") }

// ProcessedDir holds the fully transformed feature matrices.
func (c *Config) ProcessedDir() string { return filepath.Join(c.Paths.DataDir, "processed") }

// RawTrainPath and friends name the fixed relative artifact locations.
// Every stage overwrites its outputs on rerun.
func (c *Config) RawTrainPath() string { return filepath.Join(c.RawDir(), "train.csv") }

func (c *Config) RawTestPath() string { return filepath.Join(c.RawDir(), "test.csv") }

func (c *Config) InterimTrainPath() string {
	return filepath.Join(c.InterimDir(), "train_processed.csv")
}

func (c *Config) InterimTestPath() string {
	return filepath.Join(c.InterimDir(), "test_processed.csv")
}

func (c *Config) ProcessedTrainPath() string {
	return filepath.Join(c.ProcessedDir(), "train_processed.csv")
}

func (c *Config) ProcessedTestPath() string {
	return filepath.Join(c.ProcessedDir(), "test_processed.csv")
}

// TransformerPath is the persisted fitted transformer artifact.
func (c *Config) TransformerPath() string {
	return filepath.Join(c.Paths.ModelsDir, "transformer.bin")
}

// ModelPath is the persisted fitted regressor artifact.
func (c *Config) ModelPath() string { return filepath.Join(c.Paths.ModelsDir, "model.bin") }

// RegistryPath is the SQLite model registry database.
func (c *Config) RegistryPath() string { return filepath.Join(c.Paths.ModelsDir, "registry.db") }

// PipelineLockPath guards the batch pipeline against overlapping runs.
func (c *Config) PipelineLockPath() string {
	return filepath.Join(c.Paths.DataDir, ".pipeline.lock")
}

// RegistryToken reads the registry credential from the environment.
func RegistryToken() string { return os.Getenv(RegistryTokenEnv) }

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string { return sampleConfig }
