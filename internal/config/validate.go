package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRegistry(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ModelsDir) == "" {
		return errors.New("paths.models_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.HTTPBind); err != nil {
		return fmt.Errorf("paths.http_bind %q is not host:port: %w", c.Paths.HTTPBind, err)
	}
	return nil
}

func (c *Config) validateRegistry() error {
	if strings.TrimSpace(c.Registry.ModelName) == "" {
		return errors.New("registry.model_name must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

// ValidateServing enforces the extra requirements of the serving daemon: the
// registry credential must be present in the environment.
func (c *Config) ValidateServing() error {
	if strings.TrimSpace(RegistryToken()) == "" {
		return fmt.Errorf("%s environment variable is not set", RegistryTokenEnv)
	}
	return nil
}
