package main

import (
	"log/slog"

	"carprice/internal/config"
	"carprice/internal/logging"
)

// commandContext lazily loads configuration and logging for subcommands so
// commands like "config init" can run without a valid config file.
type commandContext struct {
	configFlag *string

	cfg    *config.Config
	logger *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, "carprice")
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) ensureParams() (*config.Params, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return config.LoadParams(cfg.Pipeline.ParamsFile)
}
