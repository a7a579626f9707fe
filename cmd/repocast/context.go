package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"repocast/internal/config"
	"repocast/internal/gateway"
	"repocast/internal/library"
	"repocast/internal/logging"
)

// commandContext lazily builds the shared collaborators the subcommands use.
// Everything is constructed at most once per invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// ensureLogger builds the stderr-plus-file logger used by plain commands.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// fileLogger builds a logger that writes only under the log directory, for
// invocations where a full-screen UI owns the terminal.
func (c *commandContext) fileLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFileLogger(cfg)
}

// openStore opens the episode library and takes the directory lock. The
// caller releases both via the returned cleanup.
func (c *commandContext) openStore() (*library.Store, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	lock, err := library.AcquireLock(cfg.Paths.LibraryDir)
	if err != nil {
		return nil, nil, err
	}

	store, err := library.Open(cfg.Paths.LibraryDir)
	if err != nil {
		_ = lock.Release()
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		_ = lock.Release()
	}
	return store, cleanup, nil
}

func (c *commandContext) gatewayClient() (*gateway.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return gateway.New(cfg.Gateway.BaseURL, gateway.WithTimeout(cfg.GatewayTimeout()))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
