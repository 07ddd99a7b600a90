package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/LazyFu/auto-subtitle/internal/config"
	"github.com/LazyFu/auto-subtitle/internal/logging"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// logger builds the command logger from config; --verbose forces debug.
func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	if cfg != nil && c.verbose() {
		clone := *cfg
		clone.Logging.Level = "debug"
		cfg = &clone
	}
	return logging.NewFromConfig(cfg)
}

// quietLogger is the logger for read-only commands, which only surface
// warnings unless --verbose is set.
func (c *commandContext) quietLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := c.logger(cfg)
	if err != nil || c.verbose() {
		return logger, err
	}
	return logging.WithLevelOverride(logger, slog.LevelWarn), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func printWarnings(w io.Writer, warnings []string, colorize bool) {
	for _, warning := range warnings {
		fmt.Fprintln(w, renderStatusLine("Warning", statusWarn, warning, colorize))
	}
}

