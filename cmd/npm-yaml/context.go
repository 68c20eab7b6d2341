package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"npmyaml/internal/config"
	"npmyaml/internal/logging"
)

type commandContext struct {
	configFlag *string
	dirFlag    *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag, dirFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dirFlag:    dirFlag,
	}
}

// workingDir returns the --dir flag when set, else the process working directory.
func (c *commandContext) workingDir() (string, error) {
	if c.dirFlag != nil {
		if dir := strings.TrimSpace(*c.dirFlag); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				return "", fmt.Errorf("resolve directory: %w", err)
			}
			return expanded, nil
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	return dir, nil
}

func (c *commandContext) explicitConfigPath() string {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path
		}
	}
	return strings.TrimSpace(os.Getenv(envConfigPath))
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		dir, err := c.workingDir()
		if err != nil {
			c.configErr = err
			return
		}
		cfg, path, exists, err := config.Load(c.explicitConfigPath(), dir)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// hookConfig never fails: a broken configuration is reported through the
// returned logger and the defaults are used instead. The returned func
// releases the log file sink.
func (c *commandContext) hookConfig(stderr io.Writer) (*config.Config, *slog.Logger, func()) {
	cfg, err := c.ensureConfig()
	if err != nil {
		defaults := config.Default()
		logger, closeLog := newLogger(&defaults, stderr)
		logger.Warn("configuration unusable; using defaults", logging.Error(err))
		return &defaults, logger, closeLog
	}
	logger, closeLog := newLogger(cfg, stderr)
	return cfg, logger, closeLog
}

func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func()) {
	logger, closer, err := logging.NewFromConfig(cfg, stderr)
	if err == nil {
		return logger, func() { _ = closer.Close() }
	}
	fmt.Fprintf(stderr, "warn: log setup failed, falling back to console: %v\n", err)
	fallback, closer, err := logging.New(logging.Options{Format: config.LogFormatConsole, Level: "info", Output: stderr})
	if err != nil {
		return logging.NewNop(), func() {}
	}
	return fallback, func() { _ = closer.Close() }
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
