package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeManifest()
	c.normalizeHook()
	return c.normalizeLogging()
}

func (c *Config) normalizeManifest() {
	c.Manifest.YAMLName = strings.TrimSpace(c.Manifest.YAMLName)
	if c.Manifest.YAMLName == "" {
		c.Manifest.YAMLName = defaultYAMLName
	}
	c.Manifest.JSONName = strings.TrimSpace(c.Manifest.JSONName)
	if c.Manifest.JSONName == "" {
		c.Manifest.JSONName = defaultJSONName
	}
	if c.Manifest.Indent == 0 {
		c.Manifest.Indent = defaultIndent
	}
}

func (c *Config) normalizeHook() {
	if c.Hook.LockTimeoutSeconds == 0 {
		c.Hook.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	} else {
		c.Logging.File = ""
	}
	return nil
}
