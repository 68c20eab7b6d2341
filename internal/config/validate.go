package config

import (
	"errors"
	"fmt"
	"strings"

	"npmyaml/internal/manifest"
)

const maxIndent = 8

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateHook(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateManifest() error {
	for key, name := range map[string]string{
		"manifest.yaml_name": c.Manifest.YAMLName,
		"manifest.json_name": c.Manifest.JSONName,
	} {
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return fmt.Errorf("%s must be a plain file name, got %q", key, name)
		}
	}
	if c.Manifest.YAMLName == c.Manifest.JSONName {
		return errors.New("manifest.yaml_name and manifest.json_name must differ")
	}
	if format, ok := manifest.FormatForPath(c.Manifest.YAMLName); !ok || format != manifest.FormatYAML {
		return fmt.Errorf("manifest.yaml_name must end in .yml or .yaml, got %q", c.Manifest.YAMLName)
	}
	if format, ok := manifest.FormatForPath(c.Manifest.JSONName); !ok || format != manifest.FormatJSON {
		return fmt.Errorf("manifest.json_name must end in .json, got %q", c.Manifest.JSONName)
	}
	if c.Manifest.Indent < 1 || c.Manifest.Indent > maxIndent {
		return fmt.Errorf("manifest.indent must be between 1 and %d", maxIndent)
	}
	return nil
}

func (c *Config) validateHook() error {
	if c.Hook.LockTimeoutSeconds < 0 {
		return errors.New("hook.lock_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
