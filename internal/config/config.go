package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"npmyaml/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Manifest names the two manifest files and the output indentation.
type Manifest struct {
	YAMLName string `toml:"yaml_name"`
	JSONName string `toml:"json_name"`
	Indent   int    `toml:"indent"`
}

// Hook controls how long a run waits for a concurrent run in the same
// directory.
type Hook struct {
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for npm-yaml.
//
// Configuration sections:
//   - Manifest: file names and indentation of the converted output
//   - Hook: lock wait
//   - Logging: log format, level, and optional log file
type Config struct {
	Manifest Manifest `toml:"manifest"`
	Hook     Hook     `toml:"hook"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the user-level configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. An explicit path
// wins; otherwise .npm-yaml.toml in dir is tried before the user-level file.
// A missing file is not an error: defaults are returned with exists=false.
func Load(path, dir string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path, dir)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
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

// resolveConfigPath picks the first existing candidate. An explicit path is
// the only candidate when given; otherwise the project file is tried before
// the user-level file. With no match the last candidate is reported as absent.
func resolveConfigPath(path, dir string) (string, bool, error) {
	var candidates []string
	switch {
	case strings.TrimSpace(path) != "":
		candidates = []string{path}
	case strings.TrimSpace(dir) != "":
		candidates = []string{filepath.Join(dir, ProjectConfigName), defaultConfigPath}
	default:
		candidates = []string{defaultConfigPath}
	}

	var resolved string
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		resolved = expanded

		info, err := os.Stat(expanded)
		switch {
		case err == nil && info.IsDir():
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		case err == nil:
			return expanded, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return resolved, false, nil
}

// LockTimeout returns the hook lock wait as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Hook.LockTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the annotated sample configuration to path, creating
// parent directories as needed and replacing any existing file atomically.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := fileutil.ReplaceFile(path, []byte(sampleConfig)); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
