package testsupport

import (
	"path/filepath"
	"testing"

	"npmyaml/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose log file, when enabled, lives in a
// per-test temp directory. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	builder := &configBuilder{
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithManifestNames overrides the YAML and JSON manifest file names.
func WithManifestNames(yamlName, jsonName string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.YAMLName = yamlName
		b.cfg.Manifest.JSONName = jsonName
	}
}

// WithIndent sets the indentation used for converted output.
func WithIndent(indent int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.Indent = indent
	}
}

// WithLockTimeout sets the lock wait in whole seconds.
func WithLockTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Hook.LockTimeoutSeconds = seconds
	}
}

// WithLogFile enables the file log sink inside the test's temp directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", "npm-yaml.log")
	}
}

// WithDebugLogging lowers the log level to debug.
func WithDebugLogging() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Level = "debug"
	}
}
