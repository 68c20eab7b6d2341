package syncer

import (
	"slices"
	"strings"
	"time"

	"npmyaml/internal/config"
)

const (
	defaultYAMLName    = "package.yml"
	defaultJSONName    = "package.json"
	defaultIndent      = 2
	defaultLockTimeout = 10 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
)

// triggerCommands are the package-manager commands that start a conversion.
var triggerCommands = []string{"install", "i"}

// Options controls file names, output formatting, and lock waiting.
type Options struct {
	YAMLName    string
	JSONName    string
	Indent      int
	LockTimeout time.Duration
}

// DefaultOptions returns the built-in hook behavior.
func DefaultOptions() Options {
	return Options{
		YAMLName:    defaultYAMLName,
		JSONName:    defaultJSONName,
		Indent:      defaultIndent,
		LockTimeout: defaultLockTimeout,
	}
}

// OptionsFromConfig maps a loaded configuration onto syncer options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		YAMLName:    cfg.Manifest.YAMLName,
		JSONName:    cfg.Manifest.JSONName,
		Indent:      cfg.Manifest.Indent,
		LockTimeout: cfg.LockTimeout(),
	}
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.YAMLName) == "" {
		o.YAMLName = defaultYAMLName
	}
	if strings.TrimSpace(o.JSONName) == "" {
		o.JSONName = defaultJSONName
	}
	if o.Indent <= 0 {
		o.Indent = defaultIndent
	}
	if o.LockTimeout <= 0 {
		o.LockTimeout = defaultLockTimeout
	}
	return o
}

// Triggered reports whether args start with "install" or "i". args excludes
// the program name, so args[0] is the package-manager command.
func Triggered(args []string) bool {
	if len(args) == 0 {
		return false
	}
	return slices.Contains(triggerCommands, args[0])
}
