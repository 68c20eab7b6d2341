package config

const (
	defaultYAMLName           = "package.yml"
	defaultJSONName           = "package.json"
	defaultIndent             = 2
	defaultLockTimeoutSeconds = 10
	defaultLogFormat          = LogFormatConsole
	defaultLogLevel           = "info"
	defaultConfigPath         = "~/.config/npm-yaml/config.toml"
	// ProjectConfigName is looked up in the project directory before the user-level file.
	ProjectConfigName = ".npm-yaml.toml"
)

// Log formats accepted by logging.format.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default returns the configuration used when no file is present. It matches
// the behaviour of the hook with no configuration at all.
func Default() Config {
	return Config{
		Manifest: Manifest{
			YAMLName: defaultYAMLName,
			JSONName: defaultJSONName,
			Indent:   defaultIndent,
		},
		Hook: Hook{
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
