// Package config loads, normalizes, and validates npm-yaml configuration.
//
// Configuration is optional TOML. Load resolves an explicit path, then a
// project-local .npm-yaml.toml, then ~/.config/npm-yaml/config.toml, and
// falls back to defaults that reproduce the hook's built-in behaviour:
// package.yml and package.json with two-space indentation.
//
// Always obtain settings through this package so callers receive trimmed
// names, expanded paths, and clear validation errors.
package config
