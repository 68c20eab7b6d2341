package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"npmyaml/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	// Output replaces the "stdout" and "stderr" entries of OutputPaths when set.
	Output      io.Writer
	Development bool
}

// New constructs a slog logger using the provided options. The returned closer
// releases any log files the logger writes to; it is never nil on success.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	paths := opts.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	outputWriter, files, err := openWriters(paths, opts.Output)
	if err != nil {
		return nil, nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = config.LogFormatConsole
	}

	var handler slog.Handler
	switch format {
	case config.LogFormatJSON:
		handler = newJSONHandler(outputWriter, levelVar, addSource)
	case config.LogFormatConsole:
		handler = newConsoleHandler(outputWriter, levelVar, addSource)
	default:
		_ = files.Close()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), files, nil
}

// NewFromConfig creates a logger using application config defaults. Console
// output goes to out (stderr when nil); logging.file adds a second sink.
func NewFromConfig(cfg *config.Config, out io.Writer) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: config.LogFormatConsole, Output: out})
	}

	outputPaths := []string{"stderr"}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		outputPaths = append(outputPaths, file)
	}

	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputPaths,
		Output:      out,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openWriters resolves output paths to writers. "stdout" and "stderr" map to
// the process streams, or both to override when it is set. Other entries are
// files opened for append with their parent directory created.
func openWriters(paths []string, override io.Writer) (io.Writer, logFiles, error) {
	var writers []io.Writer
	var files logFiles
	streamAdded := false
	seen := make(map[string]bool, len(paths))

	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true

		if path == "stdout" || path == "stderr" {
			switch {
			case override == nil && path == "stdout":
				writers = append(writers, os.Stdout)
			case override == nil:
				writers = append(writers, os.Stderr)
			case !streamAdded:
				writers = append(writers, override)
				streamAdded = true
			}
			continue
		}

		file, err := openLogFile(path)
		if err != nil {
			_ = files.Close()
			return nil, nil, err
		}
		files = append(files, file)
		writers = append(writers, file)
	}

	switch len(writers) {
	case 0:
		return os.Stderr, files, nil
	case 1:
		return writers[0], files, nil
	default:
		return io.MultiWriter(writers...), files, nil
	}
}

// logFiles closes the file sinks opened by openWriters.
type logFiles []*os.File

func (f logFiles) Close() error {
	var errs []error
	for _, file := range f {
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
