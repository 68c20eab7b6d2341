package logging

import (
	"context"
	"log/slog"
)

// Standard attribute keys shared by every component.
const (
	FieldComponent = "component"
	// FieldRunID identifies a single hook invocation across its log lines.
	FieldRunID = "run_id"
	// FieldAction is the conversion direction chosen for a run.
	FieldAction = "action"
	// FieldSource is the manifest file a run reads.
	FieldSource = "source"
	// FieldTarget is the manifest file a run writes.
	FieldTarget = "target"
	FieldError  = "error"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

// Error attaches err under the "error" key. A nil error is recorded as
// "<nil>" so the key is never silently dropped.
func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component name, which console output
// renders as the message prefix. A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h NoopHandler) WithGroup(string) slog.Handler { return h }
