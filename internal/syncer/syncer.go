package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"npmyaml/internal/fileutil"
	"npmyaml/internal/logging"
	"npmyaml/internal/manifest"
	"npmyaml/internal/preflight"
)

// Syncer converts between the YAML and JSON manifests of a project.
type Syncer struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Syncer. Zero-valued options fall back to the defaults and a
// nil logger discards output.
func New(opts Options, logger *slog.Logger) *Syncer {
	return &Syncer{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "syncer"),
	}
}

// Options returns the effective options after defaults were applied.
func (s *Syncer) Options() Options {
	return s.opts
}

// Run executes the hook for one invocation. Nothing is read or written unless
// the invocation is an install.
func (s *Syncer) Run(ctx context.Context, inv Invocation) Result {
	result := Result{RunID: uuid.NewString(), Action: ActionNotTriggered}
	logger := s.logger.With(logging.String(logging.FieldRunID, result.RunID))

	if !Triggered(inv.Args) {
		logger.Debug("hook not triggered", logging.Int("args", len(inv.Args)))
		return result
	}

	plan, err := s.Plan(inv.Dir)
	if err != nil {
		result.Err = err
		logger.Error("manifest inspection failed", logging.Error(err))
		return result
	}
	result.Action = plan.Action
	result.Source = plan.Source
	result.Target = plan.Target
	logger = logger.With(logging.String(logging.FieldAction, string(plan.Action)))

	if plan.Action == ActionNoManifest {
		logger.Debug("no manifest found", logging.String("dir", inv.Dir))
		return result
	}

	written, err := s.convert(ctx, plan, logger)
	result.Written = written
	if err != nil {
		result.Err = err
		logger.Error("manifest conversion failed",
			logging.String(logging.FieldSource, plan.Source),
			logging.String(logging.FieldTarget, plan.Target),
			logging.Error(err),
		)
		return result
	}
	if written {
		logger.Info("converted manifest",
			logging.String(logging.FieldSource, plan.Source),
			logging.String(logging.FieldTarget, plan.Target),
		)
	}
	return result
}

func (s *Syncer) convert(ctx context.Context, plan Plan, logger *slog.Logger) (bool, error) {
	unlock, err := s.lockSource(ctx, plan.Source, logger)
	if err != nil {
		return false, manifest.Wrap(manifest.ErrIO, "lock manifest", plan.Source, err)
	}
	defer unlock()

	doc, err := manifest.LoadAs(plan.Source, plan.SourceFormat)
	if err != nil {
		return false, err
	}

	content, err := doc.Encode(plan.TargetFormat, s.opts.Indent)
	if err != nil {
		return false, manifest.Wrap(manifest.ErrParse, "encode manifest", plan.Target, err)
	}
	if plan.Target == "" || len(content) == 0 {
		logger.Info("source manifest is empty; skipping write",
			logging.String(logging.FieldSource, plan.Source),
		)
		return false, nil
	}

	if check := preflight.CheckDirectoryAccess("manifest directory", filepath.Dir(plan.Target)); !check.Passed {
		return false, manifest.Wrap(manifest.ErrIO, "write manifest", plan.Target, errors.New(check.Detail))
	}
	if err := fileutil.ReplaceFile(plan.Target, content); err != nil {
		return false, manifest.Wrap(manifest.ErrIO, "write manifest", plan.Target, err)
	}
	return true, nil
}

// lockSource takes an exclusive advisory lock on the source manifest so that
// concurrent hooks in the same directory convert one after another. The file
// is opened read-only and never created.
func (s *Syncer) lockSource(ctx context.Context, path string, logger *slog.Logger) (func(), error) {
	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))

	lockCtx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out after %s waiting for another run", s.opts.LockTimeout)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("lock held by another run")
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release manifest lock",
				logging.String(logging.FieldSource, path),
				logging.Error(err),
			)
		}
	}, nil
}
