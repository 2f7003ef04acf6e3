// Package app wires the manifest, the adapters and the execution pipeline
// into the dotsetup installer.
package app

import (
	"context"
	"fmt"

	"github.com/dotsetup/dotsetup/internal/adapters/history"
	"github.com/dotsetup/dotsetup/internal/adapters/logging"
	"github.com/dotsetup/dotsetup/internal/domain/config"
	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/dotsetup/dotsetup/internal/ports"
)

// HistoryRecorder persists finished runs.
type HistoryRecorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Project is a loaded, validated and expanded manifest.
type Project struct {
	Path     string
	Manifest *config.Manifest
	Env      config.Environment
}

// Load reads the manifest at path, validates it and expands its paths.
// An empty path searches the working directory for a default manifest.
func Load(path string, resolver *config.EnvResolver) (*Project, error) {
	loader := config.NewLoader()
	if path == "" {
		found, err := loader.Find(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	m, err := loader.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	env, err := resolver.Resolve(m)
	if err != nil {
		return nil, err
	}

	return &Project{Path: path, Manifest: m.Expand(env), Env: env}, nil
}

// Dotsetup is the installer application.
type Dotsetup struct {
	collab   Collaborators
	logger   ports.Logger
	observer execution.Observer
	history  HistoryRecorder
	guard    *execution.Guard
}

// New creates the installer with the given collaborators. A nil logger
// discards all messages.
func New(collab Collaborators, logger ports.Logger) *Dotsetup {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Dotsetup{
		collab:   collab,
		logger:   logger,
		observer: execution.NopObserver{},
		guard:    execution.NewGuard(),
	}
}

// WithObserver sets the progress observer, usually the terminal reporter.
func (d *Dotsetup) WithObserver(o execution.Observer) *Dotsetup {
	if o == nil {
		o = execution.NopObserver{}
	}
	d.observer = o
	return d
}

// WithHistory records every install run in rec.
func (d *Dotsetup) WithHistory(rec HistoryRecorder) *Dotsetup {
	d.history = rec
	return d
}

// WithGuard replaces the signal guard.
func (d *Dotsetup) WithGuard(g *execution.Guard) *Dotsetup {
	d.guard = g
	return d
}

// InstallOptions controls an install run.
type InstallOptions struct {
	DryRun bool
}

// Install runs the manifest's steps under the signal guard. The returned
// error covers problems before the pipeline starts; the run's own outcome
// is in the RunState.
func (d *Dotsetup) Install(ctx context.Context, p *Project, opts InstallOptions) (execution.RunState, error) {
	steps, err := BuildSteps(p.Manifest.Steps, d.collab)
	if err != nil {
		return execution.RunState{}, err
	}

	cleanup, err := d.prepareTempDir(p.Env.TempDir, opts.DryRun)
	if err != nil {
		return execution.RunState{}, err
	}

	logger := d.logger.With(ports.F("manifest", p.Path))
	ctx = ports.ContextWithLogger(ctx, logger)
	logger.Info(ctx, "install started",
		ports.F("steps", len(steps)), ports.F("dry_run", opts.DryRun), ports.F("user", p.Env.User))

	pipeline := execution.NewPipeline(execution.NewCompensator(d.collab.FS, d.collab.Packages)).
		WithCleanup(cleanup).
		WithObserver(execution.Observers(d.observer, NewLogObserver(logger))).
		WithDryRun(opts.DryRun)

	state := d.guard.Run(ctx, pipeline, steps)
	d.recordHistory(context.WithoutCancel(ctx), state, opts.DryRun)
	return state, nil
}

// prepareTempDir creates the run's work directory and returns the cleanup
// hook that removes it. A directory that existed before is left alone.
func (d *Dotsetup) prepareTempDir(dir string, dryRun bool) (execution.CleanupFunc, error) {
	if dryRun || dir == "" || d.collab.FS.Exists(dir) {
		return nil, nil
	}
	if err := d.collab.FS.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create temp directory %s: %w", dir, err)
	}
	return func(ctx context.Context) error {
		if err := d.collab.FS.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove temp directory %s: %w", dir, err)
		}
		d.logger.Debug(ctx, "temp directory removed", ports.F("path", dir))
		return nil
	}, nil
}

func (d *Dotsetup) recordHistory(ctx context.Context, state execution.RunState, dryRun bool) {
	if d.history == nil {
		return
	}
	if err := d.history.Record(ctx, history.FromRunState(state, dryRun)); err != nil {
		d.logger.Warn(ctx, "failed to record run history", ports.F("run_id", state.ID), ports.Err(err))
	}
}
