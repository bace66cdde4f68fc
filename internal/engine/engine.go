// Package engine orchestrates one deployment invocation: validate, seed the
// runtime context, resolve the configuration, build the plan, run the
// pipeline, fire the post-hook and journal the result.
//
// Everything is threaded explicitly: each invocation owns its configuration,
// pipeline and run record, and nothing is shared across invocations. The
// whole flow is single-threaded and synchronous; a hung external command
// blocks the run until the subprocess exits.
package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artpar/wpdeploy/internal/core/config"
	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
	"github.com/artpar/wpdeploy/internal/core/plan"
	"github.com/artpar/wpdeploy/internal/core/validation"
	"github.com/artpar/wpdeploy/internal/shell/envfile"
	"github.com/artpar/wpdeploy/internal/shell/journal"
)

// =============================================================================
// Ports
// =============================================================================

// Prober executes one command immediately and returns its trimmed output, or
// the empty string on any failure. Used to seed runtime facts and to run the
// post-hook.
type Prober interface {
	Capture(command string) string
}

// =============================================================================
// Request and Engine
// =============================================================================

// Request describes one invocation as received from the operator surface.
type Request struct {
	Environment string
	Operation   domain.Operation
	Mode        domain.Mode
	Verbosity   pipeline.Verbosity
	Theme       string
	Backup      bool
	Cleanup     bool
}

// Engine wires the core engines to the shell adapters for one process.
type Engine struct {
	Source   validation.Source
	Executor pipeline.Executor
	Prober   Prober
	Reporter pipeline.Reporter
	Journal  journal.Store // nil disables journaling
	Logger   *slog.Logger

	// Now is the clock; nil means time.Now. Tests pin it.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Run Flow
// =============================================================================

// Run performs one invocation end to end and returns its run record.
//
// Configuration and unknown-mode errors are detected before any external
// effect. A step failure aborts the pipeline fail-fast with no rollback; the
// run record still lists the known temporary artifacts so leftovers can be
// cleaned up.
func (e *Engine) Run(ctx context.Context, req Request) (*domain.Run, error) {
	log := e.logger()

	// Reject unknown (operation, mode) pairs before anything else happens.
	if _, err := plan.Lookup(req.Operation, req.Mode); err != nil {
		return nil, err
	}

	inputs, err := validation.Validate(e.Source, req.Environment, req.Operation, req.Mode)
	if err != nil {
		return nil, err
	}
	log.Debug("validation passed",
		"environment", req.Environment,
		"operation", req.Operation,
		"mode", req.Mode,
	)

	runtime := e.seedContext(req)
	templates := config.Defaults().Merged(inputs).Merged(modeOverlay(req))
	resolved := config.Resolve(templates, runtime)

	// A required key whose template never converged would otherwise vanish
	// silently and fail late inside a remote command.
	if err := validation.Recheck(resolved, req.Environment, req.Operation, req.Mode); err != nil {
		return nil, err
	}

	pln, err := plan.Build(req.Operation, req.Mode, resolved, plan.Options{
		Backup:  req.Backup,
		Cleanup: req.Cleanup,
	})
	if err != nil {
		return nil, err
	}

	run := domain.NewRun(req.Environment, req.Operation, req.Mode, int(req.Verbosity))
	run.StartedAt = e.now().UTC()
	run.Artifacts = pln.Artifacts
	e.journalRecord(ctx, run)

	log.Info("pipeline starting",
		"run", run.ID,
		"environment", req.Environment,
		"operation", req.Operation,
		"mode", req.Mode,
		"steps", len(pln.Steps),
	)

	pl := pipeline.New(req.Verbosity, e.Reporter)
	for _, step := range pln.Steps {
		pl.Add(step)
	}
	result, runErr := pl.Run(e.Executor)

	run.Steps = make([]domain.StepRecord, len(result.Steps))
	for i, s := range result.Steps {
		run.Steps[i] = domain.StepRecord{
			Command:    s.Text,
			Skipped:    s.Skipped,
			ExitStatus: s.ExitStatus,
			Output:     s.Output,
		}
	}

	if runErr != nil {
		run.Finish(domain.RunStateAborted)
		e.journalFinish(ctx, run)
		log.Warn("pipeline aborted", "run", run.ID, "error", runErr)
		return run, runErr
	}

	run.HookOutput = e.runPostHook(inputs, runtime, resolved)
	run.Finish(domain.RunStateCompleted)
	e.journalFinish(ctx, run)
	log.Info("pipeline completed", "run", run.ID)
	return run, nil
}

// seedContext gathers the runtime-derived facts available to every template:
// the environment handle, a timestamp, a short content hash, the resolved
// local path, the local database facts and the optional theme restriction.
func (e *Engine) seedContext(req Request) config.Context {
	runtime := config.Context{
		"environment": req.Environment,
		"timestamp":   e.now().Format("20060102150405"),
	}

	hash := ""
	if e.Prober != nil {
		hash = e.Prober.Capture("git rev-parse --short HEAD")
	}
	if hash == "" {
		// Not a git checkout: fall back to a random tag so concurrent dump
		// files still get distinct remote names.
		hash = strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	}
	runtime["hash"] = hash

	localPath, ok := e.Source.Get(envfile.LocalEnvironment, "path")
	if !ok || localPath == "" {
		if wd, err := os.Getwd(); err == nil {
			localPath = wd
		}
	}
	runtime["local_path"] = localPath

	name, hasName := e.Source.Get(envfile.LocalEnvironment, "db_name")
	user, hasUser := e.Source.Get(envfile.LocalEnvironment, "db_user")
	pass, hasPass := e.Source.Get(envfile.LocalEnvironment, "db_password")
	if hasName && hasUser && hasPass {
		host, ok := e.Source.Get(envfile.LocalEnvironment, "db_host")
		if !ok || host == "" {
			host = "localhost"
		}
		runtime["local_db_name"] = name
		runtime["local_db_options"] = "-h " + host + " -u " + user + " -p" + pass
	}

	if req.Theme != "" {
		runtime["theme"] = req.Theme
	}
	return runtime
}

// modeOverlay derives the sync_dir template entry from the requested mode.
// The themes mode narrows to a single theme directory when a theme name was
// given.
func modeOverlay(req Request) map[string]string {
	switch req.Mode {
	case domain.ModeUploads:
		return map[string]string{"sync_dir": "%%uploads_dir%%"}
	case domain.ModePlugins:
		return map[string]string{"sync_dir": "%%plugins_dir%%"}
	case domain.ModeThemes:
		if req.Theme != "" {
			return map[string]string{"sync_dir": "%%theme_dir%%"}
		}
		return map[string]string{"sync_dir": "%%themes_dir%%"}
	default:
		return nil
	}
}

// runPostHook resolves and fires the environment's post_hook command once,
// after a completed pipeline. Its context is the runtime facts plus the
// fully resolved configuration, so it may reference derived keys like hash
// or timestamp. A hook that never converges is treated as not configured;
// hook output never affects the run's outcome.
func (e *Engine) runPostHook(inputs map[string]string, runtime config.Context, resolved config.Resolved) string {
	raw, ok := inputs["post_hook"]
	if !ok || raw == "" || e.Prober == nil {
		return ""
	}

	merged := make(config.Context, len(runtime)+len(resolved))
	for k, v := range resolved {
		merged[k] = v
	}
	for k, v := range runtime {
		merged[k] = v
	}

	command, ok := config.ResolveValue(raw, merged)
	if !ok {
		e.logger().Debug("post hook did not resolve, skipping")
		return ""
	}

	e.logger().Debug("running post hook", "command", command)
	return e.Prober.Capture(command)
}

// =============================================================================
// Journal Helpers
// =============================================================================

// Journal failures are logged and swallowed: history is an aid, not a
// precondition for deploying.

func (e *Engine) journalRecord(ctx context.Context, run *domain.Run) {
	if e.Journal == nil {
		return
	}
	if err := e.Journal.RecordRun(ctx, run); err != nil {
		e.logger().Warn("failed to journal run", "run", run.ID, "error", err)
	}
}

func (e *Engine) journalFinish(ctx context.Context, run *domain.Run) {
	if e.Journal == nil {
		return
	}
	if err := e.Journal.FinishRun(ctx, run); err != nil {
		e.logger().Warn("failed to journal run result", "run", run.ID, "error", err)
	}
}
