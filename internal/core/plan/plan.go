// Package plan turns a resolved configuration into the ordered pipeline for
// one (operation, mode) pair. Dispatch goes through an explicit registry of
// builder functions rather than constructed handler names, so every
// reachable combination is visible in one table.
package plan

import (
	"errors"
	"fmt"

	"github.com/artpar/wpdeploy/internal/core/config"
	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrCommandUnresolved is returned when no template variant for a
	// pipeline command converged to a final value.
	ErrCommandUnresolved = errors.New("no resolved command template")
)

// UnknownModeError reports an (operation, mode) pair with no builder,
// detected before any side effect.
type UnknownModeError struct {
	Operation domain.Operation
	Mode      domain.Mode
}

func (e *UnknownModeError) Error() string {
	if e.Mode == domain.ModeNone {
		return fmt.Sprintf("operation %q has no handler", e.Operation)
	}
	return fmt.Sprintf("operation %q has no handler for mode %q", e.Operation, e.Mode)
}

// =============================================================================
// Plan Types
// =============================================================================

// Options carries the operator flags builders honor. Cleanup defaults to
// true at the CLI; guards are fixed here, at construction time.
type Options struct {
	Backup  bool
	Cleanup bool
}

// Plan is the ordered step queue for one invocation plus the temporary
// artifacts those steps are known to create, as structured data.
type Plan struct {
	Steps     []pipeline.Step
	Artifacts []domain.Artifact
}

// BuilderFunc assembles a plan from a resolved configuration. Builders are
// pure: they read the configuration and options, nothing else.
type BuilderFunc func(cfg config.Resolved, opts Options) (Plan, error)

// =============================================================================
// Registry
// =============================================================================

var registry = map[key]BuilderFunc{
	{domain.OperationPush, domain.ModeDatabase}: buildPushDatabase,
	{domain.OperationPush, domain.ModeUploads}:  buildPushSync,
	{domain.OperationPush, domain.ModeThemes}:   buildPushSync,
	{domain.OperationPush, domain.ModePlugins}:  buildPushSync,
	{domain.OperationPush, domain.ModeCore}:     buildPushCore,

	{domain.OperationPull, domain.ModeDatabase}: buildPullDatabase,
	{domain.OperationPull, domain.ModeUploads}:  buildPullSync,
	{domain.OperationPull, domain.ModeThemes}:   buildPullSync,
	{domain.OperationPull, domain.ModePlugins}:  buildPullSync,
	{domain.OperationPull, domain.ModeCore}:     buildPullCore,

	{domain.OperationDump, domain.ModeNone}: buildDump,
}

type key struct {
	op   domain.Operation
	mode domain.Mode
}

// Lookup returns the builder for (op, mode), or an UnknownModeError.
// Called before validation so an unknown combination is rejected before any
// other work happens.
func Lookup(op domain.Operation, mode domain.Mode) (BuilderFunc, error) {
	builder, ok := registry[key{op, mode}]
	if !ok {
		return nil, &UnknownModeError{Operation: op, Mode: mode}
	}
	return builder, nil
}

// Build looks up and runs the builder for (op, mode).
func Build(op domain.Operation, mode domain.Mode, cfg config.Resolved, opts Options) (Plan, error) {
	builder, err := Lookup(op, mode)
	if err != nil {
		return Plan{}, err
	}
	return builder(cfg, opts)
}

// =============================================================================
// Builder Helpers
// =============================================================================

// command returns the first of the given keys that resolved. Builders list a
// primary variant first and a wp-cli fallback second; which one converged
// depends on which inputs the environment defines.
func command(cfg config.Resolved, keys ...string) (string, error) {
	for _, k := range keys {
		if v, ok := cfg.Get(k); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w for %v", ErrCommandUnresolved, keys)
}

func artifact(cfg config.Resolved, fileKey string, location domain.ArtifactLocation) []domain.Artifact {
	path, ok := cfg.Get(fileKey)
	if !ok {
		return nil
	}
	return []domain.Artifact{{Path: path, Location: location}}
}
