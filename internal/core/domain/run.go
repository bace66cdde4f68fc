// Package domain holds the shared value types of wpdeploy: operations,
// artifact modes, and the run record persisted by the journal.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrUnknownMode      = errors.New("unknown mode")
)

// =============================================================================
// Operation and Mode
// =============================================================================

// Operation is one of the three operator-facing verbs.
type Operation string

const (
	OperationPush Operation = "push"
	OperationPull Operation = "pull"
	OperationDump Operation = "dump"
)

// Mode is the artifact category being transferred. Dump has no mode.
type Mode string

const (
	ModeNone     Mode = ""
	ModeDatabase Mode = "database"
	ModeUploads  Mode = "uploads"
	ModeThemes   Mode = "themes"
	ModePlugins  Mode = "plugins"
	ModeCore     Mode = "core"
)

// ParseMode validates an operator-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeDatabase, ModeUploads, ModeThemes, ModePlugins, ModeCore:
		return Mode(strings.ToLower(s)), nil
	default:
		return ModeNone, ErrUnknownMode
	}
}

// =============================================================================
// Run Record
// =============================================================================

// RunState is the lifecycle state of a single invocation.
type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateAborted   RunState = "aborted"
)

// ArtifactLocation says where a temporary artifact lives.
type ArtifactLocation string

const (
	ArtifactLocal  ArtifactLocation = "local"
	ArtifactRemote ArtifactLocation = "remote"
)

// Artifact is a temporary file a run is known to create. Returned as
// structured data so cleanup can be automated or surfaced to the operator
// instead of being implicit in file naming.
type Artifact struct {
	Path     string           `json:"path"`
	Location ArtifactLocation `json:"location"`
}

// StepRecord is one executed (or skipped) pipeline step, as journaled.
type StepRecord struct {
	Command    string `json:"command"`
	Skipped    bool   `json:"skipped"`
	ExitStatus int    `json:"exit_status"`
	Output     string `json:"output,omitempty"`
}

// Run is the journal record of one invocation.
type Run struct {
	ID          string       `json:"id"`
	Environment string       `json:"environment"`
	Operation   Operation    `json:"operation"`
	Mode        Mode         `json:"mode"`
	Verbosity   int          `json:"verbosity"`
	State       RunState     `json:"state"`
	Steps       []StepRecord `json:"steps"`
	Artifacts   []Artifact   `json:"artifacts"`
	HookOutput  string       `json:"hook_output,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
}

// NewRun creates a run record in the running state with a fresh ID.
func NewRun(environment string, op Operation, mode Mode, verbosity int) *Run {
	return &Run{
		ID:          NewRunID(),
		Environment: environment,
		Operation:   op,
		Mode:        mode,
		Verbosity:   verbosity,
		State:       RunStateRunning,
		StartedAt:   time.Now().UTC(),
	}
}

// NewRunID generates a run identifier of the form "run_a1b2c3d4".
func NewRunID() string {
	return "run_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// Finish marks the run finished in the given state.
func (r *Run) Finish(state RunState) {
	now := time.Now().UTC()
	r.State = state
	r.FinishedAt = &now
}
