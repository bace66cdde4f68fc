// Package pipeline implements the command runner: an ordered queue of
// conditional external operations executed sequentially with fail-fast
// semantics, verbosity-controlled reporting, and output capture.
//
// The pipeline itself performs no I/O; commands run through the injected
// Executor and messages flow through the injected Reporter.
package pipeline

import (
	"errors"
	"fmt"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrStepFailed is returned when a step exits non-zero and aborts the run.
	ErrStepFailed = errors.New("pipeline step failed")

	// ErrAlreadyRun is returned when Run is called twice on one pipeline.
	ErrAlreadyRun = errors.New("pipeline already ran")
)

// =============================================================================
// Ports
// =============================================================================

// Executor hands one command text to the outside world and blocks until the
// subprocess exits. Zero exit status means success.
type Executor interface {
	Execute(command string) (exitStatus int, output string)
}

// Reporter receives operator-facing step messages. The pipeline applies the
// verbosity policy before calling it.
type Reporter interface {
	// Command is the raw invocation text, emitted only at VerbosityTrace.
	Command(text string)
	Success(message string)
	Failure(message string)
}

type nopReporter struct{}

func (nopReporter) Command(string) {}
func (nopReporter) Success(string) {}
func (nopReporter) Failure(string) {}

// =============================================================================
// Verbosity
// =============================================================================

// Verbosity controls which step messages are emitted. Applied uniformly to
// all steps of a pipeline, never per-step.
type Verbosity int

const (
	// VerbosityTrace emits every message plus the raw invocation text.
	VerbosityTrace Verbosity = 0
	// VerbosityNormal emits success and failure summaries.
	VerbosityNormal Verbosity = 1
	// VerbosityQuiet emits only failures.
	VerbosityQuiet Verbosity = 2
)

// =============================================================================
// Steps
// =============================================================================

// Step is one external operation descriptor. Guard is evaluated at
// construction time: a false guard means the step is recorded but skipped at
// run time, with no execution and no message.
type Step struct {
	Text           string
	Guard          bool
	SuccessMessage string
	FailureMessage string
}

// NewStep builds a step whose guard passes.
func NewStep(text, successMessage, failureMessage string) Step {
	return Step{
		Text:           text,
		Guard:          true,
		SuccessMessage: successMessage,
		FailureMessage: failureMessage,
	}
}

// =============================================================================
// Results
// =============================================================================

// State is the pipeline lifecycle state.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateAborted    State = "aborted"
)

// StepResult records one queued step's outcome, executed or skipped.
type StepResult struct {
	Text       string
	Skipped    bool
	ExitStatus int
	Output     string
}

// Result is the ordered log of one run.
type Result struct {
	State State
	Steps []StepResult
}

// =============================================================================
// Pipeline
// =============================================================================

// Pipeline is the ordered queue of steps for one invocation. Create one per
// run and discard it afterwards.
type Pipeline struct {
	verbosity Verbosity
	reporter  Reporter
	steps     []Step
	state     State
}

// New creates an empty pipeline. A nil reporter silences all messages.
func New(verbosity Verbosity, reporter Reporter) *Pipeline {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		verbosity: verbosity,
		reporter:  reporter,
		state:     StateNotStarted,
	}
}

// Add appends a step to the queue.
func (p *Pipeline) Add(step Step) {
	p.steps = append(p.steps, step)
}

// AddIf appends a step whose guard is decided now, at construction time.
func (p *Pipeline) AddIf(step Step, guard bool) {
	step.Guard = guard
	p.steps = append(p.steps, step)
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the guard-passing steps strictly in insertion order on one
// sequential timeline; later steps may depend on files produced by earlier
// ones, so no reordering or parallelism is permitted.
//
// Per executed step: a zero exit status emits the success message when
// present and permitted by verbosity, then continues. A non-zero exit status
// emits the failure message when present, unconditionally regardless of
// verbosity, and aborts: no further queued step runs, no retry, no rollback
// of side effects already applied.
func (p *Pipeline) Run(executor Executor) (Result, error) {
	if p.state != StateNotStarted {
		return Result{State: p.state}, ErrAlreadyRun
	}
	p.state = StateRunning

	result := Result{Steps: make([]StepResult, 0, len(p.steps))}
	for _, step := range p.steps {
		if !step.Guard {
			result.Steps = append(result.Steps, StepResult{Text: step.Text, Skipped: true})
			continue
		}

		if p.verbosity == VerbosityTrace {
			p.reporter.Command(step.Text)
		}

		status, output := executor.Execute(step.Text)
		result.Steps = append(result.Steps, StepResult{
			Text:       step.Text,
			ExitStatus: status,
			Output:     output,
		})

		if status != 0 {
			if step.FailureMessage != "" {
				p.reporter.Failure(step.FailureMessage)
			}
			p.state = StateAborted
			result.State = StateAborted
			return result, fmt.Errorf("command %q exited with status %d: %w",
				step.Text, status, ErrStepFailed)
		}

		if step.SuccessMessage != "" && p.verbosity <= VerbosityNormal {
			p.reporter.Success(step.SuccessMessage)
		}
	}

	p.state = StateCompleted
	result.State = StateCompleted
	return result, nil
}
