package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// scriptedExecutor records executed commands and returns scripted outcomes.
type scriptedExecutor struct {
	executed []string
	failures map[string]int
	outputs  map[string]string
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{
		failures: map[string]int{},
		outputs:  map[string]string{},
	}
}

func (e *scriptedExecutor) Execute(command string) (int, string) {
	e.executed = append(e.executed, command)
	return e.failures[command], e.outputs[command]
}

// recordingReporter captures emitted messages in order.
type recordingReporter struct {
	commands  []string
	successes []string
	failures  []string
}

func (r *recordingReporter) Command(text string)    { r.commands = append(r.commands, text) }
func (r *recordingReporter) Success(message string) { r.successes = append(r.successes, message) }
func (r *recordingReporter) Failure(message string) { r.failures = append(r.failures, message) }

func (r *recordingReporter) total() int {
	return len(r.commands) + len(r.successes) + len(r.failures)
}

// =============================================================================
// Execution Order Tests
// =============================================================================

func TestRun_ExecutesInInsertionOrder(t *testing.T) {
	exec := newScriptedExecutor()
	p := New(VerbosityNormal, nil)
	p.Add(NewStep("first", "", ""))
	p.Add(NewStep("second", "", ""))
	p.Add(NewStep("third", "", ""))

	result, err := p.Run(exec)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, exec.executed)
	assert.Equal(t, StateCompleted, result.State)
}

func TestRun_GuardedStepSkippedSilently(t *testing.T) {
	exec := newScriptedExecutor()
	reporter := &recordingReporter{}
	p := New(VerbosityTrace, reporter)
	p.Add(NewStep("s1", "s1 ok", ""))
	p.AddIf(NewStep("s2", "s2 ok", ""), false)
	p.Add(NewStep("s3", "s3 ok", ""))

	result, err := p.Run(exec)
	require.NoError(t, err)

	// s2 is never handed to the executor and emits no message.
	assert.Equal(t, []string{"s1", "s3"}, exec.executed)
	assert.NotContains(t, reporter.successes, "s2 ok")
	assert.NotContains(t, reporter.commands, "s2")

	// It is still recorded, in order, as skipped.
	require.Len(t, result.Steps, 3)
	assert.False(t, result.Steps[0].Skipped)
	assert.True(t, result.Steps[1].Skipped)
	assert.False(t, result.Steps[2].Skipped)
}

// =============================================================================
// Fail-Fast Tests
// =============================================================================

func TestRun_AbortsOnFirstFailure(t *testing.T) {
	exec := newScriptedExecutor()
	exec.failures["s2"] = 1
	reporter := &recordingReporter{}

	p := New(VerbosityNormal, reporter)
	p.Add(NewStep("s1", "s1 ok", "s1 failed"))
	p.Add(NewStep("s2", "s2 ok", "s2 failed"))
	p.Add(NewStep("s3", "s3 ok", "s3 failed"))

	result, err := p.Run(exec)
	require.ErrorIs(t, err, ErrStepFailed)

	assert.Equal(t, []string{"s1", "s2"}, exec.executed)
	assert.Equal(t, []string{"s2 failed"}, reporter.failures)
	assert.Equal(t, StateAborted, result.State)
	assert.Equal(t, StateAborted, p.State())

	// Executed steps are logged with their exit status; s3 never ran.
	require.Len(t, result.Steps, 2)
	assert.Equal(t, 1, result.Steps[1].ExitStatus)
}

func TestRun_FailureMessageShownAtQuietVerbosity(t *testing.T) {
	exec := newScriptedExecutor()
	exec.failures["bad"] = 2
	reporter := &recordingReporter{}

	p := New(VerbosityQuiet, reporter)
	p.Add(NewStep("bad", "ok", "it broke"))

	_, err := p.Run(exec)
	require.ErrorIs(t, err, ErrStepFailed)
	assert.Equal(t, []string{"it broke"}, reporter.failures)
}

func TestRun_CapturesOutput(t *testing.T) {
	exec := newScriptedExecutor()
	exec.outputs["probe"] = "42 files transferred"

	p := New(VerbosityNormal, nil)
	p.Add(NewStep("probe", "", ""))

	result, err := p.Run(exec)
	require.NoError(t, err)
	assert.Equal(t, "42 files transferred", result.Steps[0].Output)
}

func TestRun_SecondRunRejected(t *testing.T) {
	exec := newScriptedExecutor()
	p := New(VerbosityNormal, nil)
	p.Add(NewStep("once", "", ""))

	_, err := p.Run(exec)
	require.NoError(t, err)
	_, err = p.Run(exec)
	assert.ErrorIs(t, err, ErrAlreadyRun)
	assert.Equal(t, []string{"once"}, exec.executed)
}

// =============================================================================
// Verbosity Tests
// =============================================================================

func TestRun_VerbosityQuietEmitsNothingOnSuccess(t *testing.T) {
	exec := newScriptedExecutor()
	reporter := &recordingReporter{}

	p := New(VerbosityQuiet, reporter)
	p.Add(NewStep("s1", "s1 ok", "s1 failed"))
	p.Add(NewStep("s2", "s2 ok", "s2 failed"))

	_, err := p.Run(exec)
	require.NoError(t, err)
	assert.Zero(t, reporter.total())
}

func TestRun_VerbosityTraceEmitsEveryStep(t *testing.T) {
	exec := newScriptedExecutor()
	reporter := &recordingReporter{}

	p := New(VerbosityTrace, reporter)
	p.Add(NewStep("s1", "s1 ok", ""))
	p.Add(NewStep("s2", "s2 ok", ""))

	_, err := p.Run(exec)
	require.NoError(t, err)

	// Raw invocation plus success summary, per step.
	assert.Equal(t, []string{"s1", "s2"}, reporter.commands)
	assert.Equal(t, []string{"s1 ok", "s2 ok"}, reporter.successes)
}

func TestRun_VerbosityNormalEmitsSummariesOnly(t *testing.T) {
	exec := newScriptedExecutor()
	reporter := &recordingReporter{}

	p := New(VerbosityNormal, reporter)
	p.Add(NewStep("s1", "s1 ok", ""))

	_, err := p.Run(exec)
	require.NoError(t, err)
	assert.Empty(t, reporter.commands)
	assert.Equal(t, []string{"s1 ok"}, reporter.successes)
}

func TestRun_StepWithoutMessagesIsSilent(t *testing.T) {
	exec := newScriptedExecutor()
	reporter := &recordingReporter{}

	p := New(VerbosityNormal, reporter)
	p.Add(NewStep("quiet step", "", ""))

	_, err := p.Run(exec)
	require.NoError(t, err)
	assert.Zero(t, reporter.total())
}
