package cmdexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Execute Tests
// =============================================================================

func TestExecute_Success(t *testing.T) {
	e := &ShellExecutor{}
	status, output := e.Execute("echo hello")
	assert.Equal(t, 0, status)
	assert.Equal(t, "hello", output)
}

func TestExecute_NonZeroExitStatus(t *testing.T) {
	e := &ShellExecutor{}
	status, _ := e.Execute("exit 3")
	assert.Equal(t, 3, status)
}

func TestExecute_CapturesStderr(t *testing.T) {
	e := &ShellExecutor{}
	status, output := e.Execute("echo oops >&2; exit 1")
	assert.Equal(t, 1, status)
	assert.Equal(t, "oops", output)
}

func TestExecute_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	e := &ShellExecutor{Dir: dir}
	status, output := e.Execute("pwd")
	assert.Equal(t, 0, status)
	assert.Contains(t, output, dir)
}

// =============================================================================
// Capture Tests
// =============================================================================

func TestCapture_TrimsOutput(t *testing.T) {
	e := &ShellExecutor{}
	assert.Equal(t, "abc1234", e.Capture("echo '  abc1234  '  | cat"))
}

func TestCapture_FailureReturnsEmpty(t *testing.T) {
	e := &ShellExecutor{}
	assert.Equal(t, "", e.Capture("exit 1"))
}

func TestCapture_MissingToolReturnsEmpty(t *testing.T) {
	e := &ShellExecutor{}
	assert.Equal(t, "", e.Capture("definitely-not-a-real-tool-xyz"))
}
