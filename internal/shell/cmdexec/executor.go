// Package cmdexec executes external commands for the pipeline and the
// context-seeding probes. Command text is opaque to wpdeploy: rsync, ssh,
// mysql and wp are all invoked as black-box shell lines.
package cmdexec

import (
	"os/exec"
	"strings"
)

// =============================================================================
// Shell Executor
// =============================================================================

// ShellExecutor runs command text through `sh -c`, blocking until the
// subprocess exits. It implements pipeline.Executor.
type ShellExecutor struct {
	// Dir is the working directory for every command. Empty means the
	// current directory.
	Dir string
}

// Execute runs one command and returns its exit status and combined output.
// A command that cannot be started at all is reported as exit status -1.
func (e *ShellExecutor) Execute(command string) (int, string) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = e.Dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), output
		}
		return -1, output
	}
	return 0, output
}

// Capture runs one command immediately, outside any pipeline, and returns
// its trimmed standard output. A failing probe returns the empty string for
// the caller to handle; there is no structured error. Used to seed
// runtime-context facts (derived hash and the like) before pipeline
// construction.
func (e *ShellExecutor) Capture(command string) string {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = e.Dir

	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
