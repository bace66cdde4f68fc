// Package report renders pipeline step messages for the operator using
// consistent Lipgloss styling.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	// Success style for positive outcomes (green)
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	// Error style for failures (red)
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Bold(true)

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)
)

// =============================================================================
// Console Reporter
// =============================================================================

// Console writes styled step messages to one writer. It implements
// pipeline.Reporter; the pipeline applies the verbosity policy, Console only
// renders.
type Console struct {
	Out io.Writer
}

// NewConsole creates a reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

// Command prints the raw invocation text, dimmed.
func (c *Console) Command(text string) {
	fmt.Fprintln(c.Out, Dim.Render("$ "+text))
}

// Success prints a step's success summary.
func (c *Console) Success(message string) {
	fmt.Fprintf(c.Out, "%s %s\n", Success.Render("✓"), message)
}

// Failure prints a step's failure summary.
func (c *Console) Failure(message string) {
	fmt.Fprintf(c.Out, "%s %s\n", Error.Render("✗"), message)
}
