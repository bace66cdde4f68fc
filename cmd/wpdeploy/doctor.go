package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/validation"
	"github.com/artpar/wpdeploy/internal/shell/cmdexec"
	"github.com/artpar/wpdeploy/internal/shell/envfile"
	"github.com/artpar/wpdeploy/internal/shell/report"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Probe the external tools and sanity-check the configuration",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// toolProbes are the external collaborators wpdeploy shells out to. Each
// probe is a version query whose empty output means the tool is missing.
var toolProbes = []struct {
	name  string
	probe string
}{
	{"rsync", "rsync --version | head -n1"},
	{"ssh", "ssh -V 2>&1"},
	{"mysql", "mysql --version"},
	{"mysqldump", "mysqldump --version"},
	{"wp", "wp cli version"},
	{"git", "git --version"},
}

func runDoctor(cmd *cobra.Command, args []string) error {
	executor := &cmdexec.ShellExecutor{}
	healthy := true

	fmt.Fprintln(os.Stdout, report.Bold.Render("external tools"))
	for _, tool := range toolProbes {
		if out := executor.Capture(tool.probe); out != "" {
			fmt.Fprintf(os.Stdout, "  %s %-10s %s\n", report.Success.Render("✓"), tool.name, report.Dim.Render(out))
		} else {
			// wp and git are optional: templates fall back without them.
			fmt.Fprintf(os.Stdout, "  %s %-10s not found\n", report.Error.Render("✗"), tool.name)
			if tool.name != "wp" && tool.name != "git" {
				healthy = false
			}
		}
	}

	source := envfile.New(cfg.Environments)
	fmt.Fprintln(os.Stdout, report.Bold.Render("environments"))
	if len(source.Names()) == 0 {
		fmt.Fprintf(os.Stdout, "  %s no environments configured (run `wpdeploy init`)\n", report.Error.Render("✗"))
		healthy = false
	}
	for _, name := range source.Names() {
		known := 0
		for _, key := range validation.Universe() {
			if _, ok := source.Get(name, key); ok {
				known++
			}
		}
		fmt.Fprintf(os.Stdout, "  %s %-12s %d known keys\n", report.Success.Render("✓"), name, known)
	}

	if !healthy {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Fprintln(os.Stdout, report.Success.Render("all checks passed"))
	return nil
}
