package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/shell/journal"
	"github.com/artpar/wpdeploy/internal/shell/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the journal",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "number", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled in the configuration")
	}

	store, err := journal.NewSQLiteStore(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, report.Dim.Render("no runs recorded yet"))
		return nil
	}

	for _, run := range runs {
		printRun(run)
	}
	return nil
}

func printRun(run domain.Run) {
	state := report.Success.Render(string(run.State))
	if run.State != domain.RunStateCompleted {
		state = report.Error.Render(string(run.State))
	}

	what := string(run.Operation)
	if run.Mode != domain.ModeNone {
		what += "/" + string(run.Mode)
	}

	fmt.Fprintf(os.Stdout, "%s  %s  %-22s %-12s %s\n",
		run.ID,
		run.StartedAt.Local().Format(time.DateTime),
		what,
		run.Environment,
		state,
	)

	executed := 0
	for _, step := range run.Steps {
		if !step.Skipped {
			executed++
		}
	}
	fmt.Fprintf(os.Stdout, "  %s\n", report.Dim.Render(fmt.Sprintf("%d of %d steps executed", executed, len(run.Steps))))

	if run.State == domain.RunStateAborted && len(run.Artifacts) > 0 {
		for _, a := range run.Artifacts {
			fmt.Fprintf(os.Stdout, "  %s\n", report.Dim.Render(fmt.Sprintf("artifact: %s (%s)", a.Path, a.Location)))
		}
	}
}
