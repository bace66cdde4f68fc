package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
	"github.com/artpar/wpdeploy/internal/engine"
)

var pushTheme string

var pushCmd = &cobra.Command{
	Use:   "push <environment> <mode>",
	Short: "Transfer one artifact category from the local working copy to an environment",
	Long: `Push transfers one artifact category to a remote environment.

Modes:
  database   export the local database, upload it and import it remotely
  uploads    sync wp-content/uploads
  themes     sync wp-content/themes (restrict with --theme)
  plugins    sync wp-content/plugins
  core       sync everything outside wp-content`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushTheme, "theme", "", "restrict themes mode to one theme directory")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	mode, err := domain.ParseMode(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[1])
	}

	return describeModeError(runEngine(cmd, engine.Request{
		Environment: args[0],
		Operation:   domain.OperationPush,
		Mode:        mode,
		Verbosity:   pipeline.Verbosity(flagVerbosity),
		Theme:       pushTheme,
		Cleanup:     true,
	}))
}
