package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
	"github.com/artpar/wpdeploy/internal/engine"
)

var (
	pullTheme   string
	pullBackup  bool
	pullCleanup bool
)

var pullCmd = &cobra.Command{
	Use:   "pull <environment> <mode>",
	Short: "Transfer one artifact category from an environment to the local working copy",
	Long: `Pull transfers one artifact category from a remote environment into the
local working copy. The modes match push. For the database mode, --backup
dumps the current local database first and --cleanup controls whether the
transferred dump files are removed afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVar(&pullTheme, "theme", "", "restrict themes mode to one theme directory")
	pullCmd.Flags().BoolVar(&pullBackup, "backup", false, "back up the local database before importing")
	pullCmd.Flags().BoolVar(&pullCleanup, "cleanup", true, "remove transferred dump files afterwards")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	mode, err := domain.ParseMode(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[1])
	}

	return describeModeError(runEngine(cmd, engine.Request{
		Environment: args[0],
		Operation:   domain.OperationPull,
		Mode:        mode,
		Verbosity:   pipeline.Verbosity(flagVerbosity),
		Theme:       pullTheme,
		Backup:      pullBackup,
		Cleanup:     pullCleanup,
	}))
}
