package main

import (
	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/domain"
	"github.com/artpar/wpdeploy/internal/core/pipeline"
	"github.com/artpar/wpdeploy/internal/engine"
	"github.com/artpar/wpdeploy/internal/shell/envfile"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [environment]",
	Short: "Write a timestamped SQL dump of an environment's database",
	Long: `Dump writes a timestamped SQL dump of the named environment's database
into the local working copy. Without an argument it dumps the reserved
"local" environment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	env := envfile.LocalEnvironment
	if len(args) == 1 {
		env = args[0]
	}

	return runEngine(cmd, engine.Request{
		Environment: env,
		Operation:   domain.OperationDump,
		Mode:        domain.ModeNone,
		Verbosity:   pipeline.Verbosity(flagVerbosity),
	})
}
