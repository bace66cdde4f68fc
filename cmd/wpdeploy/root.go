package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/artpar/wpdeploy/internal/core/pipeline"
	"github.com/artpar/wpdeploy/internal/core/plan"
	"github.com/artpar/wpdeploy/internal/core/validation"
	"github.com/artpar/wpdeploy/internal/engine"
	"github.com/artpar/wpdeploy/internal/shell/cmdexec"
	"github.com/artpar/wpdeploy/internal/shell/envfile"
	"github.com/artpar/wpdeploy/internal/shell/journal"
	"github.com/artpar/wpdeploy/internal/shell/report"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess    = 0
	ExitUsage      = 1
	ExitValidation = 2
	ExitStepFailed = 3
	ExitSetup      = 4
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	flagConfig    string
	flagVerbosity int

	cfg    *Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wpdeploy",
	Short: "Deploy a WordPress site between the local working copy and named environments",
	Long: `wpdeploy moves databases, uploads, themes, plugins and core files between
the local working copy and named remote environments, driven entirely by the
environments declared in wpdeploy.yml. All remote work happens through
external tools (rsync, ssh, mysql, wp) invoked as opaque commands.`,
	Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbosity < 0 || flagVerbosity > 2 {
			return fmt.Errorf("verbosity must be 0, 1 or 2, got %d", flagVerbosity)
		}
		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = SetupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ./wpdeploy.yml)")
	rootCmd.PersistentFlags().IntVarP(&flagVerbosity, "verbosity", "V", 1,
		"step message verbosity: 0 every message plus commands, 1 summaries, 2 failures only")
}

// Execute runs the CLI and maps error categories to exit codes.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", report.Error.Render("error:"), err)

	var missingErr *validation.MissingKeysError
	switch {
	case errors.As(err, &missingErr):
		return ExitValidation
	case errors.Is(err, pipeline.ErrStepFailed):
		return ExitStepFailed
	case errors.Is(err, journal.ErrConnectionFailed), errors.Is(err, journal.ErrMigrationFailed):
		return ExitSetup
	default:
		return ExitUsage
	}
}

// =============================================================================
// Engine Wiring
// =============================================================================

// buildEngine assembles the per-process adapters around the core engines.
// The returned closer releases the journal store, when one is open.
func buildEngine() (*engine.Engine, func(), error) {
	executor := &cmdexec.ShellExecutor{}

	e := &engine.Engine{
		Source:   envfile.New(cfg.Environments),
		Executor: executor,
		Prober:   executor,
		Reporter: report.NewConsole(os.Stdout),
		Logger:   logger,
	}

	closer := func() {}
	if cfg.Journal.Enabled {
		if dir := filepath.Dir(cfg.Journal.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Warn("failed to create journal directory, continuing without history",
					"path", dir, "error", err)
				return e, closer, nil
			}
		}
		store, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			// History is an aid, not a precondition for deploying.
			logger.Warn("failed to open journal, continuing without history", "error", err)
			return e, closer, nil
		}
		e.Journal = store
		closer = func() { store.Close() }
	}
	return e, closer, nil
}

// runEngine executes one request and prints the closing summary.
func runEngine(cmd *cobra.Command, req engine.Request) error {
	e, closeJournal, err := buildEngine()
	if err != nil {
		return err
	}
	defer closeJournal()

	run, runErr := e.Run(cmd.Context(), req)
	if runErr != nil {
		if run != nil && len(run.Artifacts) > 0 {
			fmt.Fprintln(os.Stdout, report.Dim.Render("temporary artifacts possibly left behind:"))
			for _, a := range run.Artifacts {
				fmt.Fprintf(os.Stdout, "  %s (%s)\n", a.Path, a.Location)
			}
		}
		return runErr
	}

	if run.HookOutput != "" {
		fmt.Fprintln(os.Stdout, run.HookOutput)
	}
	return nil
}

// describeModeError converts an unknown (operation, mode) pair into a plain
// usage error naming the valid modes.
func describeModeError(err error) error {
	var modeErr *plan.UnknownModeError
	if errors.As(err, &modeErr) {
		return fmt.Errorf("%w (valid modes: database, uploads, themes, plugins, core)", err)
	}
	return err
}
