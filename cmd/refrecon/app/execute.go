package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/refrecon/internal/cmd/output"
	"github.com/agentstation/refrecon/pkg/errors"
)

// Execute runs the refrecon CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "refrecon",
		Short:   "Referral reward reconciliation",
		Version: a.version,
		Long: `Refrecon reconciles the records of a referral reward program, spread
across seven tabular datasets, into one report that flags whether each
referral's reward was handled according to policy.

It reads user_referrals, user_referral_logs, user_logs,
user_referral_statuses, referral_rewards, paid_transactions and lead_log
from the data directory, profiles them, joins them per referral, derives
each referral's source category and validity, and writes a profiling
report and a reconciliation report.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.refrecon.yaml)")
	rootCmd.PersistentFlags().String("data-dir", a.config.DataDir, "directory holding the source CSV files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("refrecon {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	flags := Flags{
		Verbose:  mustGetBool(cmd, "verbose"),
		Quiet:    mustGetBool(cmd, "quiet"),
		NoColor:  mustGetBool(cmd, "no-color"),
		Format:   mustGetString(cmd, "format"),
		LogLevel: mustGetString(cmd, "log-level"),
		DataDir:  mustGetString(cmd, "data-dir"),
		Changed:  make(map[string]bool),
	}
	for _, name := range []string{"verbose", "quiet", "no-color", "data-dir"} {
		flags.Changed[name] = cmd.Flags().Changed(name)
	}
	a.config.UpdateFromFlags(flags)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	if !a.fixedLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
	}

	return nil
}

// Exit statuses returned by the CLI.
const (
	ExitFailure  = 1
	ExitBadInput = 2
	ExitCanceled = 130
)

// ExitOnError prints an error and exits with the status for its kind.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps an error to the process exit status. Missing sources and
// referrals and invalid input exit with ExitBadInput, an interrupted run
// with ExitCanceled.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsCanceled(err):
		return ExitCanceled
	case errors.IsNotFound(err), errors.IsValidationError(err):
		return ExitBadInput
	default:
		return ExitFailure
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
