// Package profile implements the profile command.
package profile

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/refrecon/internal/appcontext"
	"github.com/agentstation/refrecon/internal/cmd/output"
	"github.com/agentstation/refrecon/internal/cmd/table"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/profile"
)

// Flags holds the profile command flags.
type Flags struct {
	Output  string
	NoWrite bool
}

// NewCommand creates the profile command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "profile",
		GroupID: "core",
		Short:   "Profile the raw source datasets",
		Args:    cobra.NoArgs,
		Long: `Profile reads the seven source datasets and reports, for every column,
how many values are missing and how many distinct values it holds. A
missing value counts as one distinct value.`,
		Example: `  refrecon profile                        # Print and write profiling.csv
  refrecon profile --no-write -o markdown # Print a markdown table only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Output, "profile-output", "", "profiling report path (default from config, profiling.csv)")
	cmd.Flags().BoolVar(&flags.NoWrite, "no-write", false, "print the profile without writing the file")

	return cmd
}

// Execute profiles the sources, writes the report and prints it.
func Execute(ctx context.Context, w io.Writer, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	set, err := app.Loader().Load(ctx)
	if err != nil {
		return err
	}
	rows := profile.Set(set)

	path := flags.Output
	if path == "" {
		path = app.ProfileOutput()
	}
	if !flags.NoWrite && path != "" {
		if err := profile.Write(path, rows); err != nil {
			return err
		}
		logger.Info().Str("path", path).Int("columns", len(rows)).Msg("Wrote profiling report")
	}

	format := output.DetectFormat(app.OutputFormat())
	if format.IsStructured() {
		return output.NewFormatter(format).Format(w, rows)
	}
	return output.NewFormatter(format).Format(w, table.ProfileToTableData(rows))
}
