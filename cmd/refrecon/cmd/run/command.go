// Package run implements the run command, which performs a full
// reconciliation and writes both reports.
package run

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/refrecon/internal/appcontext"
	"github.com/agentstation/refrecon/internal/cmd/output"
	"github.com/agentstation/refrecon/internal/cmd/table"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/normalize"
	"github.com/agentstation/refrecon/pkg/pipeline"
)

// Flags holds the run command flags.
type Flags struct {
	ProfileOutput string
	ReportOutput  string
	DryRun        bool
}

// NewCommand creates the run command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Reconcile the referral datasets and write the reports",
		Args:    cobra.NoArgs,
		Long: `Run reads the seven source datasets, profiles them, and reconciles every
referral into one report.

The command will:
• Profile every column of the raw sources (null and distinct counts)
• Coerce dates, numbers, enums and booleans; unparseable values become missing
• Join each referral with its logs, status, reward, transaction, referrer and lead
• Derive the referral source category and the business logic validity
• Drop records with any missing report column
• Write the profiling report and the reconciliation report`,
		Example: `  refrecon run                                   # Use ./data and default outputs
  refrecon run --data-dir ./exports              # Read sources from ./exports
  refrecon run --report-output out/report.csv    # Write the report elsewhere
  refrecon run --dry-run -o json                 # Reconcile without writing files`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ProfileOutput, "profile-output", "", "profiling report path (default from config, profiling.csv)")
	cmd.Flags().StringVar(&flags.ReportOutput, "report-output", "", "reconciliation report path (default from config, output_report.csv)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "reconcile without writing the report files")

	return cmd
}

// Summary is the structured form of a run result.
type Summary struct {
	RunID          string              `json:"run_id" yaml:"run_id"`
	Duration       string              `json:"duration" yaml:"duration"`
	ProfileOutput  string              `json:"profile_output,omitempty" yaml:"profile_output,omitempty"`
	ReportOutput   string              `json:"report_output,omitempty" yaml:"report_output,omitempty"`
	Stats          pipeline.Statistics `json:"stats" yaml:"stats"`
	CoercionFaults []normalize.Fault   `json:"coercion_faults,omitempty" yaml:"coercion_faults,omitempty"`
}

// NewSummary converts a result into its structured summary.
func NewSummary(result *pipeline.Result) Summary {
	s := Summary{
		RunID:         result.Metadata.RunID,
		Duration:      result.Metadata.Duration.Round(time.Millisecond).String(),
		ProfileOutput: result.Metadata.ProfileOutput,
		ReportOutput:  result.Metadata.ReportOutput,
		Stats:         result.Stats,
	}
	if result.Coercion != nil {
		s.CoercionFaults = result.Coercion.Faults
	}
	return s
}

// Execute loads the sources, runs the reconciliation and prints the summary.
func Execute(ctx context.Context, w io.Writer, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	format := output.DetectFormat(app.OutputFormat())

	set, err := app.Loader().Load(ctx)
	if err != nil {
		return err
	}

	var opts []pipeline.Option
	if flags.ProfileOutput != "" {
		opts = append(opts, pipeline.WithProfileOutput(flags.ProfileOutput))
	}
	if flags.ReportOutput != "" {
		opts = append(opts, pipeline.WithReportOutput(flags.ReportOutput))
	}
	if flags.DryRun {
		opts = append(opts, pipeline.WithoutOutputs())
	}

	reconciler, err := app.Reconciler(opts...)
	if err != nil {
		return err
	}
	result, err := reconciler.Run(ctx, set)
	if err != nil {
		return err
	}
	logger.Debug().Msg(result.Summary())

	if format.IsStructured() {
		return output.NewFormatter(format).Format(w, NewSummary(result))
	}
	if err := output.NewFormatter(format).Format(w, table.ResultToTableData(result)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "DONE, rows: %d\n", result.Stats.RetainedRows)
	return err
}
