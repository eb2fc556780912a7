// Package inspect implements the inspect command, which explains how the
// records of one referral were reconciled.
package inspect

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/refrecon/internal/appcontext"
	"github.com/agentstation/refrecon/internal/cmd/output"
	"github.com/agentstation/refrecon/internal/cmd/table"
	"github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/pipeline"
	"github.com/agentstation/refrecon/pkg/records"
	"github.com/agentstation/refrecon/pkg/report"
	"github.com/agentstation/refrecon/pkg/validity"
)

// NewCommand creates the inspect command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <referral_id>",
		GroupID: "core",
		Short:   "Explain the reconciliation of one referral",
		Args:    cobra.ExactArgs(1),
		Long: `Inspect reconciles the datasets in memory and prints every joined record
of one referral: its attributes, source category, validity case, the
conditions each case failed, and the report columns it is missing.
Nothing is written.`,
		Example: `  refrecon inspect 5f1c9a                  # Show the records of referral 5f1c9a
  refrecon inspect 5f1c9a -o yaml          # Same, as YAML`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), cmd.OutOrStdout(), app, args[0])
		},
	}
}

// Record is the structured explanation of one joined record.
type Record struct {
	Values   map[string]string `json:"values" yaml:"values"`
	Verdict  validity.Verdict  `json:"verdict" yaml:"verdict"`
	Retained bool              `json:"retained" yaml:"retained"`
	Missing  []string          `json:"missing_report_columns,omitempty" yaml:"missing_report_columns,omitempty"`
}

// NewRecord explains j.
func NewRecord(j *records.Joined) Record {
	values := make(map[string]string)
	for _, name := range records.ColumnNames() {
		if v, ok := j.Value(name); ok {
			values[name] = v
		}
	}
	if j.Status != nil && j.Status.LabelColumn != "" {
		if v, ok := j.Value(j.Status.LabelColumn); ok {
			values[j.Status.LabelColumn] = v
		}
	}
	missing := report.Missing(j)
	return Record{
		Values:   values,
		Verdict:  validity.Explain(j),
		Retained: len(missing) == 0,
		Missing:  missing,
	}
}

// Execute reconciles in memory and prints the records of referralID.
func Execute(ctx context.Context, w io.Writer, app appcontext.Interface, referralID string) error {
	ctx = logging.WithLogger(ctx, app.Logger())

	set, err := app.Loader().Load(ctx)
	if err != nil {
		return err
	}
	reconciler, err := app.Reconciler(pipeline.WithoutOutputs())
	if err != nil {
		return err
	}
	all, err := reconciler.Records(ctx, set)
	if err != nil {
		return err
	}

	var matched []*records.Joined
	for _, j := range all {
		if j.ReferralID() == referralID {
			matched = append(matched, j)
		}
	}
	if len(matched) == 0 {
		return errors.NewNotFoundError("referral", referralID)
	}

	format := output.DetectFormat(app.OutputFormat())
	if format.IsStructured() {
		out := make([]Record, len(matched))
		for i, j := range matched {
			out[i] = NewRecord(j)
		}
		return output.NewFormatter(format).Format(w, out)
	}

	sections := make([]table.Data, len(matched))
	for i, j := range matched {
		sections[i] = table.RecordToTableData(j, validity.Explain(j), report.Missing(j))
	}
	return output.NewFormatter(format).Format(w, sections)
}
