// Package pipeline runs a reconciliation: it profiles the raw sources,
// normalizes and joins them, classifies and validates every joined record,
// and writes the profiling and reconciliation reports.
package pipeline

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/refrecon/pkg/classify"
	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/join"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/normalize"
	"github.com/agentstation/refrecon/pkg/profile"
	"github.com/agentstation/refrecon/pkg/records"
	"github.com/agentstation/refrecon/pkg/report"
	"github.com/agentstation/refrecon/pkg/validity"
)

// Reconciler runs reconciliations over loaded source sets.
type Reconciler interface {
	// Run reconciles set and writes the configured reports.
	Run(ctx context.Context, set *datasets.Set) (*Result, error)

	// Records returns every classified and validated joined record of set
	// without writing anything.
	Records(ctx context.Context, set *datasets.Set) ([]*records.Joined, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	profileOutput string
	reportOutput  string
	clock         func() time.Time
	runID         func() string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		profileOutput: options.profileOutput,
		reportOutput:  options.reportOutput,
		clock:         options.clock,
		runID:         options.runID,
	}, nil
}

// Run performs the reconciliation step by step.
func (r *reconciler) Run(ctx context.Context, set *datasets.Set) (*Result, error) {
	if set == nil {
		return nil, &errors.ValidationError{Field: "set", Message: "cannot be nil"}
	}

	result := NewResult(r.runID(), r.clock())
	ctx = logging.WithRunID(ctx, result.Metadata.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Starting reconciliation")

	// Step 1: Profile the raw sources
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("profile", err)
	}
	for _, id := range datasets.All() {
		result.Stats.SourceRows[id.String()] = set.Table(id).Len()
	}
	result.Profile = profile.Set(set)
	logger.Info().Int("columns", len(result.Profile)).Msg("Profiled sources")

	// Step 2: Normalize
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("normalize", err)
	}
	rel, coercion := normalize.Normalize(logging.WithStage(ctx, "normalize"), set)
	result.Coercion = coercion
	logger.Info().
		Int("referrals", len(rel.Referrals)).
		Int("coercion_faults", coercion.Total()).
		Msg("Normalized sources")

	// Step 3: Join, classify, validate and project
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("reconcile", err)
	}
	table, stats := report.Build(tally(evaluate(rel), result))
	result.Report = table
	result.Stats.RetainedRows = stats.Retained
	result.Stats.DroppedRows = stats.Dropped
	logger.Info().
		Int("joined", result.Stats.JoinedRows).
		Int("valid", result.Stats.ValidRows).
		Int("invalid", result.Stats.InvalidRows).
		Msg("Reconciled records")
	logger.Debug().Int("dropped", stats.Dropped).Msg("Dropped incomplete records")

	// Step 4: Write reports
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("write", err)
	}
	if r.profileOutput != "" {
		if err := ensureDir(r.profileOutput); err != nil {
			return nil, err
		}
		if err := profile.Write(r.profileOutput, result.Profile); err != nil {
			return nil, err
		}
		result.Metadata.ProfileOutput = r.profileOutput
		logger.Info().Str("path", r.profileOutput).Msg("Wrote profiling report")
	}
	if r.reportOutput != "" {
		if err := ensureDir(r.reportOutput); err != nil {
			return nil, err
		}
		if err := report.Write(r.reportOutput, table); err != nil {
			return nil, err
		}
		result.Metadata.ReportOutput = r.reportOutput
		logger.Info().
			Str("path", r.reportOutput).
			Int("rows", table.Len()).
			Msg("Wrote reconciliation report")
	}

	result.Finalize(r.clock())
	logger.Info().Dur("duration", result.Metadata.Duration).Msg("Reconciliation completed")
	return result, nil
}

// Records returns the classified and validated joined records of set.
func (r *reconciler) Records(ctx context.Context, set *datasets.Set) ([]*records.Joined, error) {
	if set == nil {
		return nil, &errors.ValidationError{Field: "set", Message: "cannot be nil"}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("records", err)
	}
	rel, _ := normalize.Normalize(ctx, set)
	return join.Collect(evaluate(rel)), nil
}

// evaluate joins the relations and derives the category and validity of
// each record.
func evaluate(rel *normalize.Relations) join.Relation {
	return validity.Apply(classify.Apply(join.Join(rel)))
}

// tally counts every record flowing to the report builder.
func tally(in join.Relation, result *Result) iter.Seq[*records.Joined] {
	stats := &result.Stats
	return func(yield func(*records.Joined) bool) {
		for j := range in {
			stats.JoinedRows++
			category := Unclassified
			if j.SourceCategory != nil {
				category = *j.SourceCategory
			}
			stats.Categories[category]++

			if j.BusinessLogicValid {
				stats.ValidRows++
			} else {
				stats.InvalidRows++
				v := validity.Explain(j)
				for _, name := range v.GrantedFailed {
					stats.ConditionFailures[validity.GrantedReward.String()+"."+name]++
				}
				for _, name := range v.WithheldFailed {
					stats.ConditionFailures[validity.WithheldReward.String()+"."+name]++
				}
			}
			if !yield(j) {
				return
			}
		}
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create directory", dir, err)
	}
	return nil
}
