package pipeline

import (
	"fmt"
	"time"

	"github.com/agentstation/refrecon/pkg/normalize"
	"github.com/agentstation/refrecon/pkg/profile"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// Unclassified is the category key of records without a source category.
const Unclassified = "unclassified"

// Result contains the outcome of a reconciliation run.
type Result struct {
	// Outputs
	Profile []profile.Row
	Report  *tabular.Table

	// Coercion faults found while normalizing
	Coercion *normalize.Report

	Stats    Statistics
	Metadata ResultMetadata
}

// Statistics counts the records of a run.
type Statistics struct {
	SourceRows   map[string]int `json:"source_rows" yaml:"source_rows"`
	JoinedRows   int            `json:"joined_rows" yaml:"joined_rows"`
	RetainedRows int            `json:"retained_rows" yaml:"retained_rows"`
	DroppedRows  int            `json:"dropped_rows" yaml:"dropped_rows"`
	ValidRows    int            `json:"valid_rows" yaml:"valid_rows"`
	InvalidRows  int            `json:"invalid_rows" yaml:"invalid_rows"`

	// Categories counts joined records per source category.
	Categories map[string]int `json:"categories" yaml:"categories"`

	// ConditionFailures counts, over invalid records, how often each
	// condition failed, keyed "<case>.<condition>".
	ConditionFailures map[string]int `json:"condition_failures" yaml:"condition_failures"`
}

// ResultMetadata contains metadata about the run.
type ResultMetadata struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	StartTime     time.Time     `json:"start_time" yaml:"start_time"`
	EndTime       time.Time     `json:"end_time" yaml:"end_time"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	ProfileOutput string        `json:"profile_output,omitempty" yaml:"profile_output,omitempty"`
	ReportOutput  string        `json:"report_output,omitempty" yaml:"report_output,omitempty"`
}

// NewResult creates a new result with defaults.
func NewResult(runID string, start time.Time) *Result {
	return &Result{
		Coercion: &normalize.Report{},
		Stats: Statistics{
			SourceRows:        make(map[string]int),
			Categories:        make(map[string]int),
			ConditionFailures: make(map[string]int),
		},
		Metadata: ResultMetadata{
			RunID:     runID,
			StartTime: start,
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize(end time.Time) {
	r.Metadata.EndTime = end
	r.Metadata.Duration = end.Sub(r.Metadata.StartTime)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Reconciled %d records: %d valid, %d invalid; %d retained, %d dropped as incomplete",
		r.Stats.JoinedRows, r.Stats.ValidRows, r.Stats.InvalidRows, r.Stats.RetainedRows, r.Stats.DroppedRows)
}
