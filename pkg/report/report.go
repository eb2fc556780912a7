// Package report builds the reconciliation report: a fixed projection of
// the joined records from which incomplete rows are dropped.
package report

import (
	"fmt"
	"iter"
	"slices"

	"github.com/agentstation/refrecon/pkg/records"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// Name is the table name of the report.
const Name = "reconciliation"

// columns is the report layout, in output order.
var columns = []string{
	"referral_details_id",
	"referral_id",
	"referral_source",
	"referral_source_category",
	"referral_at",
	"referrer_id",
	"name",
	"phone_number",
	"homeclub",
	"referee_id",
	"referee_name",
	"referee_phone",
	"description",
	"transaction_id",
	"transaction_status",
	"transaction_at",
	"transaction_location",
	"transaction_type",
	"updated_at",
	"created_at",
	"is_business_logic_valid",
}

var projection = mustResolve(columns)

func mustResolve(names []string) []records.Column {
	cols := make([]records.Column, len(names))
	for i, n := range names {
		c, ok := records.LookupColumn(n)
		if !ok {
			panic(fmt.Sprintf("report: column %q is not part of the joined schema", n))
		}
		cols[i] = c
	}
	return cols
}

// Columns returns the report layout.
func Columns() []string {
	return slices.Clone(columns)
}

// Project renders the report row of j. complete is false when any column
// is missing; the returned row then holds missing cells for those columns.
func Project(j *records.Joined) (row tabular.Row, complete bool) {
	row = make(tabular.Row, len(projection))
	complete = true
	for i, c := range projection {
		v, ok := c.Value(j)
		if !ok {
			row[i] = tabular.Missing
			complete = false
			continue
		}
		row[i] = tabular.Text(v)
	}
	return row, complete
}

// Missing lists the report columns j has no value for.
func Missing(j *records.Joined) []string {
	var names []string
	for i, c := range projection {
		if _, ok := c.Value(j); !ok {
			names = append(names, columns[i])
		}
	}
	return names
}

// Stats counts what Build kept.
type Stats struct {
	Considered int `json:"considered" yaml:"considered"`
	Retained   int `json:"retained" yaml:"retained"`
	Dropped    int `json:"dropped" yaml:"dropped"`
}

// Build projects every record and keeps only complete rows, in input order.
func Build(in iter.Seq[*records.Joined]) (*tabular.Table, Stats) {
	t := tabular.New(Name, columns)
	var stats Stats
	for j := range in {
		stats.Considered++
		row, complete := Project(j)
		if !complete {
			stats.Dropped++
			continue
		}
		t.Rows = append(t.Rows, row)
		stats.Retained++
	}
	return t, stats
}

// Write writes the report to path as CSV.
func Write(path string, t *tabular.Table) error {
	return tabular.WriteFile(path, t)
}
