// Package profile computes per-column null and distinct counts of the raw
// source tables.
package profile

import (
	"strconv"

	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// Header is the column layout of the profiling report.
var Header = []string{"table", "column", "null_count", "distinct_count"}

// Row profiles one column of one table.
type Row struct {
	Table         string `json:"table" yaml:"table"`
	Column        string `json:"column" yaml:"column"`
	NullCount     int    `json:"null_count" yaml:"null_count"`
	DistinctCount int    `json:"distinct_count" yaml:"distinct_count"`
}

// Set profiles every source of set, in source order.
func Set(set *datasets.Set) []Row {
	var rows []Row
	for _, id := range datasets.All() {
		rows = append(rows, Table(set.Table(id), id.ProfileLabel())...)
	}
	return rows
}

// Table profiles the columns of t under the given label. A missing value
// counts as one distinct value when present.
func Table(t *tabular.Table, label string) []Row {
	rows := make([]Row, len(t.Columns))
	for c, name := range t.Columns {
		nulls := 0
		seen := make(map[string]struct{})
		for _, r := range t.Rows {
			cell := r[c]
			if cell.Null {
				nulls++
				continue
			}
			seen[cell.Value] = struct{}{}
		}
		distinct := len(seen)
		if nulls > 0 {
			distinct++
		}
		rows[c] = Row{Table: label, Column: name, NullCount: nulls, DistinctCount: distinct}
	}
	return rows
}

// ToTable renders the profile as a tabular relation.
func ToTable(rows []Row) *tabular.Table {
	t := tabular.New("profiling", Header)
	for _, r := range rows {
		// Row widths always match Header.
		_ = t.Append(tabular.Row{
			tabular.Text(r.Table),
			tabular.Text(r.Column),
			tabular.Text(strconv.Itoa(r.NullCount)),
			tabular.Text(strconv.Itoa(r.DistinctCount)),
		})
	}
	return t
}

// Write writes the profiling report to path as CSV.
func Write(path string, rows []Row) error {
	return tabular.WriteFile(path, ToTable(rows))
}
