package table

import (
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/refrecon/pkg/normalize"
	"github.com/agentstation/refrecon/pkg/pipeline"
	"github.com/agentstation/refrecon/pkg/profile"
	"github.com/agentstation/refrecon/pkg/records"
	"github.com/agentstation/refrecon/pkg/validity"
)

const missing = "-"

// ProfileToTableData converts profiling rows to table format.
func ProfileToTableData(rows []profile.Row) Data {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Table,
			r.Column,
			strconv.Itoa(r.NullCount),
			strconv.Itoa(r.DistinctCount),
		})
	}
	return Data{
		Title:           "Profile",
		Headers:         slices.Clone(profile.Header),
		Rows:            out,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// ResultToTableData converts a run result to summary tables.
func ResultToTableData(result *pipeline.Result) []Data {
	s := result.Stats
	summary := Data{
		Title:   "Summary",
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", result.Metadata.RunID},
			{"Joined records", strconv.Itoa(s.JoinedRows)},
			{"Valid", strconv.Itoa(s.ValidRows)},
			{"Invalid", strconv.Itoa(s.InvalidRows)},
			{"Retained", strconv.Itoa(s.RetainedRows)},
			{"Dropped (incomplete)", strconv.Itoa(s.DroppedRows)},
			{"Duration", result.Metadata.Duration.String()},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
	if result.Metadata.ProfileOutput != "" {
		summary.Rows = append(summary.Rows, []string{"Profiling report", result.Metadata.ProfileOutput})
	}
	if result.Metadata.ReportOutput != "" {
		summary.Rows = append(summary.Rows, []string{"Reconciliation report", result.Metadata.ReportOutput})
	}

	sections := []Data{
		summary,
		countsToTableData("Categories", "Category", s.Categories),
		countsToTableData("Failed conditions", "Condition", s.ConditionFailures),
	}
	if result.Coercion != nil && len(result.Coercion.Faults) > 0 {
		sections = append(sections, FaultsToTableData(result.Coercion.Faults))
	}
	return sections
}

// FaultsToTableData converts coercion faults to table format.
func FaultsToTableData(faults []normalize.Fault) Data {
	rows := make([][]string, 0, len(faults))
	for _, f := range faults {
		rows = append(rows, []string{f.Table, f.Column, strconv.Itoa(f.Count)})
	}
	return Data{
		Title:           "Coerced to missing",
		Headers:         []string{"Table", "Column", "Values"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// countsToTableData renders a count map sorted by descending count, then key.
func countsToTableData(title, label string, counts map[string]int) Data {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	return Data{
		Title:           title,
		Headers:         []string{label, "Records"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// RecordToTableData converts one joined record and its verdict to a
// property table.
func RecordToTableData(j *records.Joined, v validity.Verdict, missingColumns []string) Data {
	title := "Referral " + j.ReferralID()
	if j.Detail != nil && j.Detail.ID != nil {
		title += " / log " + *j.Detail.ID
	}

	rows := make([][]string, 0, len(records.ColumnNames())+4)
	for _, name := range records.ColumnNames() {
		value, ok := j.Value(name)
		if !ok {
			value = missing
		}
		rows = append(rows, []string{name, value})
	}
	if j.Status != nil && j.Status.LabelColumn != "" {
		if value, ok := j.Value(j.Status.LabelColumn); ok {
			rows = append(rows, []string{j.Status.LabelColumn, value})
		}
	}

	rows = append(rows,
		[]string{"validity case", v.CaseName},
		[]string{"granted reward failed", joinOrMissing(v.GrantedFailed)},
		[]string{"withheld reward failed", joinOrMissing(v.WithheldFailed)},
		[]string{"missing report columns", joinOrMissing(missingColumns)},
	)

	return Data{
		Title:   title,
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

func joinOrMissing(items []string) string {
	if len(items) == 0 {
		return missing
	}
	return strings.Join(items, ", ")
}
