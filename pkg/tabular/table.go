// Package tabular holds the in-memory relations the pipeline reads and
// writes. A Table is a named, ordered set of columns whose cells are
// either a string value or missing.
package tabular

import (
	"fmt"
	"slices"

	"github.com/agentstation/refrecon/internal/utils/ptr"
)

// Cell is a single value of a row. Null marks a missing value.
type Cell struct {
	Value string
	Null  bool
}

// Missing is the missing cell.
var Missing = Cell{Null: true}

// Text returns a present cell holding s.
func Text(s string) Cell {
	return Cell{Value: s}
}

// String renders the cell for display; missing cells render empty.
func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Value
}

// Ptr returns nil for a missing cell and a pointer to a copy of the value otherwise.
func (c Cell) Ptr() *string {
	if c.Null {
		return nil
	}
	return ptr.String(c.Value)
}

// Row is one record of a table, aligned with Table.Columns.
type Row []Cell

// Table is a named relation.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	index map[string]int
}

// New creates an empty table with the given columns.
func New(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: slices.Clone(columns),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, exists := t.index[c]; !exists {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row Row) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, expected %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Get returns the cell of the named column in row i. Unknown columns read as missing.
func (t *Table) Get(i int, column string) Cell {
	c, ok := t.Column(column)
	if !ok || i < 0 || i >= len(t.Rows) {
		return Missing
	}
	return t.Rows[i][c]
}

// Rename returns a copy of the table with columns renamed according to names.
// Columns not present in names keep their name. Rows are shared with the receiver.
func (t *Table) Rename(names map[string]string) *Table {
	columns := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if to, ok := names[c]; ok {
			columns[i] = to
		} else {
			columns[i] = c
		}
	}
	out := &Table{Name: t.Name, Columns: columns, Rows: t.Rows}
	out.reindex()
	return out
}
