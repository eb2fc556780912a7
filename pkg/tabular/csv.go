package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/refrecon/pkg/constants"
	pkgerrors "github.com/agentstation/refrecon/pkg/errors"
)

// Warning is a non-fatal issue found while decoding a CSV file.
type Warning struct {
	Row     int    `json:"row" yaml:"row"`
	Message string `json:"message" yaml:"message"`
}

// Decode parses CSV bytes into a table named name. The first record is the
// header. Rows with too few fields are padded with missing cells and rows
// with too many are truncated; both are reported as warnings. A file
// without a header is an error, a header with no rows is an empty table.
func Decode(name string, data []byte) (*Table, []Warning, error) {
	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, nil, pkgerrors.NewParseError("csv", name, "encoding detection failed", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, pkgerrors.NewParseError("csv", name, "empty file: no header row found", err)
		}
		return nil, nil, pkgerrors.WrapParse("csv", name, err)
	}

	var warnings []Warning
	columns := normalizeHeader(header, &warnings)
	table := New(name, columns)

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			warnings = append(warnings, Warning{Row: line, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}

		if len(record) != len(columns) {
			if len(record) < len(columns) {
				warnings = append(warnings, Warning{
					Row:     line,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding with missing values", len(record), len(columns)),
				})
			} else {
				warnings = append(warnings, Warning{
					Row:     line,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(record), len(columns)),
				})
			}
		}

		row := make(Row, len(columns))
		for i := range columns {
			if i < len(record) {
				row[i] = ParseCell(record[i])
			} else {
				row[i] = Missing
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, warnings, nil
}

// normalizeHeader trims and NFC-normalizes header names. Repeated names
// get a ".N" suffix so every column stays addressable.
func normalizeHeader(header []string, warnings *[]Warning) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := norm.NFC.String(strings.TrimSpace(h))
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			renamed := fmt.Sprintf("%s.%d", name, n+1)
			*warnings = append(*warnings, Warning{
				Row:     1,
				Message: fmt.Sprintf("duplicate column %q renamed to %q", name, renamed),
			})
			name = renamed
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

// ReadFile decodes the CSV file at path into a table named name.
func ReadFile(path, name string) (*Table, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, pkgerrors.WrapIO("read", path, err)
	}
	table, warnings, err := Decode(name, data)
	if err != nil {
		var parseErr *pkgerrors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, nil, err
	}
	return table, warnings, nil
}

// Encoder writes tables as CSV. Missing cells are written as empty fields.
type Encoder struct {
	w *csv.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Encode writes the header followed by every row.
func (e *Encoder) Encode(t *Table) error {
	if err := e.w.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = cell.String()
		}
		if err := e.w.Write(record); err != nil {
			return err
		}
	}
	e.w.Flush()
	return e.w.Error()
}

// WriteFile encodes t into the file at path, replacing any existing file.
func WriteFile(path string, t *Table) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return pkgerrors.WrapIO("create", path, err)
	}
	if err := NewEncoder(f).Encode(t); err != nil {
		_ = f.Close()
		return pkgerrors.WrapIO("write", path, err)
	}
	return pkgerrors.WrapIO("close", path, f.Close())
}
