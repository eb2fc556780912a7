package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/internal/cmd/table"
)

func TestTitleHeaders(t *testing.T) {
	got := titleHeaders([]string{"table", "null_count", "distinct_count", "Property"})
	assert.Equal(t, []string{"Table", "Null Count", "Distinct Count", "Property"}, got)
}

func TestMarkdownFormatterTitlesHeaders(t *testing.T) {
	data := table.Data{
		Title:   "Profile",
		Headers: []string{"table", "column", "null_count", "distinct_count"},
		Rows:    [][]string{{"leads", "lead_id", "0", "6"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "## Profile")
	assert.Contains(t, out, "Null Count")
	assert.Contains(t, out, "Distinct Count")
	assert.Contains(t, out, "lead_id")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatMarkdown, DetectFormat("md"))
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}
