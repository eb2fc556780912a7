package tabular_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/tabular"
)

func TestDecode(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		data := []byte(" id , name\n1,Ana\n2,\n")
		table, warnings, err := tabular.Decode("people", data)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"id", "name"}, table.Columns)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, tabular.Text("Ana"), table.Get(0, "name"))
		assert.True(t, table.Get(1, "name").Null)
	})

	t.Run("missing tokens", func(t *testing.T) {
		data := []byte("v\nNaN\nnull\nNone\nN/A\n<NA>\nvalue\n")
		table, _, err := tabular.Decode("t", data)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			assert.True(t, table.Get(i, "v").Null, "row %d", i)
		}
		assert.False(t, table.Get(5, "v").Null)
	})

	t.Run("short and long rows", func(t *testing.T) {
		data := []byte("a,b,c\n1,2\n1,2,3,4\n")
		table, warnings, err := tabular.Decode("t", data)
		require.NoError(t, err)
		require.Len(t, warnings, 2)
		assert.Equal(t, 2, warnings[0].Row)
		assert.Contains(t, warnings[0].Message, "padding")
		assert.Contains(t, warnings[1].Message, "truncating")
		assert.True(t, table.Get(0, "c").Null)
		assert.Equal(t, "3", table.Get(1, "c").Value)
	})

	t.Run("utf-8 bom stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id\n1\n")...)
		table, _, err := tabular.Decode("t", data)
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, table.Columns)
	})

	t.Run("utf-16le", func(t *testing.T) {
		data := []byte{0xFF, 0xFE, 'i', 0, 'd', 0, '\n', 0, '7', 0, '\n', 0}
		table, _, err := tabular.Decode("t", data)
		require.NoError(t, err)
		assert.Equal(t, "7", table.Get(0, "id").Value)
	})

	t.Run("latin-1 fallback", func(t *testing.T) {
		data := []byte("name\nJos\xe9\n")
		table, _, err := tabular.Decode("t", data)
		require.NoError(t, err)
		assert.Equal(t, "José", table.Get(0, "name").Value)
	})

	t.Run("duplicate header", func(t *testing.T) {
		table, warnings, err := tabular.Decode("t", []byte("id,id\n1,2\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "id.1"}, table.Columns)
		assert.Len(t, warnings, 1)
	})

	t.Run("header only is empty table", func(t *testing.T) {
		table, _, err := tabular.Decode("t", []byte("id,name\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("empty file", func(t *testing.T) {
		_, _, err := tabular.Decode("t", nil)
		require.Error(t, err)
		var parseErr *pkgerrors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lead_log.csv")
	require.NoError(t, os.WriteFile(path, []byte("lead_id\nL1\n"), 0o644))

	table, _, err := tabular.ReadFile(path, "lead_log")
	require.NoError(t, err)
	assert.Equal(t, "lead_log", table.Name)
	assert.Equal(t, 1, table.Len())

	_, _, err = tabular.ReadFile(filepath.Join(dir, "missing.csv"), "x")
	var ioErr *pkgerrors.IOError
	assert.ErrorAs(t, err, &ioErr)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, _, err = tabular.ReadFile(empty, "empty")
	var parseErr *pkgerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, empty, parseErr.File)
}

func TestEncode(t *testing.T) {
	table := tabular.New("out", []string{"id", "note"})
	require.NoError(t, table.Append(tabular.Row{tabular.Text("1"), tabular.Text("a,b")}))
	require.NoError(t, table.Append(tabular.Row{tabular.Text("2"), tabular.Missing}))
	assert.Error(t, table.Append(tabular.Row{tabular.Text("3")}))

	var buf bytes.Buffer
	require.NoError(t, tabular.NewEncoder(&buf).Encode(table))
	assert.Equal(t, "id,note\n1,\"a,b\"\n2,\n", buf.String())
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := tabular.New("out", []string{"k"})
	require.NoError(t, table.Append(tabular.Row{tabular.Text("v")}))
	require.NoError(t, tabular.WriteFile(path, table))

	back, _, err := tabular.ReadFile(path, "out")
	require.NoError(t, err)
	assert.Equal(t, table.Columns, back.Columns)
	assert.Equal(t, table.Rows, back.Rows)
}

func TestRename(t *testing.T) {
	table := tabular.New("statuses", []string{"id", "created_at", "description"})
	renamed := table.Rename(map[string]string{"id": "status_id", "created_at": "status_created_at"})

	assert.Equal(t, []string{"status_id", "status_created_at", "description"}, renamed.Columns)
	assert.Equal(t, []string{"id", "created_at", "description"}, table.Columns)
	assert.True(t, renamed.HasColumn("status_id"))
	assert.False(t, renamed.HasColumn("id"))
}
