package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/internal/appcontext"
	"github.com/agentstation/refrecon/internal/fixtures"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/errors"
)

func newMock(t *testing.T, format string) *appcontext.Mock {
	t.Helper()
	dataDir := t.TempDir()
	fixtures.WriteDir(t, dataDir)
	return &appcontext.Mock{
		LoaderFunc:       func() *datasets.Loader { return datasets.NewLoader(dataDir) },
		OutputFormatFunc: func() string { return format },
	}
}

func inspectJSON(t *testing.T, id string) []Record {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), &buf, newMock(t, "json"), id))
	var out []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestExecuteJSON(t *testing.T) {
	t.Run("valid referral", func(t *testing.T) {
		out := inspectJSON(t, "r1")
		require.Len(t, out, 1)
		assert.True(t, out[0].Verdict.Valid)
		assert.Equal(t, "granted_reward", out[0].Verdict.CaseName)
		assert.True(t, out[0].Retained)
		assert.Equal(t, "Online", out[0].Values["referral_source_category"])
		assert.Equal(t, "Berhasil", out[0].Values["status_name"])
	})

	t.Run("cross month transaction", func(t *testing.T) {
		out := inspectJSON(t, "r3")
		require.Len(t, out, 1)
		assert.False(t, out[0].Verdict.Valid)
		assert.Contains(t, out[0].Verdict.GrantedFailed, "transaction_same_month")
		assert.Equal(t, "Facebook", out[0].Values["referral_source_category"])
	})

	t.Run("fan out", func(t *testing.T) {
		out := inspectJSON(t, "r6")
		assert.Len(t, out, 2)
	})

	t.Run("dropped", func(t *testing.T) {
		out := inspectJSON(t, "r4")
		require.Len(t, out, 1)
		assert.False(t, out[0].Retained)
		assert.Contains(t, out[0].Missing, "referral_details_id")
	})
}

func TestExecuteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), &buf, newMock(t, "table"), "r5"))
	assert.Contains(t, buf.String(), "r5")
	assert.Contains(t, buf.String(), "reward_value_missing")
}

func TestExecuteNotFound(t *testing.T) {
	var buf bytes.Buffer
	err := Execute(context.Background(), &buf, newMock(t, "table"), "missing")
	require.Error(t, err)

	var notFound *errors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}
