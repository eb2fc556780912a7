package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/internal/fixtures"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/profile"
	"github.com/agentstation/refrecon/pkg/tabular"
)

func TestTable(t *testing.T) {
	table, _, err := tabular.Decode("t", []byte("a,b,c\n1,x,\n1,,\n2,y,\n"))
	require.NoError(t, err)

	rows := profile.Table(table, "label")
	assert.Equal(t, []profile.Row{
		{Table: "label", Column: "a", NullCount: 0, DistinctCount: 2},
		{Table: "label", Column: "b", NullCount: 1, DistinctCount: 3},
		{Table: "label", Column: "c", NullCount: 3, DistinctCount: 1},
	}, rows)
}

func TestSet(t *testing.T) {
	set := fixtures.Set(t, nil)
	rows := profile.Set(set)

	t.Run("labels in source order", func(t *testing.T) {
		var labels []string
		for _, r := range rows {
			if len(labels) == 0 || labels[len(labels)-1] != r.Table {
				labels = append(labels, r.Table)
			}
		}
		assert.Equal(t, []string{
			"user_referrals", "user_referral_logs", "user_logs",
			"statuses", "rewards", "transactions", "leads",
		}, labels)
	})

	t.Run("null count plus present values equals row count", func(t *testing.T) {
		byLabel := make(map[string]*tabular.Table)
		for _, id := range datasets.All() {
			byLabel[id.ProfileLabel()] = set.Table(id)
		}
		for _, r := range rows {
			table := byLabel[r.Table]
			present := 0
			for i := 0; i < table.Len(); i++ {
				if !table.Get(i, r.Column).Null {
					present++
				}
			}
			assert.Equal(t, table.Len(), r.NullCount+present, "%s.%s", r.Table, r.Column)
		}
	})

	t.Run("raw columns before renaming", func(t *testing.T) {
		var cols []string
		for _, r := range rows {
			if r.Table == "statuses" {
				cols = append(cols, r.Column)
			}
		}
		assert.Equal(t, []string{"id", "status_name", "created_at"}, cols)
	})

	t.Run("missing reward ids counted", func(t *testing.T) {
		for _, r := range rows {
			if r.Table == "user_referrals" && r.Column == "referral_reward_id" {
				assert.Equal(t, 2, r.NullCount)
				assert.Equal(t, 4, r.DistinctCount)
			}
		}
	})
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiling.csv")
	rows := []profile.Row{{Table: "leads", Column: "lead_id", NullCount: 0, DistinctCount: 6}}

	require.NoError(t, profile.Write(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "table,column,null_count,distinct_count\nleads,lead_id,0,6\n", string(data))
}
