package datasets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/internal/fixtures"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/tabular"
)

func TestProfileLabel(t *testing.T) {
	var labels []string
	for _, id := range datasets.All() {
		labels = append(labels, id.ProfileLabel())
	}
	assert.Equal(t, []string{
		"user_referrals", "user_referral_logs", "user_logs",
		"statuses", "rewards", "transactions", "leads",
	}, labels)
}

func TestLoaderPath(t *testing.T) {
	l := datasets.NewLoader("data",
		datasets.WithFile(datasets.LeadLog, "leads_2024.csv"),
		datasets.WithFile(datasets.UserLogs, "/abs/users.csv"),
		datasets.WithFile(datasets.ReferralRewards, ""),
	)
	assert.Equal(t, filepath.Join("data", "user_referrals.csv"), l.Path(datasets.UserReferrals))
	assert.Equal(t, filepath.Join("data", "leads_2024.csv"), l.Path(datasets.LeadLog))
	assert.Equal(t, "/abs/users.csv", l.Path(datasets.UserLogs))
	assert.Equal(t, filepath.Join("data", "referral_rewards.csv"), l.Path(datasets.ReferralRewards))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fixtures.WriteDir(t, dir)

	set, err := datasets.NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, set.Table(datasets.UserReferrals).Len())
	assert.Equal(t, 6, set.Table(datasets.LeadLog).Len())
	assert.Equal(t, "user_referrals", set.Table(datasets.UserReferrals).Name)
	assert.Empty(t, set.Warnings)
}

func TestLoadWarnings(t *testing.T) {
	dir := t.TempDir()
	fixtures.WriteDir(t, dir)
	path := filepath.Join(dir, "lead_log.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtures.CSV[datasets.LeadLog]+"l9,Online\n"), 0o644))

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	set, err := datasets.NewLoader(dir).Load(ctx)
	require.NoError(t, err)
	require.Len(t, set.Warnings[datasets.LeadLog], 1)
	assert.True(t, set.Table(datasets.LeadLog).Get(6, "referee_name").Null)
	assert.True(t, logger.Contains("Source decoded with warnings"))
	assert.True(t, logger.Contains(`"table":"lead_log"`))
	assert.True(t, logger.Contains(`"path":"`+path+`"`))
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	fixtures.WriteDir(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "paid_transactions.csv")))

	_, err := datasets.NewLoader(dir).Load(context.Background())
	require.Error(t, err)

	var resErr *errors.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "paid_transactions", resErr.ID)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := datasets.NewLoader(t.TempDir()).Load(ctx)
	assert.True(t, errors.IsCanceled(err))
}

func TestNewSet(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := datasets.NewSet(map[datasets.ID]*tabular.Table{})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("missing required column", func(t *testing.T) {
		tables := make(map[datasets.ID]*tabular.Table)
		for _, id := range datasets.All() {
			table, _, err := tabular.Decode(id.String(), []byte(fixtures.CSV[id]))
			require.NoError(t, err)
			tables[id] = table
		}
		tables[datasets.ReferralRewards] = tabular.New("referral_rewards", []string{"id", "created_at"})

		_, err := datasets.NewSet(tables)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Contains(t, err.Error(), "referral_rewards.reward_value")
	})
}

func TestRequiredColumns(t *testing.T) {
	assert.Contains(t, datasets.RequiredColumns(datasets.UserReferrals), "referral_id")
	assert.Contains(t, datasets.RequiredColumns(datasets.ReferralRewards), "reward_value")
}
