package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/internal/fixtures"
	"github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/pipeline"
)

func fixedClock() func() time.Time {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "out", "profiling.csv")
	reportPath := filepath.Join(dir, "out", "output_report.csv")

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	r, err := pipeline.New(
		pipeline.WithProfileOutput(profilePath),
		pipeline.WithReportOutput(reportPath),
		pipeline.WithClock(fixedClock()),
		pipeline.WithRunID("run-1"),
	)
	require.NoError(t, err)

	result, err := r.Run(ctx, fixtures.Set(t, nil))
	require.NoError(t, err)

	t.Run("statistics", func(t *testing.T) {
		s := result.Stats
		assert.Equal(t, fixtures.JoinedRows, s.JoinedRows)
		assert.Equal(t, fixtures.RetainedRows, s.RetainedRows)
		assert.Equal(t, fixtures.DroppedRows, s.DroppedRows)
		assert.Equal(t, fixtures.ValidRows, s.ValidRows)
		assert.Equal(t, fixtures.InvalidRows, s.InvalidRows)
		assert.Equal(t, map[string]int{"Online": 4, "Offline": 3, "Facebook": 1}, s.Categories)
		assert.Equal(t, 7, s.SourceRows["user_referrals"])
		assert.Equal(t, 2, s.ConditionFailures["granted_reward.transaction_same_month"])
		assert.Equal(t, 2, s.ConditionFailures["granted_reward.description_succeeded"])
	})

	t.Run("outputs", func(t *testing.T) {
		assert.Equal(t, fixtures.RetainedRows, result.Report.Len())
		assert.Equal(t, 1, result.Coercion.Total())
		assert.NotEmpty(t, result.Profile)

		data, err := os.ReadFile(reportPath)
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), fixtures.RetainedRows+1)

		data, err = os.ReadFile(profilePath)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "table,column,null_count,distinct_count\n"))
	})

	t.Run("metadata", func(t *testing.T) {
		m := result.Metadata
		assert.Equal(t, "run-1", m.RunID)
		assert.True(t, m.EndTime.After(m.StartTime))
		assert.Equal(t, m.EndTime.Sub(m.StartTime), m.Duration)
		assert.Equal(t, reportPath, m.ReportOutput)
		assert.Equal(t, profilePath, m.ProfileOutput)
	})

	t.Run("logs carry run id", func(t *testing.T) {
		assert.True(t, logger.Contains(`"run_id":"run-1"`))
		assert.True(t, logger.Contains("Wrote reconciliation report"))
	})

	assert.Contains(t, result.Summary(), "6 retained")
}

func TestRunDeterministic(t *testing.T) {
	r, err := pipeline.New(pipeline.WithoutOutputs())
	require.NoError(t, err)

	a, err := r.Run(context.Background(), fixtures.Set(t, nil))
	require.NoError(t, err)
	b, err := r.Run(context.Background(), fixtures.Set(t, nil))
	require.NoError(t, err)

	assert.Equal(t, a.Report.Rows, b.Report.Rows)
	assert.Equal(t, a.Profile, b.Profile)
	assert.NotEqual(t, a.Metadata.RunID, b.Metadata.RunID)
	assert.Empty(t, a.Metadata.ReportOutput)
}

func TestRunLogsWithRunID(t *testing.T) {
	logs := logging.CaptureLoggingForTest(t)

	r, err := pipeline.New(pipeline.WithoutOutputs(), pipeline.WithRunID("run-42"))
	require.NoError(t, err)

	_, err = r.Run(context.Background(), fixtures.Set(t, nil))
	require.NoError(t, err)

	assert.True(t, logs.Contains("Reconciliation completed"))
	assert.True(t, logs.Contains(`"run_id":"run-42"`))
}

func TestRunCanceled(t *testing.T) {
	r, err := pipeline.New(pipeline.WithoutOutputs())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx, fixtures.Set(t, nil))
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestRunNilSet(t *testing.T) {
	r, err := pipeline.New(pipeline.WithoutOutputs())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = r.Records(context.Background(), nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r, err := pipeline.New(
		pipeline.WithProfileOutput(""),
		pipeline.WithReportOutput(filepath.Join(blocker, "report.csv")),
	)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), fixtures.Set(t, nil))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestRecords(t *testing.T) {
	r, err := pipeline.New()
	require.NoError(t, err)

	recs, err := r.Records(context.Background(), fixtures.Set(t, nil))
	require.NoError(t, err)
	require.Len(t, recs, fixtures.JoinedRows)

	valid := 0
	for _, j := range recs {
		if j.BusinessLogicValid {
			valid++
		}
	}
	assert.Equal(t, fixtures.ValidRows, valid)
	assert.Equal(t, "Online", *recs[0].SourceCategory)
}

func TestOptions(t *testing.T) {
	_, err := pipeline.New(pipeline.WithClock(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = pipeline.New(pipeline.WithRunID(""))
	assert.True(t, errors.IsValidationError(err))
}
