package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/refrecon/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to default", func(t *testing.T) {
		//nolint:staticcheck // nil context is handled explicitly
		assert.Same(t, logging.Default(), logging.FromContext(nil))
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("WithLogger stores logger", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		assert.Same(t, tl.Logger, logging.Ctx(ctx))
	})

	t.Run("WithRunID tags every event", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRunID(ctx, "run-123")

		logging.FromContext(ctx).Info().Msg("stage done")

		assert.Equal(t, "run-123", logging.RunID(ctx))
		assert.True(t, tl.Contains(`"run_id":"run-123"`))
	})

	t.Run("chaining stage and table", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithStage(ctx, "normalize")
		ctx = logging.WithTable(ctx, "paid_transactions")
		ctx = logging.WithFields(ctx, map[string]any{"rows": 3, "error": errors.New("boom")})

		logging.FromContext(ctx).Debug().Msg("coerced")

		assert.True(t, tl.Contains(`"stage":"normalize"`))
		assert.True(t, tl.Contains(`"table":"paid_transactions"`))
		assert.True(t, tl.Contains(`"rows":3`))
		assert.True(t, tl.Contains(`"error":"boom"`))
	})

	t.Run("RunID empty without tag", func(t *testing.T) {
		assert.Empty(t, logging.RunID(context.Background()))
	})
}
