package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollUntil(t *testing.T) {
	interval := time.Millisecond

	t.Run("stops on first terminal result", func(t *testing.T) {
		calls := 0
		err := pollUntil(context.Background(), interval, 60, func(ctx context.Context, attempt int) (bool, error) {
			calls++
			return calls == 3, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls, "no further checks after the terminal one")
	})

	t.Run("exhausting the budget yields ErrPollTimeout", func(t *testing.T) {
		calls := 0
		err := pollUntil(context.Background(), interval, 60, func(ctx context.Context, attempt int) (bool, error) {
			calls++
			return false, nil
		})
		assert.ErrorIs(t, err, ErrPollTimeout)
		assert.Equal(t, 60, calls, "exactly maxAttempts checks, never one more")
	})

	t.Run("fn errors stop the loop", func(t *testing.T) {
		calls := 0
		wantErr := NewStateError("boom")
		err := pollUntil(context.Background(), interval, 60, func(ctx context.Context, attempt int) (bool, error) {
			calls++
			return false, wantErr
		})
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation stops between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := pollUntil(ctx, 50*time.Millisecond, 60, func(ctx context.Context, attempt int) (bool, error) {
			calls++
			cancel()
			return false, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("attempt numbers are sequential", func(t *testing.T) {
		var seen []int
		err := pollUntil(context.Background(), interval, 3, func(ctx context.Context, attempt int) (bool, error) {
			seen = append(seen, attempt)
			return false, nil
		})
		assert.ErrorIs(t, err, ErrPollTimeout)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})
}
