package booking

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrPollTimeout marks poll loops that exhausted their attempt budget
// without reaching a terminal answer. Distinct from outright failure: the
// outcome is unknown, not negative.
var ErrPollTimeout = errors.New("poll attempts exhausted without a terminal status")

// pollFunc performs one check. It returns done=true to stop the loop
// successfully; a non-nil error stops the loop with that error.
type pollFunc func(ctx context.Context, attempt int) (done bool, err error)

// pollUntil runs fn sequentially, at most maxAttempts times, paced at one
// call per interval. Checks never overlap: the next attempt is not scheduled
// until the previous one returns, so a slow backend cannot pile requests up.
// The first attempt runs immediately. Cancelling ctx stops the loop between
// attempts.
func pollUntil(ctx context.Context, interval time.Duration, maxAttempts int, fn pollFunc) error {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		done, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return ErrPollTimeout
}
