package booking

import (
	"sync"
	"time"
)

// Countdown is an owned handle on a reservation expiry timer. The remaining
// time is always recomputed from the absolute deadline, never from an
// accumulated counter, so a slow tick cannot drift the expiry.
type Countdown struct {
	stop     chan struct{}
	stopOnce sync.Once
	fireOnce sync.Once
}

// startCountdown ticks at the given interval until expiresAt (as measured
// by now()) is reached, then fires onExpire exactly once and tears itself
// down. Stop is idempotent and safe to call after expiry.
func startCountdown(expiresAt time.Time, tick time.Duration, now func() time.Time, onExpire func()) *Countdown {
	c := &Countdown{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if !now().Before(expiresAt) {
					c.fireOnce.Do(onExpire)
					c.Stop()
					return
				}
			}
		}
	}()

	return c
}

// Stop tears the timer down without firing. Calling it repeatedly, or after
// the countdown has already expired, is a no-op.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
