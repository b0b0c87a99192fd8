package booking

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a mutable clock for countdown tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestCountdown(t *testing.T) {
	t.Run("fires exactly once on expiry", func(t *testing.T) {
		clk := &fakeClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
		expiresAt := clk.now().Add(120 * time.Second)

		var fired int32
		c := startCountdown(expiresAt, time.Millisecond, clk.now, func() {
			atomic.AddInt32(&fired, 1)
		})
		defer c.Stop()

		// Not expired yet: ticks recompute from the absolute deadline.
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

		clk.advance(120 * time.Second)
		assert.Eventually(t, func() bool {
			return atomic.LoadInt32(&fired) == 1
		}, time.Second, time.Millisecond)

		// Additional real ticks must not re-fire.
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	})

	t.Run("stop prevents firing", func(t *testing.T) {
		clk := &fakeClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
		var fired int32
		c := startCountdown(clk.now().Add(time.Minute), time.Millisecond, clk.now, func() {
			atomic.AddInt32(&fired, 1)
		})
		c.Stop()

		clk.advance(2 * time.Minute)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		clk := &fakeClock{t: time.Now()}
		c := startCountdown(clk.now().Add(time.Minute), time.Millisecond, clk.now, func() {})
		c.Stop()
		assert.NotPanics(t, func() {
			c.Stop()
			c.Stop()
		})
	})

	t.Run("stop after expiry is a no-op", func(t *testing.T) {
		clk := &fakeClock{t: time.Now()}
		expired := make(chan struct{})
		c := startCountdown(clk.now().Add(time.Millisecond), time.Millisecond, clk.now, func() {
			close(expired)
		})
		clk.advance(time.Second)
		<-expired
		assert.NotPanics(t, c.Stop)
	})
}
