package hold

import (
	"context"
	"time"

	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
)

// Countdown reports the time left on one hold. It stays valid after the hold ends and then reports zero.
type Countdown struct {
	clock     clock.Clock
	expiresAt time.Time
	done      chan struct{}
}

func newCountdown(clk clock.Clock, expiresAt time.Time) *Countdown {
	return &Countdown{clock: clk, expiresAt: expiresAt, done: make(chan struct{})}
}

func (c *Countdown) ExpiresAt() time.Time {
	return c.expiresAt
}

// Remaining returns the whole seconds left, rounded up, and never a negative value.
func (c *Countdown) Remaining() int {
	select {
	case <-c.done:
		return 0
	default:
	}
	d := c.expiresAt.Sub(c.clock.Now())
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Done is closed when the hold is released, expires or is finalized.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Watch calls fn with the remaining seconds immediately and then once per second.
// It returns nil after a final call with zero once the hold ends, or ctx.Err() on cancellation.
func (c *Countdown) Watch(ctx context.Context, fn func(remaining int)) error {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	fn(c.Remaining())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			fn(0)
			return nil
		case <-ticker.C():
			fn(c.Remaining())
		}
	}
}

func (c *Countdown) stop() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}
