package retrylimit

import (
	"context"
	"time"
)

// Backoff hands out exponentially growing delays for loops that never give
// up, such as reconnects and process restarts.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	// Healthy is how long a run must last before the delay resets.
	Healthy time.Duration

	next time.Duration
}

// NewBackoff returns a Backoff doubling from initial up to maxDelay.
func NewBackoff(initial, maxDelay time.Duration) *Backoff {
	return &Backoff{Initial: initial, Max: maxDelay, Healthy: time.Minute}
}

// Next returns the delay to wait now and doubles the following one.
func (b *Backoff) Next() time.Duration {
	if b.next <= 0 {
		b.next = b.Initial
	}
	d := b.next
	b.next = min(b.next*2, b.Max)
	return d
}

// Reset starts over from Initial.
func (b *Backoff) Reset() { b.next = 0 }

// Observe resets the backoff when a run lasted longer than Healthy.
func (b *Backoff) Observe(ran time.Duration) {
	if b.Healthy > 0 && ran >= b.Healthy {
		b.Reset()
	}
}

// Sleep waits for Next or until ctx ends.
func (b *Backoff) Sleep(ctx context.Context) error {
	return sleep(ctx, b.Next())
}
