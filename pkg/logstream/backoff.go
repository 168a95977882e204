package logstream

import "time"

// backoff is a single mutable delay: each Next returns the current delay and
// doubles it for the following failure, up to max. Reset drops it back to
// the floor after any successful connection.
type backoff struct {
	floor time.Duration
	max   time.Duration
	delay time.Duration
}

func newBackoff(floor, max time.Duration) backoff {
	return backoff{floor: floor, max: max, delay: floor}
}

func (b *backoff) Next() time.Duration {
	d := b.delay
	b.delay *= 2
	if b.delay > b.max {
		b.delay = b.max
	}
	return d
}

func (b *backoff) Reset() {
	b.delay = b.floor
}
