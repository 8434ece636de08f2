package scheduler

import (
	"sync"
	"time"
)

// RateLimiter decides whether a notification may be delivered now.
type RateLimiter interface {
	Allow() bool
}

// Throttle lets one call through per interval. Calls inside the cooldown
// are refused, not queued; the first caller of a window wins.
type Throttle struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	last     time.Time
	used     bool
}

// NewThrottle creates a Throttle reading time from clock (RealClock if nil).
func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = RealClock()
	}
	return &Throttle{clock: clock, interval: interval}
}

func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	if t.used && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	t.used = true
	return true
}
