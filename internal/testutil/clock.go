// Package testutil provides deterministic clocks and identifier
// sequences so tests produce identical rows on every run.
package testutil

import (
	"sync"
	"time"
)

// SteppingClock returns strictly increasing timestamps from a fixed
// base, one step per call. Deterministic across runs.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int64
}

// NewSteppingClock creates a clock that starts at base and advances by
// step on every Now call.
func NewSteppingClock(base time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{base: base, step: step}
}

// Now returns the next timestamp in the sequence.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.base.Add(time.Duration(c.n) * c.step)
}

// Reset rewinds the clock to its base. The next Now returns base+step.
func (c *SteppingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
