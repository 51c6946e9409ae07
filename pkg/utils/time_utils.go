package utils

import (
	"sync"
	"time"
)

// Clock is injected wherever cycle boundaries are computed so tests can
// move time forward.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant until Advance is called.
// Safe for concurrent use once constructed.
type FixedClock struct {
	mu sync.RWMutex
	T  time.Time
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.T
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.T = c.T.Add(d)
	c.mu.Unlock()
}

// FormatUnixRFC3339 renders epoch seconds in UTC, or "" for non-positive values.
func FormatUnixRFC3339(t int64) string {
	if t <= 0 {
		return ""
	}
	return time.Unix(t, 0).UTC().Format(time.RFC3339)
}
