package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &FixedClock{T: start}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.Advance(time.Minute)
		}()
		go func() {
			defer wg.Done()
			now := clock.Now()
			assert.False(t, now.Before(start))
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Minute), clock.Now())
}

func TestFormatUnixRFC3339(t *testing.T) {
	assert.Equal(t, "", FormatUnixRFC3339(0))
	assert.Equal(t, "", FormatUnixRFC3339(-5))
	assert.Equal(t, "2026-03-01T12:00:00Z", FormatUnixRFC3339(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix()))
}
