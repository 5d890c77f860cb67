package cache

import "time"

// Clock provides time to the cache. Expiry decisions are made against an
// injected clock so tests can control time without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the current wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
