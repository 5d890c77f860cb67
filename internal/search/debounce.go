package search

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultQuietPeriod is how long input must stay unchanged before a
	// debounced search fires.
	DefaultQuietPeriod = time.Second

	// DefaultMinQueryLength gates very short queries, which would match far
	// too broadly upstream.
	DefaultMinQueryLength = 3
)

// Debouncer turns a stream of keystroke updates into trailing-edge search
// invocations: each update reschedules the pending fire, so only the value
// left standing after the quiet period is searched.
type Debouncer struct {
	quiet  time.Duration
	minLen int
	run    func(query string)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer wires run as the debounced action. Non-positive quiet or
// minLen fall back to the defaults.
func NewDebouncer(quiet time.Duration, minLen int, run func(query string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}
	return &Debouncer{quiet: quiet, minLen: minLen, run: run}
}

// Update registers the latest input value. A pending fire is always
// cancelled; a new one is scheduled only when the trimmed query meets the
// minimum length.
func (d *Debouncer) Update(query string) {
	query = normalizeQuery(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.stopped || len(query) < d.minLen {
		return
	}

	d.timer = time.AfterFunc(d.quiet, func() { d.run(query) })
}

// Stop cancels any pending fire and ignores further updates. An already
// running action is not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(q)
}
