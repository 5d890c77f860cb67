package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
)

// Memory is an in-memory store implementation using otter.
//
// Physical expiry is configured at the longest TTL any entry class uses;
// entries with shorter TTLs are expired logically by the envelope check.
// This keeps eviction as a capacity concern and correctness with the cache.
type Memory struct {
	cache   *otter.Cache[string, []byte]
	counter *stats.Counter
}

// NewMemory creates a new in-memory store with the specified maximum physical
// TTL and max size.
func NewMemory(maxTTL time.Duration, maxSize int) (*Memory, error) {
	counter := stats.NewCounter()
	cache := otter.Must(&otter.Options[string, []byte]{
		MaximumSize:      maxSize,
		StatsRecorder:    counter,
		ExpiryCalculator: otter.ExpiryCreating[string, []byte](maxTTL),
	})

	return &Memory{
		cache:   cache,
		counter: counter,
	}, nil
}

// Get retrieves an envelope from the store.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.cache.GetEntry(key)
	if !ok {
		return nil, false, nil
	}

	return entry.Value, true, nil
}

// Set stores an envelope. The per-entry ttl is not used: physical expiry is
// fixed at construction, logical expiry lives in the envelope.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value)
	return nil
}

// Invalidate removes an envelope from the store.
func (m *Memory) Invalidate(ctx context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}
