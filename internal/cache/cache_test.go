package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travel-bridge/internal/cache"
)

// fakeClock is a controllable Clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mapStore is an in-memory Store with direct access to raw envelopes, so
// tests can inspect and corrupt entries.
type mapStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMapStore() *mapStore {
	return &mapStore{entries: map[string][]byte{}}
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = value
	return nil
}

func (s *mapStore) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *mapStore) Close() error { return nil }

func (s *mapStore) raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *mapStore) put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

type payload struct {
	Name string `json:"name"`
}

func producer(calls *int, value payload) func(context.Context) (payload, error) {
	return func(context.Context) (payload, error) {
		*calls++
		return value, nil
	}
}

func TestGetOrPopulate_MissThenHit(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	calls := 0
	produce := producer(&calls, payload{Name: "Paris"})

	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, produce)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
	assert.Equal(t, 1, calls)

	// second call is served from the store: no producer invocation
	got, err = cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, produce)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
	assert.Equal(t, 1, calls)
}

func TestGetOrPopulate_EntryExpiryMatchesTTL(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	calls := 0
	_, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)

	raw, ok := store.raw("dest")
	require.True(t, ok)

	entry, ok := cache.DecodeEntry(raw)
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Hour).UnixMilli(), entry.Expiry)
}

func TestGetOrPopulate_ExpiredEntryRepopulates(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	calls := 0
	_, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	clock.Advance(time.Hour) // expiry boundary is inclusive

	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Lyon"}))
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Lyon"}, got)
	assert.Equal(t, 2, calls)

	// the replacement entry carries a fresh deadline
	raw, ok := store.raw("dest")
	require.True(t, ok)
	entry, ok := cache.DecodeEntry(raw)
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Hour).UnixMilli(), entry.Expiry)
}

func TestGetOrPopulate_CorruptEntryIsMiss(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	store.put("dest", []byte("not json at all"))

	calls := 0
	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
	assert.Equal(t, 1, calls)

	// the corrupt entry has been overwritten with a valid one
	raw, ok := store.raw("dest")
	require.True(t, ok)
	_, ok = cache.DecodeEntry(raw)
	assert.True(t, ok)
}

func TestGetOrPopulate_ProducerFailureNotCached(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	boom := errors.New("upstream unavailable")
	calls := 0
	_, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, func(context.Context) (payload, error) {
		calls++
		return payload{}, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := store.raw("dest")
	assert.False(t, ok, "failed fetches must not be cached")

	// an immediate retry attempts the producer again
	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
	assert.Equal(t, 2, calls)
}

func TestGetOrPopulate_StoreReadFailureFallsThrough(t *testing.T) {
	store := newMapStore()
	store.getErr = errors.New("connection refused")
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	calls := 0
	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
}

func TestGetOrPopulate_WriteFailureStillReturnsValue(t *testing.T) {
	store := newMapStore()
	store.setErr = errors.New("read-only store")
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	calls := 0
	got, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, producer(&calls, payload{Name: "Paris"}))
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Paris"}, got)
}

func TestGetOrPopulate_ValidatesArguments(t *testing.T) {
	c := cache.New(newMapStore(), nil)

	calls := 0
	_, err := cache.GetOrPopulate(context.Background(), c, "", time.Hour, producer(&calls, payload{}))
	assert.ErrorContains(t, err, "key")

	_, err = cache.GetOrPopulate(context.Background(), c, "dest", 0, producer(&calls, payload{}))
	assert.ErrorContains(t, err, "ttl")

	assert.Zero(t, calls)
}

func TestGetOrPopulate_ConcurrentMissesShareProducer(t *testing.T) {
	store := newMapStore()
	clock := &fakeClock{now: time.UnixMilli(1_000_000)}
	c := cache.New(store, clock)

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})

	produce := func(context.Context) (payload, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return payload{Name: "Paris"}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]payload, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.GetOrPopulate(context.Background(), c, "dest", time.Hour, produce)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// let the goroutines pile up on the in-flight call before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, calls, "concurrent identical misses share one producer invocation")
	mu.Unlock()
	for _, r := range results {
		assert.Equal(t, payload{Name: "Paris"}, r)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		ok   bool
	}{
		{"valid", []byte(`{"data":{"name":"Paris"},"expiry":1000}`), true},
		{"not json", []byte("garbage"), false},
		{"missing data", []byte(`{"expiry":1000}`), false},
		{"empty", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := cache.DecodeEntry(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.NotNil(t, entry.Data)
			}
		})
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	expiresAt := time.UnixMilli(5_000_000)
	entry := cache.NewEntry(json.RawMessage(`{"name":"Paris"}`), expiresAt)

	encoded, err := entry.Encode()
	require.NoError(t, err)

	decoded, ok := cache.DecodeEntry(encoded)
	require.True(t, ok)
	assert.Equal(t, entry.Expiry, decoded.Expiry)
	assert.False(t, decoded.Expired(expiresAt.Add(-time.Millisecond)))
	assert.True(t, decoded.Expired(expiresAt), "expiry boundary is inclusive")
}
