package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Store is the persistence layer beneath the response cache. Implementations
// hold opaque envelope bytes per key; the TTL passed to Set is advisory for
// physical eviction, while logical expiry is always enforced by the envelope.
type Store interface {
	// Get retrieves the raw envelope for a key.
	// Returns the bytes, whether the key was present, and any error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the raw envelope for a key. The ttl may be used by the
	// implementation to schedule physical eviction.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes a key from the store.
	Invalidate(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// ResponseCache wraps a Store with the get-or-populate contract used by every
// travel-data lookup. Expiry decisions are made against the injected clock,
// and concurrent misses for the same key share a single producer invocation.
type ResponseCache struct {
	store Store
	clock Clock
	group singleflight.Group
}

func New(store Store, clock Clock) *ResponseCache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ResponseCache{store: store, clock: clock}
}

// Close releases the underlying store.
func (c *ResponseCache) Close() error {
	return c.store.Close()
}

// GetOrPopulate returns the cached payload for key when a live entry exists,
// otherwise invokes produce and stores its result for ttl.
//
// A present entry that fails to decode, or whose payload no longer
// unmarshals, is logged and treated as a miss. A producer failure propagates
// to the caller and writes nothing, so a failed fetch is retried on the next
// call rather than served from a bad entry.
func GetOrPopulate[T any](ctx context.Context, c *ResponseCache, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	var zero T

	if key == "" {
		return zero, fmt.Errorf("cache key must not be empty")
	}
	if ttl <= 0 {
		return zero, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	if value, ok := lookup[T](ctx, c, key); ok {
		return value, nil
	}

	// Miss: concurrent callers for the same key share one producer call and
	// one write.
	result, err, _ := c.group.Do(key, func() (any, error) {
		value, err := produce(ctx)
		if err != nil {
			return zero, err
		}

		c.write(ctx, key, ttl, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	return result.(T), nil
}

// lookup returns the stored payload when the entry is present, decodable and
// unexpired. Every other condition is a miss.
func lookup[T any](ctx context.Context, c *ResponseCache, key string) (T, bool) {
	var zero T

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		// A degraded store falls through to the producer rather than failing
		// the lookup.
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		return zero, false
	}
	if !found {
		return zero, false
	}

	entry, ok := DecodeEntry(raw)
	if !ok {
		log.Warn().Str("key", key).Msg("invalid cache entry, ignoring")
		return zero, false
	}

	if entry.Expired(c.clock.Now()) {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache payload unmarshal failed, ignoring")
		return zero, false
	}

	return value, true
}

// write stores a produced value. Write failures are logged, not returned: the
// caller already holds a good value, and the next lookup simply misses again.
func (c *ResponseCache) write(ctx context.Context, key string, ttl time.Duration, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache payload marshal failed, not caching")
		return
	}

	encoded, err := NewEntry(payload, c.clock.Now().Add(ttl)).Encode()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry encode failed, not caching")
		return
	}

	if err := c.store.Set(ctx, key, encoded, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
