package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Distributed implements Store using Valkey with server-assisted client-side
// caching. Envelopes are stored as-is; the per-entry TTL is passed through to
// the server so stale entries are eventually reclaimed, though logical expiry
// still happens in the envelope check.
type Distributed struct {
	client valkey.Client
}

// NewDistributed creates a new Valkey-backed store.
func NewDistributed(valkeyClient valkey.Client) *Distributed {
	return &Distributed{client: valkeyClient}
}

// Get retrieves an envelope using server-assisted client-side caching.
func (d *Distributed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	// DoCache enables client-side caching with server tracking. The local
	// cache window is short: the envelope carries the authoritative expiry.
	cmd := d.client.B().Get().Key(key).Cache()
	result := d.client.DoCache(ctx, cmd, time.Minute)

	if err := result.Error(); err != nil {
		// Key not found is not an error in our semantics
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached value: %w", err)
	}

	val, err := result.AsBytes()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached value: %w", err)
	}

	return val, true, nil
}

// Set stores an envelope with the supplied TTL.
func (d *Distributed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := d.client.B().Set().Key(key).Value(valkey.BinaryString(value)).ExSeconds(int64(ttl.Seconds())).Build()
	if err := d.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set cached value: %w", err)
	}
	return nil
}

// Invalidate removes an envelope from the store.
func (d *Distributed) Invalidate(ctx context.Context, key string) error {
	if err := d.client.Do(ctx, d.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to invalidate cached value: %w", err)
	}
	return nil
}

// Close releases the Valkey client.
func (d *Distributed) Close() error {
	d.client.Close()
	return nil
}

// StaticCredentialsFn returns an AuthCredentialsFn that always returns the
// configured username and password.
func StaticCredentialsFn(username, password string) func(valkey.AuthCredentialsContext) (valkey.AuthCredentials, error) {
	return func(valkey.AuthCredentialsContext) (valkey.AuthCredentials, error) {
		return valkey.AuthCredentials{
			Username: username,
			Password: password,
		}, nil
	}
}
