package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/valkey-io/valkey-go"
	"github.com/voyago/travel-bridge/internal/config"
)

// NewFromConfig creates a store implementation based on the provided
// configuration, wrapped with metrics instrumentation.
//
// The cache type must be either "memory" or "valkey". Any other value returns
// an error. For "valkey", cacheConfig.Valkey.Address must be provided.
func NewFromConfig(ctx context.Context, cacheConfig config.CacheConfig) (Store, error) {
	switch cacheConfig.Type {
	case "valkey":
		log.Info().
			Str("cache_type", "valkey").
			Str("address", cacheConfig.Valkey.Address).
			Bool("tls", cacheConfig.Valkey.TLS).
			Msg("initializing distributed cache")

		if cacheConfig.Valkey.Address == "" {
			return nil, fmt.Errorf("valkey address is required when cache type is valkey")
		}

		valkeyOpts := valkey.ClientOption{
			InitAddress: []string{cacheConfig.Valkey.Address},
			AuthCredentialsFn: StaticCredentialsFn(
				cacheConfig.Valkey.Username,
				cacheConfig.Valkey.Password,
			),
		}

		// Configure TLS if enabled
		if cacheConfig.Valkey.TLS {
			valkeyOpts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		valkeyClient, err := valkey.NewClient(valkeyOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to create valkey client: %w", err)
		}

		return NewInstrumented(NewDistributed(valkeyClient), "distributed"), nil

	case "memory":
		log.Info().
			Str("cache_type", "memory").
			Msg("initializing in-memory cache")

		memory, err := NewMemory(maxTTL(cacheConfig), cacheConfig.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}

		return NewInstrumented(memory, "memory"), nil

	default:
		return nil, fmt.Errorf("invalid cache type %q: must be either \"memory\" or \"valkey\"", cacheConfig.Type)
	}
}

// maxTTL returns the longest configured entry TTL, used as the physical
// expiry for the in-memory store.
func maxTTL(cfg config.CacheConfig) time.Duration {
	longest := cfg.DestinationTTL
	if cfg.FlightTTL > longest {
		longest = cfg.FlightTTL
	}
	if cfg.HotelTTL > longest {
		longest = cfg.HotelTTL
	}
	return longest
}
