package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Amadeus       AmadeusConfig
	Authorization AuthorizationConfig
	Cache         CacheConfig
	Catalog       CatalogConfig
	Observe       ObserveConfig
	Server        ServerConfig
	Trips         TripsConfig
	Weather       WeatherConfig
}

type ServerConfig struct {
	Port                   int `env:"SERVER_PORT, default=8080"`
	ShutdownTimeoutSeconds int `env:"SERVER_SHUTDOWN_TIMEOUT_SECS, default=25"`

	OutgoingHTTPMaxIdleConns    int `env:"SERVER_OUTGOING_MAX_IDLE_CONNS, default=100"`
	OutgoingHTTPMaxConnsPerHost int `env:"SERVER_OUTGOING_MAX_CONNS_PER_HOST, default=20"`
}

// AmadeusConfig specifies access to the Amadeus travel-data API. The client
// credentials are deliberately not validated at startup: an absent credential
// surfaces as an authentication failure on the first outbound call, the same
// way the token endpoint itself reports it.
type AmadeusConfig struct {
	APIURL       string `env:"AMADEUS_API_URL, default=https://test.api.amadeus.com"`
	ClientID     string `env:"AMADEUS_CLIENT_ID"`
	ClientSecret string `env:"AMADEUS_CLIENT_SECRET"`

	// TokenExpirySeconds is the validity window assumed for a vended access
	// token when the provider response omits one. TokenMarginSeconds is
	// subtracted from whichever window applies, so a token close to expiry is
	// never used for a new request.
	TokenExpirySeconds int `env:"AMADEUS_TOKEN_EXPIRY_SECS, default=1500"`
	TokenMarginSeconds int `env:"AMADEUS_TOKEN_MARGIN_SECS, default=60"`
}

// CacheConfig specifies response cache configuration.
type CacheConfig struct {
	// Type selects the cache implementation: "memory" (default) or "valkey"
	Type string `env:"CACHE_TYPE, default=memory"`

	// MaxEntries bounds the in-memory cache size.
	MaxEntries int `env:"CACHE_MAX_ENTRIES, default=10000"`

	// Per-kind TTLs for travel-data lookups.
	DestinationTTL time.Duration `env:"CACHE_DESTINATION_TTL, default=24h"`
	FlightTTL      time.Duration `env:"CACHE_FLIGHT_TTL, default=5m"`
	HotelTTL       time.Duration `env:"CACHE_HOTEL_TTL, default=1h"`

	// Valkey holds distributed cache settings.
	Valkey ValkeyConfig
}

// ValkeyConfig specifies distributed cache configuration.
type ValkeyConfig struct {
	// Address is the Valkey server address (host:port).
	Address string `env:"VALKEY_ADDRESS"`

	// TLS enables TLS connection to Valkey. Defaults to true so the secure option
	// is the default.
	TLS bool `env:"VALKEY_TLS, default=true"`

	// Username for Valkey authentication.
	Username string `env:"VALKEY_USERNAME"`

	// Password for Valkey authentication.
	Password string `env:"VALKEY_PASSWORD"`
}

type AuthorizationConfig struct {
	Audience  string `env:"JWT_AUDIENCE, default=travel-bridge"`
	IssuerURL string `env:"JWT_ISSUER_URL, required"`
}

// CatalogConfig locates the curated destination catalog document.
type CatalogConfig struct {
	Path                   string `env:"CATALOG_PATH"`
	RefreshIntervalMinutes int    `env:"CATALOG_REFRESH_INTERVAL_MINS, default=5"`
}

// TripsConfig selects the trip repository implementation.
type TripsConfig struct {
	// Store selects the repository: "memory" (default) or "postgres"
	Store string `env:"TRIPS_STORE, default=memory"`

	// DatabaseURL is the Postgres connection string, required for the
	// "postgres" store.
	DatabaseURL string `env:"TRIPS_DATABASE_URL"`
}

// WeatherConfig specifies access to the weather API. As with the Amadeus
// credentials, a missing key fails on first use rather than at startup.
type WeatherConfig struct {
	APIURL string `env:"WEATHER_API_URL, default=https://api.openweathermap.org"`
	APIKey string `env:"WEATHER_API_KEY"`
}

type ObserveConfig struct {
	SDKLogLevel                string `env:"OBSERVE_OTEL_LOG_LEVEL, default=info"`
	Enabled                    bool   `env:"OBSERVE_ENABLED, default=false"`
	MetricsEnabled             bool   `env:"OBSERVE_METRICS_ENABLED, default=true"`
	Type                       string `env:"OBSERVE_TYPE, default=grpc"`
	ServiceName                string `env:"OBSERVE_SERVICE_NAME, default=travel-bridge"`
	TraceBatchTimeoutSeconds   int    `env:"OBSERVE_TRACE_BATCH_TIMEOUT_SECS, default=20"`
	MetricReadIntervalSeconds  int    `env:"OBSERVE_METRIC_READ_INTERVAL_SECS, default=60"`
	HTTPTransportEnabled       bool   `env:"OBSERVE_HTTP_TRANSPORT_ENABLED, default=true"`
	HTTPConnectionTraceEnabled bool   `env:"OBSERVE_CONNECTION_TRACE_ENABLED, default=true"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, nil) // load from OS environment
}

func load(ctx context.Context, lookup envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup, // nil defaults to OS environment
	})
	if err != nil {
		return cfg, err
	}

	err = cfg.Cache.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}

	err = cfg.Trips.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid trips configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the cache configuration is valid.
func (c *CacheConfig) Validate() error {
	if c.Type != "memory" && c.Type != "valkey" {
		return fmt.Errorf("invalid cache type %q: must be either \"memory\" or \"valkey\"", c.Type)
	}

	if c.Type == "valkey" && c.Valkey.Address == "" {
		return fmt.Errorf("VALKEY_ADDRESS required when CACHE_TYPE=valkey")
	}

	if c.DestinationTTL <= 0 || c.FlightTTL <= 0 || c.HotelTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

// Validate checks that the trips configuration is valid.
func (c *TripsConfig) Validate() error {
	switch c.Store {
	case "memory":
		return nil
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("TRIPS_DATABASE_URL required when TRIPS_STORE=postgres")
		}
		return nil
	default:
		return fmt.Errorf("invalid trips store %q: must be either \"memory\" or \"postgres\"", c.Store)
	}
}
