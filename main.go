package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/amadeus"
	"github.com/voyago/travel-bridge/internal/audit"
	"github.com/voyago/travel-bridge/internal/auth"
	"github.com/voyago/travel-bridge/internal/cache"
	"github.com/voyago/travel-bridge/internal/catalog"
	"github.com/voyago/travel-bridge/internal/config"
	"github.com/voyago/travel-bridge/internal/observe"
	"github.com/voyago/travel-bridge/internal/trips"
	"github.com/voyago/travel-bridge/internal/weather"

	"github.com/justinas/alice"
)

func configureServerRoutes(ctx context.Context, cfg config.Config, catalogStore *catalog.Store) (http.Handler, func(), error) {
	// wrap a mux such that HTTP telemetry is configured by default
	muxWithoutTelemetry := http.NewServeMux()
	mux := observe.NewMux(muxWithoutTelemetry)

	// configure middleware
	auditor := audit.Middleware()

	authorizer, err := auth.Middleware(cfg.Authorization)
	if err != nil {
		return nil, nil, fmt.Errorf("authorizer configuration failed: %w", err)
	}

	// The request body size is fairly limited to prevent accidental or
	// deliberate abuse. Given the current API shape, this is not configurable.
	requestLimitBytes := int64(20 << 10) // 20 KB
	requestLimiter := maxRequestSize(requestLimitBytes)

	authorizedRouteMiddleware := alice.New(requestLimiter, auditor, authorizer)
	publicRouteMiddleware := alice.New(requestLimiter, auditor)
	standardRouteMiddleware := alice.New(requestLimiter)

	// setup the travel-data client and its dependencies
	cacheStore, err := cache.NewFromConfig(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("cache configuration failed: %w", err)
	}

	responseCache := cache.New(
		cache.NewInstrumented(cacheStore, cfg.Cache.Type),
		cache.SystemClock{},
	)

	tokens := amadeus.NewTokenSource(cfg.Amadeus, http.DefaultClient, cache.SystemClock{})
	client := amadeus.NewClient(cfg.Amadeus, amadeus.TTLsFromConfig(cfg.Cache), tokens, responseCache, http.DefaultClient)

	weatherClient := weather.NewClient(cfg.Weather, http.DefaultClient)

	tripRepo, err := trips.NewRepositoryFromConfig(ctx, cfg.Trips)
	if err != nil {
		return nil, nil, fmt.Errorf("trip store configuration failed: %w", err)
	}
	tripService := trips.NewService(tripRepo, time.Now)

	// search and catalog routes are public
	mux.Handle("GET /search/destinations", publicRouteMiddleware.Then(handleSearchDestinations(client)))
	mux.Handle("GET /search/flights", publicRouteMiddleware.Then(handleSearchFlights(client)))
	mux.Handle("GET /search/hotels", publicRouteMiddleware.Then(handleSearchHotels(client)))
	mux.Handle("GET /catalog/destinations", publicRouteMiddleware.Then(handleCatalogDestinations(catalogStore)))
	mux.Handle("GET /weather", publicRouteMiddleware.Then(handleWeather(weatherClient)))

	// trip routes require a verified subject
	mux.Handle("POST /trips", authorizedRouteMiddleware.Then(handleCreateTrip(tripService)))
	mux.Handle("GET /trips", authorizedRouteMiddleware.Then(handleListTrips(tripService)))
	mux.Handle("GET /trips/{id}", authorizedRouteMiddleware.Then(handleGetTrip(tripService)))
	mux.Handle("PUT /trips/{id}", authorizedRouteMiddleware.Then(handleUpdateTrip(tripService)))
	mux.Handle("DELETE /trips/{id}", authorizedRouteMiddleware.Then(handleDeleteTrip(tripService)))

	// healthchecks are not included in telemetry or authorization
	muxWithoutTelemetry.Handle("GET /healthcheck", standardRouteMiddleware.Then(handleHealthCheck()))

	cleanup := func() {
		tripRepo.Close()
		if err := responseCache.Close(); err != nil {
			log.Warn().Err(err).Msg("response cache close failed")
		}
	}

	return mux, cleanup, nil
}

func main() {
	configureLogging()

	logBuildInfo()

	err := launchServer()
	if err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

func launchServer() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	// configure telemetry, including wrapping default HTTP client
	shutdownTelemetry, err := observe.Configure(ctx, cfg.Observe)
	if err != nil {
		return fmt.Errorf("telemetry bootstrap failed: %w", err)
	}

	http.DefaultTransport = observe.HTTPTransport(
		configureHTTPTransport(cfg.Server),
		cfg.Observe,
	)
	http.DefaultClient = &http.Client{
		Transport: http.DefaultTransport,
	}

	// the curated catalog starts from the compiled-in document; a configured
	// path overrides it and is refreshed in the background
	catalogStore := catalog.NewStore(catalog.DefaultDocument())
	if cfg.Catalog.Path != "" {
		doc, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("catalog load failed: %w", err)
		}
		catalogStore.Update(doc)

		interval := time.Duration(cfg.Catalog.RefreshIntervalMinutes) * time.Minute
		go catalog.PeriodicRefresh(ctx, catalogStore, cfg.Catalog.Path, interval)
	}

	// setup routing and dependencies
	handler, cleanup, err := configureServerRoutes(ctx, cfg, catalogStore)
	if err != nil {
		return fmt.Errorf("server routing configuration failed: %w", err)
	}

	// start the server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		MaxHeaderBytes:    20 << 10,         // 20 KB
		ReadHeaderTimeout: 20 * time.Second, // Prevent Slowloris attacks
	}

	server.RegisterOnShutdown(func() {
		cleanup()

		log.Info().Msg("telemetry: shutting down")
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry: shutdown failed")
		} else {
			log.Info().Msg("telemetry: shutdown complete")
		}
	})

	err = serveHTTP(cfg.Server, server)
	if err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func configureLogging() {
	// Set global level to the minimum: allows the Open Telemetry logging to be
	// configured separately. However, it means that any logger that sets its
	// level will log as this effectively disables the global level.
	zerolog.SetGlobalLevel(zerolog.Level(-128))

	// default level is Info
	log.Logger = log.Level(zerolog.InfoLevel)

	if os.Getenv("ENV") == "development" {
		log.Logger = log.
			Output(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(zerolog.DebugLevel)
	}

	zerolog.DefaultContextLogger = &log.Logger
}

func logBuildInfo() {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	ev := log.Info()
	for _, v := range buildInfo.Settings {
		if strings.HasPrefix(v.Key, "vcs.") ||
			strings.HasPrefix(v.Key, "GO") ||
			v.Key == "CGO_ENABLED" {
			ev = ev.Str(v.Key, v.Value)
		}
	}

	ev.Msg("build information")
}

func configureHTTPTransport(cfg config.ServerConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	transport.MaxIdleConns = cfg.OutgoingHTTPMaxIdleConns
	transport.MaxConnsPerHost = cfg.OutgoingHTTPMaxConnsPerHost

	return transport
}
