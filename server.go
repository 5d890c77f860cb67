package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/config"
)

// serveHTTP runs the server until it fails or an interrupt signal arrives,
// then shuts down gracefully within the configured timeout. In-flight
// requests are allowed to complete; registered shutdown hooks run as part of
// server.Shutdown.
func serveHTTP(cfg config.ServerConfig, server *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// the listener has closed; ListenAndServe always reports this as an error
	if err := <-serverErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("server shutdown complete")
	return nil
}
