package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// LoadFile reads and validates a catalog document from disk.
func LoadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("catalog load failed from %s: %w", path, err)
	}
	return ParseDocument(raw)
}

// PeriodicRefresh runs a background loop that reloads the catalog document
// at regular intervals. Panics are recovered in the refresh function. The
// loop exits when the context is cancelled.
func PeriodicRefresh(ctx context.Context, store *Store, path string, interval time.Duration) {
	for {
		refresh(ctx, store, path)

		select {
		case <-time.After(interval):
			// continue
		case <-ctx.Done():
			log.Info().Msg("catalog refresh goroutine shutting down gracefully")
			return
		}
	}
}

// refresh performs a single catalog reload with tracing. A failed reload
// keeps the previous document in place.
func refresh(ctx context.Context, store *Store, path string) {
	tracer := otel.Tracer("github.com/voyago/travel-bridge/internal/catalog")
	_, span := tracer.Start(ctx, "refresh_destination_catalog")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic during catalog refresh: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "catalog refresh panicked")
			log.Warn().Interface("panic", r).Msg("catalog refresh panicked, recovered")
		}
	}()

	doc, err := LoadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog refresh failed")
		log.Warn().Err(err).Msg("destination catalog refresh failed, continuing")
		return
	}

	store.Update(doc)
	span.SetStatus(codes.Ok, "catalog refreshed")
}
