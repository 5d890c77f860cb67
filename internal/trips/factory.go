package trips

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/config"
)

// NewRepositoryFromConfig selects the trips store. "memory" is the default
// and needs no settings; "postgres" requires a database URL.
func NewRepositoryFromConfig(ctx context.Context, cfg config.TripsConfig) (Repository, error) {
	switch cfg.Store {
	case "postgres":
		log.Info().Msg("trips: using postgres repository")
		return NewPostgresRepository(ctx, cfg.DatabaseURL)
	case "memory":
		log.Info().Msg("trips: using in-memory repository")
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("invalid trips store type %q", cfg.Store)
	}
}
