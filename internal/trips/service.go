package trips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Repository is the persistence port. Get, Update and Delete take the owner
// alongside the ID; an ID that exists under a different owner behaves
// exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, trip Trip) error
	Update(ctx context.Context, trip Trip) error
	Get(ctx context.Context, owner, id string) (Trip, error)
	ListByOwner(ctx context.Context, owner string) ([]Trip, error)
	Delete(ctx context.Context, owner, id string) error
	Close()
}

// Service validates input and stamps identity and timestamps before handing
// records to the repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

func (s *Service) Save(ctx context.Context, owner string, in Input) (Trip, error) {
	if err := in.Validate(); err != nil {
		return Trip{}, err
	}

	now := s.now().UTC()
	trip := tripFromInput(in)
	trip.ID = uuid.NewString()
	trip.Owner = owner
	trip.CreatedAt = now
	trip.UpdatedAt = now

	if err := s.repo.Create(ctx, trip); err != nil {
		return Trip{}, err
	}

	log.Info().Str("trip", trip.ID).Str("destination", trip.Destination).Msg("trip saved")
	return trip, nil
}

func (s *Service) Update(ctx context.Context, owner, id string, in Input) (Trip, error) {
	if err := in.Validate(); err != nil {
		return Trip{}, err
	}

	existing, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return Trip{}, err
	}

	trip := tripFromInput(in)
	trip.ID = existing.ID
	trip.Owner = existing.Owner
	trip.CreatedAt = existing.CreatedAt
	trip.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, trip); err != nil {
		return Trip{}, err
	}
	return trip, nil
}

func (s *Service) Get(ctx context.Context, owner, id string) (Trip, error) {
	return s.repo.Get(ctx, owner, id)
}

// List returns the owner's trips, most recently created first.
func (s *Service) List(ctx context.Context, owner string) ([]Trip, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Service) Delete(ctx context.Context, owner, id string) error {
	return s.repo.Delete(ctx, owner, id)
}

func tripFromInput(in Input) Trip {
	return Trip{
		Name:        in.Name,
		Destination: in.Destination,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Notes:       in.Notes,
		Flights:     in.Flights,
		Hotels:      in.Hotels,
		Itinerary:   in.Itinerary,
	}
}
