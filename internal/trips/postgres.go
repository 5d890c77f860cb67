package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voyago/travel-bridge/internal/amadeus"
)

// PostgresRepository persists trips in a single table. The picked flights,
// hotels and itinerary travel as one JSONB document; the queryable frame
// fields get their own columns.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to trips database: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

// tripDetails is the JSONB portion of a row.
type tripDetails struct {
	Flights   []amadeus.FlightOffer `json:"flights,omitempty"`
	Hotels    []amadeus.Hotel       `json:"hotels,omitempty"`
	Itinerary []ItineraryItem       `json:"itinerary,omitempty"`
}

func (r *PostgresRepository) Create(ctx context.Context, trip Trip) error {
	details, err := json.Marshal(tripDetails{
		Flights:   trip.Flights,
		Hotels:    trip.Hotels,
		Itinerary: trip.Itinerary,
	})
	if err != nil {
		return fmt.Errorf("encoding trip details: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (
			id, owner_subject, name, destination,
			start_date, end_date, notes, details,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		trip.ID, trip.Owner, trip.Name, trip.Destination,
		trip.StartDate, trip.EndDate, trip.Notes, details,
		trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, trip Trip) error {
	details, err := json.Marshal(tripDetails{
		Flights:   trip.Flights,
		Hotels:    trip.Hotels,
		Itinerary: trip.Itinerary,
	})
	if err != nil {
		return fmt.Errorf("encoding trip details: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE trips SET
			name = $3, destination = $4, start_date = $5, end_date = $6,
			notes = $7, details = $8, updated_at = $9
		WHERE id = $1 AND owner_subject = $2
	`,
		trip.ID, trip.Owner, trip.Name, trip.Destination,
		trip.StartDate, trip.EndDate, trip.Notes, details, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, id string) (Trip, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_subject, name, destination,
		       start_date, end_date, notes, details,
		       created_at, updated_at
		FROM trips
		WHERE id = $1 AND owner_subject = $2
	`, id, owner)

	trip, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	if err != nil {
		return Trip{}, fmt.Errorf("loading trip: %w", err)
	}
	return trip, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]Trip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_subject, name, destination,
		       start_date, end_date, notes, details,
		       created_at, updated_at
		FROM trips
		WHERE owner_subject = $1
		ORDER BY created_at DESC, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	out := make([]Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		out = append(out, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM trips WHERE id = $1 AND owner_subject = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func scanTrip(row pgx.Row) (Trip, error) {
	var trip Trip
	var raw []byte
	err := row.Scan(
		&trip.ID, &trip.Owner, &trip.Name, &trip.Destination,
		&trip.StartDate, &trip.EndDate, &trip.Notes, &raw,
		&trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return Trip{}, err
	}

	var details tripDetails
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &details); err != nil {
			return Trip{}, fmt.Errorf("decoding trip details: %w", err)
		}
	}
	trip.Flights = details.Flights
	trip.Hotels = details.Hotels
	trip.Itinerary = details.Itinerary
	return trip, nil
}
