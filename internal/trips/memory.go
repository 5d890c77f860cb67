package trips

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps trips in process memory. It backs local development
// and tests; entries do not survive a restart. Safe for concurrent use.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]Trip
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]Trip)}
}

func (r *MemoryRepository) Create(_ context.Context, trip Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[trip.ID] = trip
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, trip Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[trip.ID]
	if !ok || existing.Owner != trip.Owner {
		return ErrNotFound
	}
	r.byID[trip.ID] = trip
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, owner, id string) (Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trip, ok := r.byID[id]
	if !ok || trip.Owner != owner {
		return Trip{}, ErrNotFound
	}
	return trip, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Trip, 0)
	for _, trip := range r.byID {
		if trip.Owner == owner {
			out = append(out, trip)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.byID[id]
	if !ok || trip.Owner != owner {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) Close() {}
