package trips_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travel-bridge/internal/trips"
)

func fixedNow() time.Time {
	return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
}

func validInput() trips.Input {
	return trips.Input{
		Name:        "Prague long weekend",
		Destination: "Prague",
		StartDate:   "2025-09-12",
		EndDate:     "2025-09-15",
		Notes:       "pack a raincoat",
		Itinerary: []trips.ItineraryItem{
			{Title: "Check into Hotel", Location: "Downtown Prague", Time: "15:00", Type: "hotel", Day: 1},
			{Title: "Prague Castle Tour", Location: "Prague Castle", Time: "10:00", Type: "attraction", Day: 2},
		},
	}
}

func newService() *trips.Service {
	return trips.NewService(trips.NewMemoryRepository(), fixedNow)
}

func TestService_SaveStampsRecord(t *testing.T) {
	svc := newService()

	trip, err := svc.Save(context.Background(), "auth0|alice", validInput())
	require.NoError(t, err)

	_, err = uuid.Parse(trip.ID)
	assert.NoError(t, err, "trip ID must be a generated uuid")
	assert.Equal(t, "auth0|alice", trip.Owner)
	assert.Equal(t, fixedNow(), trip.CreatedAt)
	assert.Equal(t, fixedNow(), trip.UpdatedAt)

	got, err := svc.Get(context.Background(), "auth0|alice", trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip, got)
}

func TestService_SaveRejectsInvalidInput(t *testing.T) {
	svc := newService()

	cases := []struct {
		name   string
		mutate func(*trips.Input)
	}{
		{"missing name", func(in *trips.Input) { in.Name = "" }},
		{"missing destination", func(in *trips.Input) { in.Destination = "" }},
		{"malformed start date", func(in *trips.Input) { in.StartDate = "12/09/2025" }},
		{"end before start", func(in *trips.Input) { in.EndDate = "2025-09-01" }},
		{"unknown itinerary type", func(in *trips.Input) { in.Itinerary[0].Type = "museum" }},
		{"itinerary day zero", func(in *trips.Input) { in.Itinerary[0].Day = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Save(context.Background(), "auth0|alice", in)
			var verr *trips.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestService_OwnerScoping(t *testing.T) {
	svc := newService()

	trip, err := svc.Save(context.Background(), "auth0|alice", validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "auth0|mallory", trip.ID)
	assert.ErrorIs(t, err, trips.ErrNotFound)

	_, err = svc.Update(context.Background(), "auth0|mallory", trip.ID, validInput())
	assert.ErrorIs(t, err, trips.ErrNotFound)

	err = svc.Delete(context.Background(), "auth0|mallory", trip.ID)
	assert.ErrorIs(t, err, trips.ErrNotFound)

	// the owner still sees the trip untouched
	_, err = svc.Get(context.Background(), "auth0|alice", trip.ID)
	assert.NoError(t, err)
}

func TestService_UpdatePreservesIdentity(t *testing.T) {
	repo := trips.NewMemoryRepository()
	created := fixedNow().Add(-48 * time.Hour)
	svc := trips.NewService(repo, fixedNow)

	trip, err := trips.NewService(repo, func() time.Time { return created }).
		Save(context.Background(), "auth0|alice", validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Prague, extended"
	updated, err := svc.Update(context.Background(), "auth0|alice", trip.ID, in)
	require.NoError(t, err)

	assert.Equal(t, trip.ID, updated.ID)
	assert.Equal(t, "auth0|alice", updated.Owner)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, fixedNow(), updated.UpdatedAt)
	assert.Equal(t, "Prague, extended", updated.Name)
}

func TestService_ListNewestFirst(t *testing.T) {
	repo := trips.NewMemoryRepository()
	ctx := context.Background()

	at := func(offset time.Duration) *trips.Service {
		return trips.NewService(repo, func() time.Time { return fixedNow().Add(offset) })
	}

	first, err := at(0).Save(ctx, "auth0|alice", validInput())
	require.NoError(t, err)
	second, err := at(time.Hour).Save(ctx, "auth0|alice", validInput())
	require.NoError(t, err)
	_, err = at(2*time.Hour).Save(ctx, "auth0|bob", validInput())
	require.NoError(t, err)

	list, err := trips.NewService(repo, fixedNow).List(ctx, "auth0|alice")
	require.NoError(t, err)
	require.Len(t, list, 2, "only the owner's trips are listed")
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestService_DeleteRemovesTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	trip, err := svc.Save(ctx, "auth0|alice", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "auth0|alice", trip.ID))

	_, err = svc.Get(ctx, "auth0|alice", trip.ID)
	assert.ErrorIs(t, err, trips.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "auth0|alice", trip.ID), trips.ErrNotFound)
}
