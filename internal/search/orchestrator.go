// Package search coordinates travel-data lookups on behalf of an
// interactive caller: it tracks loading and error state across the three
// search kinds and debounces keystroke-driven queries.
package search

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/amadeus"
)

// User-facing messages. Each search kind reports one fixed message on
// failure; validation problems get their own text and never reach the
// network.
const (
	msgDestinationFailure = "Failed to search destinations. Please try again."
	msgFlightFailure      = "Failed to search flights. Please try again."
	msgHotelFailure       = "Failed to search hotels. Please try again."
	msgFlightValidation   = "Please fill in all required flight search fields."
	msgHotelValidation    = "Please fill in all required hotel search fields."
)

// TravelData is the slice of the travel client the orchestrator drives.
type TravelData interface {
	SearchDestinations(ctx context.Context, keyword string) ([]amadeus.Destination, error)
	SearchFlights(ctx context.Context, q amadeus.FlightQuery) ([]amadeus.FlightOffer, error)
	SearchHotels(ctx context.Context, q amadeus.HotelQuery) ([]amadeus.Hotel, error)
}

// State is a point-in-time snapshot of the orchestrator. Error is empty when
// the last action succeeded; an empty result list with an empty Error is a
// no-results state, not a failure.
type State struct {
	Loading      bool
	Error        string
	Destinations []amadeus.Destination
	Flights      []amadeus.FlightOffer
	Hotels       []amadeus.Hotel
}

// Orchestrator serializes state mutation behind a mutex while the searches
// themselves run unlocked. Every action stamps a generation before its
// lookup and applies the outcome only when still current, so a slow response
// never overwrites the state of a newer search.
type Orchestrator struct {
	client TravelData

	mu         sync.Mutex
	generation uint64
	state      State
}

func NewOrchestrator(client TravelData) *Orchestrator {
	return &Orchestrator{
		client: client,
		state: State{
			Destinations: []amadeus.Destination{},
			Flights:      []amadeus.FlightOffer{},
			Hotels:       []amadeus.Hotel{},
		},
	}
}

// State returns a copy of the current snapshot.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SearchDestinations runs a destination lookup for the keyword. A blank
// keyword is ignored.
func (o *Orchestrator) SearchDestinations(ctx context.Context, keyword string) {
	if normalizeQuery(keyword) == "" {
		return
	}

	gen := o.begin()

	results, err := o.client.SearchDestinations(ctx, keyword)
	if err != nil {
		log.Warn().Err(err).Str("keyword", keyword).Msg("destination search failed")
		o.fail(gen, msgDestinationFailure, func(s *State) { s.Destinations = []amadeus.Destination{} })
		return
	}
	o.succeed(gen, func(s *State) { s.Destinations = results })
}

// SearchFlights runs a flight-offer lookup. Missing required fields surface
// as a validation message without touching the network.
func (o *Orchestrator) SearchFlights(ctx context.Context, q amadeus.FlightQuery) {
	if q.Origin == "" || q.Destination == "" || q.DepartureDate == "" {
		o.reject(msgFlightValidation)
		return
	}

	gen := o.begin()

	results, err := o.client.SearchFlights(ctx, q)
	if err != nil {
		log.Warn().Err(err).Str("origin", q.Origin).Str("destination", q.Destination).
			Msg("flight search failed")
		o.fail(gen, msgFlightFailure, func(s *State) { s.Flights = []amadeus.FlightOffer{} })
		return
	}
	o.succeed(gen, func(s *State) { s.Flights = results })
}

// SearchHotels runs a hotel lookup for a city and stay window.
func (o *Orchestrator) SearchHotels(ctx context.Context, q amadeus.HotelQuery) {
	if q.City == "" || q.CheckInDate == "" || q.CheckOutDate == "" {
		o.reject(msgHotelValidation)
		return
	}

	gen := o.begin()

	results, err := o.client.SearchHotels(ctx, q)
	if err != nil {
		log.Warn().Err(err).Str("city", q.City).Msg("hotel search failed")
		o.fail(gen, msgHotelFailure, func(s *State) { s.Hotels = []amadeus.Hotel{} })
		return
	}
	o.succeed(gen, func(s *State) { s.Hotels = results })
}

// ClearResults drops every result list and any error, leaving loading state
// untouched.
func (o *Orchestrator) ClearResults() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Destinations = []amadeus.Destination{}
	o.state.Flights = []amadeus.FlightOffer{}
	o.state.Hotels = []amadeus.Hotel{}
	o.state.Error = ""
}

// begin opens a new action: clears the previous error, raises loading and
// returns the generation the caller must present when settling.
func (o *Orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.state.Loading = true
	o.state.Error = ""
	return o.generation
}

// settle applies fn and drops loading, but only when gen is still the newest
// action. Stale completions are discarded wholesale.
func (o *Orchestrator) settle(gen uint64, fn func(*State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		return
	}
	fn(&o.state)
	o.state.Loading = false
}

func (o *Orchestrator) succeed(gen uint64, apply func(*State)) {
	o.settle(gen, func(s *State) {
		apply(s)
		s.Error = ""
	})
}

func (o *Orchestrator) fail(gen uint64, message string, reset func(*State)) {
	o.settle(gen, func(s *State) {
		reset(s)
		s.Error = message
	})
}

// reject records a validation message without entering the loading state.
func (o *Orchestrator) reject(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Error = message
}
