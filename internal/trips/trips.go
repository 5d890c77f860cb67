// Package trips stores saved trip plans per authenticated owner: the trip
// frame (name, destination, dates), free-form notes, picked flight and hotel
// results and a day-by-day itinerary.
package trips

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/voyago/travel-bridge/internal/amadeus"
)

// ErrNotFound covers both a missing trip and a trip owned by someone else;
// callers cannot distinguish the two.
var ErrNotFound = errors.New("trip not found")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Trip is the persisted record. Owner is the JWT subject that created it and
// never leaves the service.
type Trip struct {
	ID          string                `json:"id"`
	Owner       string                `json:"-"`
	Name        string                `json:"name"`
	Destination string                `json:"destination"`
	StartDate   string                `json:"startDate"`
	EndDate     string                `json:"endDate"`
	Notes       string                `json:"notes,omitempty"`
	Flights     []amadeus.FlightOffer `json:"flights,omitempty"`
	Hotels      []amadeus.Hotel       `json:"hotels,omitempty"`
	Itinerary   []ItineraryItem       `json:"itinerary,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type ItineraryItem struct {
	Title    string `json:"title" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=200"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Type     string `json:"type" validate:"required,oneof=attraction restaurant hotel activity"`
	Day      int    `json:"day" validate:"required,min=1"`
}

// Input is the caller-supplied trip body for create and update.
type Input struct {
	Name        string                `json:"name" validate:"required,max=200"`
	Destination string                `json:"destination" validate:"required,max=200"`
	StartDate   string                `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string                `json:"endDate" validate:"required,datetime=2006-01-02"`
	Notes       string                `json:"notes" validate:"max=2000"`
	Flights     []amadeus.FlightOffer `json:"flights" validate:"max=20"`
	Hotels      []amadeus.Hotel       `json:"hotels" validate:"max=20"`
	Itinerary   []ItineraryItem       `json:"itinerary" validate:"max=100,dive"`
}

func (in *Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if in.EndDate < in.StartDate {
		return &ValidationError{Message: "endDate must not precede startDate"}
	}
	return nil
}

// ValidationError marks caller mistakes so the HTTP layer can answer with a
// client status instead of a server one.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trip: %s", e.Message)
}

func (e *ValidationError) Status() (int, string) {
	return http.StatusBadRequest, e.Message
}
