package amadeus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationKey_NormalizesTerm(t *testing.T) {
	cases := []struct {
		name     string
		keyword  string
		expected string
	}{
		{"lowercase", "paris", "destinations:paris"},
		{"mixed case", "PaRiS", "destinations:paris"},
		{"surrounding whitespace", "  paris  ", "destinations:paris"},
		{"internal whitespace collapsed", "new   york", "destinations:new york"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, destinationKey(tc.keyword))
		})
	}
}

func TestFlightKey(t *testing.T) {
	oneWay := FlightQuery{
		Origin:        "lhr",
		Destination:   " jfk ",
		DepartureDate: "2025-09-01",
		Adults:        2,
	}
	assert.Equal(t, "flights:LHR:JFK:2025-09-01:oneway:2", flightKey(oneWay))

	roundTrip := oneWay
	roundTrip.ReturnDate = "2025-09-10"
	assert.Equal(t, "flights:LHR:JFK:2025-09-01:2025-09-10:2", flightKey(roundTrip))
	assert.NotEqual(t, flightKey(oneWay), flightKey(roundTrip))
}

func TestHotelKey(t *testing.T) {
	q := HotelQuery{
		City:         "New  York",
		CheckInDate:  "2025-09-01",
		CheckOutDate: "2025-09-05",
		Adults:       2,
	}
	assert.Equal(t, "hotels:new york:2025-09-01:2025-09-05:2", hotelKey(q))
}
