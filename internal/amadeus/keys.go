package amadeus

import (
	"fmt"
	"strings"
)

// Cache keys are built per search kind from normalized parameters, so that
// identical logical queries always map to the same entry and distinct ones
// never collide. An absent return date is written as an explicit marker
// rather than an empty field, keeping one-way and round-trip searches apart.

const onewayMarker = "oneway"

func destinationKey(keyword string) string {
	return "destinations:" + normalizeTerm(keyword)
}

func flightKey(q FlightQuery) string {
	returnDate := q.ReturnDate
	if returnDate == "" {
		returnDate = onewayMarker
	}
	return fmt.Sprintf("flights:%s:%s:%s:%s:%d",
		strings.ToUpper(strings.TrimSpace(q.Origin)),
		strings.ToUpper(strings.TrimSpace(q.Destination)),
		q.DepartureDate,
		returnDate,
		q.Adults,
	)
}

func hotelKey(q HotelQuery) string {
	return fmt.Sprintf("hotels:%s:%s:%s:%d",
		normalizeTerm(q.City),
		q.CheckInDate,
		q.CheckOutDate,
		q.Adults,
	)
}

// normalizeTerm lower-cases a free-text term and collapses internal runs of
// whitespace, so "New  York" and "new york" share an entry.
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}
