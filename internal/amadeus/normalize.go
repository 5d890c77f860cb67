package amadeus

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalized view models. These are the cached payloads: derived once from
// the raw API response, shaped so a consumer can render every field without
// nil checks.

type Destination struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IataCode    string `json:"iataCode"`
	Type        string `json:"type"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	DisplayName string `json:"displayName"`
}

type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type FlightEndpoint struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
}

type FlightOffer struct {
	ID           string         `json:"id"`
	Price        Price          `json:"price"`
	Airline      string         `json:"airline"`
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	Duration     string         `json:"duration"`
	Stops        int            `json:"stops"`
	Segments     int            `json:"segments"`
	BookingClass string         `json:"bookingClass"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CancellationPolicy struct {
	Deadline   string `json:"deadline"`
	Refundable bool   `json:"refundable"`
}

type Hotel struct {
	Name            string              `json:"name"`
	Address         string              `json:"address"`
	Rating          string              `json:"rating"`
	Price           string              `json:"price"`
	BasePrice       string              `json:"basePrice,omitempty"`
	PricePerNight   string              `json:"pricePerNight,omitempty"`
	Amenities       []string            `json:"amenities"`
	Description     string              `json:"description"`
	ChainCode       string              `json:"chainCode"`
	RoomType        string              `json:"roomType"`
	BedType         string              `json:"bedType"`
	BedCount        int                 `json:"bedCount"`
	RoomDescription string              `json:"roomDescription"`
	MaxGuests       int                 `json:"maxGuests"`
	Coordinates     *Coordinates        `json:"coordinates"`
	CityCode        string              `json:"cityCode"`
	Cancellation    *CancellationPolicy `json:"cancellationPolicy"`
	PaymentType     string              `json:"paymentType"`
	CheckIn         string              `json:"checkIn"`
	CheckOut        string              `json:"checkOut"`
	OfferID         string              `json:"offerId,omitempty"`
	BookingURL      string              `json:"bookingUrl,omitempty"`
	HasOffers       bool                `json:"hasOffers"`
}

func normalizeDestination(res locationResource) Destination {
	city := res.Address.CityName
	if city == "" {
		city = res.Name
	}

	return Destination{
		ID:          res.ID,
		Name:        res.Name,
		IataCode:    res.IataCode,
		Type:        res.SubType,
		Country:     res.Address.CountryName,
		CountryCode: res.Address.CountryCode,
		City:        city,
		DisplayName: fmt.Sprintf("%s, %s", res.Name, res.Address.CountryName),
	}
}

func normalizeFlight(res flightOfferResource) FlightOffer {
	offer := FlightOffer{
		ID: res.ID,
		Price: Price{
			Total:    res.Price.Total,
			Currency: res.Price.Currency,
		},
		BookingClass: "ECONOMY",
	}

	if len(res.Itineraries) == 0 {
		return offer
	}

	itinerary := res.Itineraries[0]
	offer.Duration = formatDuration(parseISODurationMinutes(itinerary.Duration))

	if len(itinerary.Segments) == 0 {
		return offer
	}

	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	offer.Airline = first.CarrierCode
	offer.Departure = FlightEndpoint{Airport: first.Departure.IataCode, Time: first.Departure.At}
	offer.Arrival = FlightEndpoint{Airport: last.Arrival.IataCode, Time: last.Arrival.At}
	offer.Segments = len(itinerary.Segments)
	offer.Stops = len(itinerary.Segments) - 1
	if first.Cabin != "" {
		offer.BookingClass = first.Cabin
	}

	return offer
}

// normalizeHotel joins a hotel stub with its priced offer, when one exists.
// Missing fields get explicit sentinel values so the record renders
// unconditionally; stay dates default to the query's dates when the offer
// omits them.
func normalizeHotel(hotel hotelResource, offer *offerResource, cityCode string, q HotelQuery) Hotel {
	h := Hotel{
		Name:            "Hotel Name Not Available",
		Address:         "Address Not Available",
		Rating:          "N/A",
		Price:           "Pricing not available in test environment",
		Amenities:       []string{},
		Description:     "No description available",
		ChainCode:       "Independent",
		RoomType:        "Standard",
		BedType:         "Unknown",
		BedCount:        1,
		RoomDescription: "Room details not available",
		MaxGuests:       q.Adults,
		CityCode:        cityCode,
		CheckIn:         q.CheckInDate,
		CheckOut:        q.CheckOutDate,
		PaymentType:     "Unknown",
	}

	if hotel.Name != "" {
		h.Name = hotel.Name
	}
	if addr := formatHotelAddress(hotel); addr != "" {
		h.Address = addr
	}
	if hotel.Rating > 0 {
		h.Rating = strconv.Itoa(hotel.Rating)
	}
	if len(hotel.Amenities) > 0 {
		h.Amenities = hotel.Amenities
	}
	if hotel.ChainCode != "" {
		h.ChainCode = hotel.ChainCode
	}
	if hotel.Latitude != 0 || hotel.Longitude != 0 {
		h.Coordinates = &Coordinates{Lat: hotel.Latitude, Lng: hotel.Longitude}
	}
	if hotel.CityCode != "" {
		h.CityCode = hotel.CityCode
	}

	if offer == nil {
		return h
	}

	if offer.Price.Total != "" {
		h.Price = strings.TrimSpace(offer.Price.Total + " " + offer.Price.Currency)
	}
	if offer.Price.Base != "" {
		h.BasePrice = strings.TrimSpace(offer.Price.Base + " " + offer.Price.Currency)
	}
	if avg := offer.Price.Variations.Average.Base; avg != "" {
		h.PricePerNight = strings.TrimSpace(avg + " " + offer.Price.Currency)
	}
	if offer.Room.Type != "" {
		h.RoomType = offer.Room.Type
	}
	if offer.Room.TypeEstimated.BedType != "" {
		h.BedType = offer.Room.TypeEstimated.BedType
	}
	if offer.Room.TypeEstimated.Beds > 0 {
		h.BedCount = offer.Room.TypeEstimated.Beds
	}
	if offer.Room.Description.Text != "" {
		h.Description = offer.Room.Description.Text
		h.RoomDescription = offer.Room.Description.Text
	}
	if offer.Guests.Adults > 0 {
		h.MaxGuests = offer.Guests.Adults
	}
	if len(offer.Policies.Cancellations) > 0 {
		h.Cancellation = &CancellationPolicy{
			Deadline:   offer.Policies.Cancellations[0].Deadline,
			Refundable: offer.Policies.Refundable.CancellationRefund == "REFUNDABLE_UP_TO_DEADLINE",
		}
	}
	if offer.Policies.PaymentType != "" {
		h.PaymentType = offer.Policies.PaymentType
	}
	if offer.CheckInDate != "" {
		h.CheckIn = offer.CheckInDate
	}
	if offer.CheckOutDate != "" {
		h.CheckOut = offer.CheckOutDate
	}
	h.OfferID = offer.ID
	h.BookingURL = offer.Self
	h.HasOffers = offer.ID != ""

	return h
}

func formatHotelAddress(hotel hotelResource) string {
	parts := make([]string, 0, 3)
	if len(hotel.Address.Lines) > 0 && hotel.Address.Lines[0] != "" {
		parts = append(parts, hotel.Address.Lines[0])
	}
	if hotel.Address.CityName != "" {
		parts = append(parts, hotel.Address.CityName)
	}
	if hotel.Address.CountryCode != "" {
		parts = append(parts, hotel.Address.CountryCode)
	}
	return strings.Join(parts, ", ")
}

// parseISODurationMinutes handles the durations Amadeus emits: PT2H10M,
// PT45M, PT3H.
func parseISODurationMinutes(s string) int {
	s = strings.TrimPrefix(s, "PT")
	total := 0
	var num strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num.WriteRune(r)
			continue
		}
		v, _ := strconv.Atoi(num.String())
		num.Reset()
		switch r {
		case 'H':
			total += v * 60
		case 'M':
			total += v
		}
	}
	return total
}

func formatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
