package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/amadeus"
	"github.com/voyago/travel-bridge/internal/auth"
	"github.com/voyago/travel-bridge/internal/catalog"
	"github.com/voyago/travel-bridge/internal/trips"
	"github.com/voyago/travel-bridge/internal/weather"
)

// HTTPStatuser provides HTTP status information for errors
type HTTPStatuser interface {
	Status() (int, string)
}

func handleHealthCheck() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func handleSearchDestinations(client *amadeus.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		keyword := r.URL.Query().Get("keyword")
		if keyword == "" {
			writeJSONError(w, http.StatusBadRequest, "keyword is required")
			return
		}

		destinations, err := client.SearchDestinations(r.Context(), keyword)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("destination search failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, destinations)
	})
}

func handleSearchFlights(client *amadeus.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		params := r.URL.Query()
		q := amadeus.FlightQuery{
			Origin:        params.Get("origin"),
			Destination:   params.Get("destination"),
			DepartureDate: params.Get("departureDate"),
			ReturnDate:    params.Get("returnDate"),
			Adults:        queryInt(params.Get("adults"), 1),
		}

		if q.Origin == "" || q.Destination == "" || q.DepartureDate == "" {
			writeJSONError(w, http.StatusBadRequest, "origin, destination and departureDate are required")
			return
		}

		offers, err := client.SearchFlights(r.Context(), q)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("flight search failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, offers)
	})
}

func handleSearchHotels(client *amadeus.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		params := r.URL.Query()
		q := amadeus.HotelQuery{
			City:         params.Get("city"),
			CheckInDate:  params.Get("checkInDate"),
			CheckOutDate: params.Get("checkOutDate"),
			Adults:       queryInt(params.Get("adults"), 1),
		}

		if q.City == "" || q.CheckInDate == "" || q.CheckOutDate == "" {
			writeJSONError(w, http.StatusBadRequest, "city, checkInDate and checkOutDate are required")
			return
		}

		hotels, err := client.SearchHotels(r.Context(), q)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("hotel search failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, hotels)
	})
}

// CatalogResponse carries the curated destinations together with the
// category list so clients can render filters without a second request.
type CatalogResponse struct {
	Categories   []string              `json:"categories"`
	Destinations []catalog.Destination `json:"destinations"`
}

func handleCatalogDestinations(store *catalog.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		category := r.URL.Query().Get("category")

		writeJSON(w, CatalogResponse{
			Categories:   store.Categories(),
			Destinations: store.Destinations(category),
		})
	})
}

func handleWeather(client *weather.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		city := r.URL.Query().Get("city")
		if city == "" {
			writeJSONError(w, http.StatusBadRequest, "city is required")
			return
		}

		report, err := client.Current(r.Context(), city)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("weather lookup failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, report)
	})
}

func handleCreateTrip(service *trips.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		in, ok := readTripInput(w, r)
		if !ok {
			return
		}

		trip, err := service.Save(r.Context(), auth.SubjectFromContext(r.Context()), in)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("trip creation failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(trip); err != nil {
			log.Info().Msgf("failed to write response: %v", err)
		}
	})
}

func handleListTrips(service *trips.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		list, err := service.List(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("trip listing failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, list)
	})
}

func handleGetTrip(service *trips.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		trip, err := service.Get(r.Context(), auth.SubjectFromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("trip retrieval failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, trip)
	})
}

func handleUpdateTrip(service *trips.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		in, ok := readTripInput(w, r)
		if !ok {
			return
		}

		trip, err := service.Update(r.Context(), auth.SubjectFromContext(r.Context()), r.PathValue("id"), in)
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("trip update failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		writeJSON(w, trip)
	})
}

func handleDeleteTrip(service *trips.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer drainRequestBody(r)

		err := service.Delete(r.Context(), auth.SubjectFromContext(r.Context()), r.PathValue("id"))
		if err != nil {
			status, message := errorStatus(err)
			log.Info().Msgf("trip deletion failed: %v", err)
			writeJSONError(w, status, message)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// readTripInput decodes the request body into a trip input, writing the
// error response itself when decoding fails.
func readTripInput(w http.ResponseWriter, r *http.Request) (trips.Input, bool) {
	var in trips.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Info().Msgf("invalid trip body: %v", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return trips.Input{}, false
	}
	return in, true
}

// queryInt parses an optional numeric query parameter, falling back to the
// default for absent or malformed values.
func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func maxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, limit)
	}
}

// ErrorResponse represents a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// the status code has been written, so we can only log
		log.Info().Msgf("failed to write response: %v", err)
	}
}

// writeJSONError writes a JSON error response with the given status code and message.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// At this point the status code has been written, so we can only log
		log.Info().Msgf("failed to write JSON error response: %v", err)
	}
}

// errorStatus extracts HTTP status code and message from an error.
// Returns (StatusInternalServerError, StatusText) for errors that don't implement HTTPStatuser.
func errorStatus(err error) (int, string) {
	if errors.Is(err, trips.ErrNotFound) {
		return http.StatusNotFound, "trip not found"
	}

	var statuser HTTPStatuser
	if errors.As(err, &statuser) {
		return statuser.Status()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// drainRequestBody drains the request body by reading and discarding the contents.
// This is useful to ensure the request body is fully consumed, which is important
// for connection reuse in HTTP/1 clients.
func drainRequestBody(r *http.Request) {
	if r.Body != nil {
		// 5kb max: after this we'll assume the client is broken or malicious
		// and close the connection
		io.CopyN(io.Discard, r.Body, 5*1024*1024)
	}
}
