package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/cache"
	"github.com/voyago/travel-bridge/internal/config"
)

const (
	locationsPath    = "/v1/reference-data/locations"
	flightOffersPath = "/v2/shopping/flight-offers"
	hotelsByCityPath = "/v1/reference-data/locations/hotels/by-city"
	hotelOffersPath  = "/v3/shopping/hotel-offers"

	maxResults   = 10
	hotelRadius  = 20
	defaultAdult = 1
)

// TTLs holds the per-kind cache lifetimes for travel-data lookups.
type TTLs struct {
	Destination time.Duration
	Flight      time.Duration
	Hotel       time.Duration
}

// TTLsFromConfig extracts the lookup TTLs from cache configuration.
func TTLsFromConfig(cfg config.CacheConfig) TTLs {
	return TTLs{
		Destination: cfg.DestinationTTL,
		Flight:      cfg.FlightTTL,
		Hotel:       cfg.HotelTTL,
	}
}

// FlightQuery names the parameters of a flight-offer search. ReturnDate may
// be empty for a one-way search.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
}

// HotelQuery names the parameters of a hotel search. City may be a 3-letter
// IATA city code or a free-text city name.
type HotelQuery struct {
	City         string
	CheckInDate  string
	CheckOutDate string
	Adults       int
}

// Client composes the token source and the response cache around the three
// travel-data searches. Every search checks the cache before resolving a
// token, so a hit performs no network activity at all.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  *TokenSource
	cache   *cache.ResponseCache
	ttl     TTLs
}

func NewClient(cfg config.AmadeusConfig, ttl TTLs, tokens *TokenSource, responseCache *cache.ResponseCache, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		httpc:   httpClient,
		tokens:  tokens,
		cache:   responseCache,
		ttl:     ttl,
	}
}

// SearchDestinations looks up cities matching a keyword.
func (c *Client) SearchDestinations(ctx context.Context, keyword string) ([]Destination, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("destination keyword must not be empty")
	}

	return cache.GetOrPopulate(ctx, c.cache, destinationKey(keyword), c.ttl.Destination,
		func(ctx context.Context) ([]Destination, error) {
			return c.fetchDestinations(ctx, keyword)
		})
}

func (c *Client) fetchDestinations(ctx context.Context, keyword string) ([]Destination, error) {
	query := url.Values{}
	query.Set("subType", "CITY")
	query.Set("keyword", keyword)
	query.Set("page[limit]", strconv.Itoa(maxResults))

	var payload locationsResponse
	if err := c.getJSON(ctx, locationsPath, query, "destination", &payload); err != nil {
		return nil, err
	}

	results := make([]Destination, 0, len(payload.Data))
	for _, res := range payload.Data {
		results = append(results, normalizeDestination(res))
	}
	return results, nil
}

// SearchFlights looks up flight offers for a route and date. The return date
// is optional; when absent it is omitted from the upstream request and the
// search caches independently of any round-trip variant.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]FlightOffer, error) {
	if q.Origin == "" || q.Destination == "" || q.DepartureDate == "" {
		return nil, fmt.Errorf("flight search requires origin, destination and departure date")
	}
	if q.Adults <= 0 {
		q.Adults = defaultAdult
	}

	return cache.GetOrPopulate(ctx, c.cache, flightKey(q), c.ttl.Flight,
		func(ctx context.Context) ([]FlightOffer, error) {
			return c.fetchFlights(ctx, q)
		})
}

func (c *Client) fetchFlights(ctx context.Context, q FlightQuery) ([]FlightOffer, error) {
	query := url.Values{}
	query.Set("originLocationCode", strings.ToUpper(strings.TrimSpace(q.Origin)))
	query.Set("destinationLocationCode", strings.ToUpper(strings.TrimSpace(q.Destination)))
	query.Set("departureDate", q.DepartureDate)
	query.Set("adults", strconv.Itoa(q.Adults))
	query.Set("max", strconv.Itoa(maxResults))
	if q.ReturnDate != "" {
		query.Set("returnDate", q.ReturnDate)
	}

	var payload flightOffersResponse
	if err := c.getJSON(ctx, flightOffersPath, query, "flight", &payload); err != nil {
		return nil, err
	}

	results := make([]FlightOffer, 0, len(payload.Data))
	for _, res := range payload.Data {
		results = append(results, normalizeFlight(res))
	}
	return results, nil
}

// SearchHotels lists hotels in a city together with their best priced offer.
//
// A free-text city name is resolved to an IATA code through the destination
// search; when resolution comes up empty the uppercased raw input is used so
// the hotel lookup still proceeds. Zero hotels short-circuits before the
// offers call. The offers batch is best-effort: a failure there degrades to
// unpriced hotel records rather than failing the search.
func (c *Client) SearchHotels(ctx context.Context, q HotelQuery) ([]Hotel, error) {
	if q.City == "" || q.CheckInDate == "" || q.CheckOutDate == "" {
		return nil, fmt.Errorf("hotel search requires city, check-in and check-out dates")
	}
	if q.Adults <= 0 {
		q.Adults = defaultAdult
	}

	return cache.GetOrPopulate(ctx, c.cache, hotelKey(q), c.ttl.Hotel,
		func(ctx context.Context) ([]Hotel, error) {
			return c.fetchHotels(ctx, q)
		})
}

func (c *Client) fetchHotels(ctx context.Context, q HotelQuery) ([]Hotel, error) {
	cityCode := c.resolveCityCode(ctx, q.City)

	query := url.Values{}
	query.Set("cityCode", cityCode)
	query.Set("radius", strconv.Itoa(hotelRadius))
	query.Set("radiusUnit", "KM")
	query.Set("hotelSource", "ALL")

	var listing hotelListResponse
	if err := c.getJSON(ctx, hotelsByCityPath, query, "hotel", &listing); err != nil {
		return nil, err
	}

	hotels := listing.Data
	if len(hotels) == 0 {
		return []Hotel{}, nil
	}
	if len(hotels) > maxResults {
		hotels = hotels[:maxResults]
	}

	offers := c.fetchHotelOffers(ctx, hotels, q)

	results := make([]Hotel, 0, len(hotels))
	for _, hotel := range hotels {
		results = append(results, normalizeHotel(hotel, offers[hotel.HotelID], cityCode, q))
	}
	return results, nil
}

// resolveCityCode maps free-text city input to an IATA city code. Inputs that
// already look like a code pass through uppercased; failures of the
// destination lookup fall back to the raw input rather than failing the
// caller's search.
func (c *Client) resolveCityCode(ctx context.Context, city string) string {
	city = strings.TrimSpace(city)
	cityCode := strings.ToUpper(city)

	if len(city) <= 3 && !strings.Contains(city, " ") {
		return cityCode
	}

	destinations, err := c.SearchDestinations(ctx, city)
	if err != nil || len(destinations) == 0 {
		log.Warn().Err(err).Str("city", city).Msg("city code resolution failed, using raw input")
		return cityCode
	}

	match := destinations[0]
	for _, d := range destinations {
		if d.Type == "CITY" {
			match = d
			break
		}
	}
	if match.IataCode != "" {
		return match.IataCode
	}
	return cityCode
}

// fetchHotelOffers requests priced offers for the listed hotels in one
// batched call, returning the first offer per hotel ID. Errors are logged
// and produce an empty join.
func (c *Client) fetchHotelOffers(ctx context.Context, hotels []hotelResource, q HotelQuery) map[string]*offerResource {
	ids := make([]string, 0, len(hotels))
	for _, h := range hotels {
		ids = append(ids, h.HotelID)
	}

	query := url.Values{}
	query.Set("hotelIds", strings.Join(ids, ","))
	query.Set("adults", strconv.Itoa(q.Adults))
	query.Set("checkInDate", q.CheckInDate)
	query.Set("checkOutDate", q.CheckOutDate)

	var payload hotelOffersResponse
	if err := c.getJSON(ctx, hotelOffersPath, query, "hotel", &payload); err != nil {
		log.Warn().Err(err).Msg("hotel offers lookup failed, returning hotels without pricing")
		return nil
	}

	offers := make(map[string]*offerResource, len(payload.Data))
	for _, res := range payload.Data {
		if res.Hotel.HotelID == "" || len(res.Offers) == 0 {
			continue
		}
		offer := res.Offers[0]
		offers[res.Hotel.HotelID] = &offer
	}
	return offers
}

// getJSON resolves a bearer token, performs an authenticated GET and decodes
// the JSON response. Non-success statuses become SearchErrors of the given
// kind.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, kind string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building %s search request: %w", kind, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s search request failed: %w", kind, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &SearchError{
			Kind:       kind,
			StatusCode: res.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s search response: %w", kind, err)
	}
	return nil
}
