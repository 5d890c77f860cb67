package amadeus

import (
	"fmt"
	"net/http"
)

// AuthenticationError reports a failed client-credentials exchange. The
// token state is left untouched, so the next call retries the exchange.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("auth failed: %d - %s", e.StatusCode, e.Body)
}

// Status implements the HTTP status mapping used by the handlers. Upstream
// authentication failures are a gateway problem from the client's view.
func (e *AuthenticationError) Status() (int, string) {
	return http.StatusBadGateway, "travel data authentication failed"
}

// SearchError reports a non-success response from a travel-data endpoint,
// after a valid token was obtained.
type SearchError struct {
	Kind       string // "destination", "flight" or "hotel"
	StatusCode int
	Body       string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s search failed: %d - %s", e.Kind, e.StatusCode, e.Body)
}

func (e *SearchError) Status() (int, string) {
	return http.StatusBadGateway, fmt.Sprintf("%s search failed upstream", e.Kind)
}
