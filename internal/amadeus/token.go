package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voyago/travel-bridge/internal/cache"
	"github.com/voyago/travel-bridge/internal/config"
)

const tokenPath = "/v1/security/oauth2/token"

// TokenSource acquires and renews the bearer token guarding every
// travel-data call. A token is reused until it reaches its safety margin;
// the first caller past that point performs a client-credentials exchange
// while concurrent callers wait for the result, so a burst of searches costs
// one exchange.
type TokenSource struct {
	endpoint     string
	clientID     string
	clientSecret string
	client       *http.Client
	clock        cache.Clock

	// validity is the window assumed when the provider omits expires_in;
	// margin is subtracted from whichever window applies.
	validity time.Duration
	margin   time.Duration

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a token source for the configured Amadeus
// environment. A nil httpClient falls back to http.DefaultClient, a nil
// clock to the system clock.
func NewTokenSource(cfg config.AmadeusConfig, httpClient *http.Client, clock cache.Clock) *TokenSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if clock == nil {
		clock = cache.SystemClock{}
	}

	return &TokenSource{
		endpoint:     strings.TrimSuffix(cfg.APIURL, "/") + tokenPath,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       httpClient,
		clock:        clock,
		validity:     time.Duration(cfg.TokenExpirySeconds) * time.Second,
		margin:       time.Duration(cfg.TokenMarginSeconds) * time.Second,
	}
}

// Token returns the current bearer token, performing a credential exchange
// when none is held or the held one has passed its safety margin.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.clock.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, expiresAt, err := s.exchange(ctx)
	if err != nil {
		// leave the state untouched so the next call retries
		return "", err
	}

	s.token = token
	s.expiresAt = expiresAt

	log.Debug().Time("expiry", expiresAt).Msg("travel data token refreshed")

	return s.token, nil
}

func (s *TokenSource) exchange(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token exchange failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", time.Time{}, &AuthenticationError{
			StatusCode: res.StatusCode,
			Body:       string(body),
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token response missing access_token")
	}

	window := s.validity
	if payload.ExpiresIn > 0 {
		window = time.Duration(payload.ExpiresIn) * time.Second
	}
	if window > s.margin {
		window -= s.margin
	}

	return payload.AccessToken, s.clock.Now().Add(window), nil
}
