// Package weather looks up current conditions for a destination city. The
// lookup is deliberately uncached: conditions change faster than any TTL
// worth configuring here.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/voyago/travel-bridge/internal/config"
)

const currentWeatherPath = "/data/2.5/weather"

// Report is the normalized view of a current-conditions response.
type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	Conditions  string  `json:"conditions"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"windSpeed"`
}

// LookupError reports a failed upstream call, the key-missing case included.
type LookupError struct {
	StatusCode int
	Body       string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("weather lookup failed: %d - %s", e.StatusCode, e.Body)
}

func (e *LookupError) Status() (int, string) {
	return http.StatusBadGateway, "weather lookup failed"
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a weather client. A missing API key is not an error here;
// it surfaces as a lookup failure on first use.
func NewClient(cfg config.WeatherConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: cfg.APIURL, apiKey: cfg.APIKey, httpc: httpClient}
}

type wireReport struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns the current conditions for a city by free-text name.
func (c *Client) Current(ctx context.Context, city string) (Report, error) {
	if city == "" {
		return Report{}, fmt.Errorf("weather lookup requires a city")
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+currentWeatherPath+"?"+query.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("building weather request: %w", err)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("requesting weather: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return Report{}, &LookupError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var wire wireReport
	if err := json.NewDecoder(res.Body).Decode(&wire); err != nil {
		return Report{}, fmt.Errorf("decoding weather response: %w", err)
	}

	report := Report{
		City:        wire.Name,
		Temperature: wire.Main.Temp,
		FeelsLike:   wire.Main.FeelsLike,
		Humidity:    wire.Main.Humidity,
		WindSpeed:   wire.Wind.Speed,
	}
	if len(wire.Weather) > 0 {
		report.Conditions = wire.Weather[0].Description
		report.Icon = wire.Weather[0].Icon
	}
	if report.City == "" {
		report.City = city
	}
	return report, nil
}
