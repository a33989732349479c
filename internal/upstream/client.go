package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-advisory/internal/registry"
)

// Weather is the provider's condition sub-object, shared by the current
// block and the daily entries. It may be absent; the forecast builder
// fills defaults.
type Weather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current is the provider's current-conditions block.
type Current struct {
	Dt        int64     `json:"dt"`
	Temp      float64   `json:"temp"`
	FeelsLike float64   `json:"feels_like"`
	Humidity  float64   `json:"humidity"`
	WindSpeed float64   `json:"wind_speed"` // metres per second
	Weather   []Weather `json:"weather"`
}

// Daily is one entry of the provider's daily forecast array.
type Daily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Weather []Weather `json:"weather"`
	Pop     float64   `json:"pop"` // probability of precipitation, 0..1
}

// Alert is one raw active alert as supplied by the provider.
type Alert struct {
	SenderName  string `json:"sender_name"`
	Event       string `json:"event"`
	Start       int64  `json:"start"` // epoch seconds
	End         int64  `json:"end"`   // epoch seconds
	Description string `json:"description"`
}

// Report bundles everything one fetch returns for a location.
type Report struct {
	Current Current `json:"current"`
	Daily   []Daily `json:"daily"`
	Alerts  []Alert `json:"alerts"`
}

// Fetcher abstracts the upstream weather source so the aggregator can be
// tested against a fake.
type Fetcher interface {
	Fetch(ctx context.Context, loc registry.Location) (Report, error)
}

// StatusError reports a non-success response for a single location.
type StatusError struct {
	Location   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", e.StatusCode, e.Location)
}

// Client fetches One Call reports from OpenWeatherMap with retries,
// exponential backoff, and a circuit breaker.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg httpClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client. The API key may be empty; Fetch then fails
// immediately so the caller can surface a configuration error.
func NewClient(client *http.Client, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather-onecall",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/3.0/onecall",
		httpCfg: httpClientConfig{
			Client: client,
			Backoff: backoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Fetch retrieves current conditions, the daily forecast, and any active
// alerts for one location.
func (c *Client) Fetch(ctx context.Context, loc registry.Location) (Report, error) {
	if c.apiKey == "" {
		return Report{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", loc.Lon))
		values.Set("units", "metric")
		values.Set("exclude", "minutely,hourly")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, loc.Name, buildRequest)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return Report{}, fmt.Errorf("decode one call response for %s: %w", loc.Name, err)
	}

	return report, nil
}
