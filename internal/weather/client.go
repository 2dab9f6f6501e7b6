// Package weather integrates with the OpenWeatherMap API for current
// conditions and the 5-day forecast, and derives farming advice from them.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
)

// DefaultBaseURL is the OpenWeatherMap API root. Tests override it with an
// httptest server.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// DefaultTimeout bounds each API call.
const DefaultTimeout = 10 * time.Second

// Config configures the OpenWeatherMap client. The API key comes from the
// environment; it is never embedded in the binary.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the OpenWeatherMap API. Safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an OpenWeatherMap client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openweathermap api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Current is the subset of the current-weather response the bot uses.
type Current struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Description returns the primary condition description, or "" when absent.
func (c *Current) Description() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
}

// ForecastEntry is one 3-hourly slot of the 5-day forecast.
type ForecastEntry struct {
	DtTxt   string `json:"dt_txt"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Description returns the entry's condition description, or "" when absent.
func (e *ForecastEntry) Description() string {
	if len(e.Weather) == 0 {
		return ""
	}
	return e.Weather[0].Description
}

// Forecast is the subset of the 5-day forecast response the bot uses.
type Forecast struct {
	List []ForecastEntry `json:"list"`
}

// NotFoundError marks a location the API does not know. The handler turns it
// into a user-facing message instead of an error response.
type NotFoundError struct {
	Location string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("weather data not found for %q", e.Location)
}

// Current fetches the current weather for location in metric units.
func (c *Client) Current(ctx context.Context, location string) (*Current, error) {
	var out Current
	if err := c.get(ctx, "/weather", location, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast fetches the 5-day 3-hourly forecast for location in metric units.
func (c *Client) Forecast(ctx context.Context, location string) (*Forecast, error) {
	var out Forecast
	if err := c.get(ctx, "/forecast", location, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path, location string, out any) error {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	endpoint := strings.TrimPrefix(path, "/")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "weather API call failed",
			"path", path,
			"location", location,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		metrics.Global().RecordWeather(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		metrics.Global().RecordWeather(endpoint, "not_found", time.Since(start).Seconds())
		return &NotFoundError{Location: location}
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		metrics.Global().RecordWeather(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("weather request: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.Global().RecordWeather(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("decode weather response: %w", err)
	}
	metrics.Global().RecordWeather(endpoint, "success", time.Since(start).Seconds())
	return nil
}
