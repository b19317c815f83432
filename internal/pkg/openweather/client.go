// Package openweather is a small client for OpenWeatherMap-compatible
// current-weather and 5-day/3-hour forecast endpoints.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

// ErrNoAPIKey is returned when the client has no key configured
var ErrNoAPIKey = errors.New("openweather: api key not configured")

// Config holds the provider settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the provider over HTTP
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new provider client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether calls will reach the provider
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Snapshot is a formatted current observation
type Snapshot struct {
	Location   models.WeatherLocation `json:"location"`
	Current    models.CurrentWeather  `json:"current"`
	ObservedAt time.Time              `json:"timestamp"`
}

// Forecast is a formatted forecast aggregated per day
type Forecast struct {
	Location models.WeatherLocation  `json:"location"`
	Daily    []models.DailyForecast  `json:"daily"`
	Hourly   []models.HourlyForecast `json:"hourly"`
}

// Current fetches the observation at a coordinate
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	q := url.Values{}
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))

	var raw currentResponse
	if err := c.get(ctx, "/weather", q, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch current weather data: %w", err)
	}
	return raw.snapshot(), nil
}

// CurrentByCity fetches the observation for "city" or "city,country"
func (c *Client) CurrentByCity(ctx context.Context, city, country string) (*Snapshot, error) {
	query := city
	if country != "" {
		query = city + "," + country
	}
	q := url.Values{}
	q.Set("q", query)

	var raw currentResponse
	if err := c.get(ctx, "/weather", q, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch weather data for the specified city: %w", err)
	}
	return raw.snapshot(), nil
}

// MaxForecastDays caps the cnt parameter at days*8
const MaxForecastDays = 16

// Forecast fetches days*8 three-hour steps and aggregates them per calendar day
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error) {
	if days <= 0 {
		days = 7
	}
	if days > MaxForecastDays {
		days = MaxForecastDays
	}
	q := url.Values{}
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))
	q.Set("cnt", strconv.Itoa(days*8))

	var raw forecastResponse
	if err := c.get(ctx, "/forecast", q, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch weather forecast: %w", err)
	}

	return &Forecast{
		Location: models.WeatherLocation{
			Type:        "Point",
			Name:        raw.City.Name,
			Country:     raw.City.Country,
			Coordinates: []float64{raw.City.Coord.Lon, raw.City.Coord.Lat},
		},
		Daily:  AggregateForecast(raw.List),
		Hourly: hourly(raw.List),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if !c.Enabled() {
		return ErrNoAPIKey
	}
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: openweather returned %d: %s", apperrors.ErrExternalService, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", apperrors.ErrExternalService, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
