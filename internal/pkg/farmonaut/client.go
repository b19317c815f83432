// Package farmonaut talks to the Farmonaut satellite and weather API on
// RapidAPI and provides the local data served when it is unavailable.
package farmonaut

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

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

// ErrNoAPIKey is returned when no RapidAPI key is configured
var ErrNoAPIKey = errors.New("farmonaut: rapidapi key not configured")

// Sources reported in Metadata
const (
	SourceAPI      = "Farmonaut API"
	SourceFallback = "Fallback Data"
)

// Config holds the RapidAPI settings
type Config struct {
	APIKey  string
	BaseURL string
	Host    string
	Timeout time.Duration
}

// Client calls the RapidAPI endpoints
type Client struct {
	apiKey  string
	baseURL string
	host    string
	http    *http.Client
	now     func() time.Time
}

// NewClient creates a new RapidAPI client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		host:    cfg.Host,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Enabled reports whether a key is configured
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Location is a coordinate pair
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CropQuery selects crop recommendations
type CropQuery struct {
	Location
	SoilType string
	Season   string
}

// FertilizerQuery selects fertilizer recommendations
type FertilizerQuery struct {
	CropType   string
	SoilType   string
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
}

// SatelliteQuery selects imagery-derived field data
type SatelliteQuery struct {
	Location
	FieldID string
}

// Metadata says where a payload came from
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	CropType  string    `json:"cropType,omitempty"`
}

// CropRecommendations is the crop endpoint payload
type CropRecommendations struct {
	Success         bool        `json:"success"`
	Season          string      `json:"season"`
	SoilType        string      `json:"soilType,omitempty"`
	Recommendations interface{} `json:"recommendations"`
	Metadata        Metadata    `json:"metadata"`
}

// WeatherReport is the weather endpoint payload
type WeatherReport struct {
	Success            bool           `json:"success"`
	Current            CurrentWeather `json:"current"`
	Forecast           interface{}    `json:"forecast"`
	AgriculturalAdvice FarmAdvice     `json:"agriculturalAdvice"`
	Metadata           Metadata       `json:"metadata"`
}

// CurrentWeather is the provider's observation
type CurrentWeather struct {
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Precipitation *float64 `json:"precipitation"`
	WindSpeed     *float64 `json:"windSpeed"`
	Description   string   `json:"description"`
}

// FertilizerReport is the fertilizer endpoint payload
type FertilizerReport struct {
	Success           bool        `json:"success"`
	Recommendations   interface{} `json:"recommendations"`
	NPKRatio          *string     `json:"npkRatio"`
	ApplicationTiming interface{} `json:"applicationTiming"`
	Dosage            interface{} `json:"dosage"`
	Metadata          Metadata    `json:"metadata"`
}

// CropRecommendations fetches crop suggestions for a location. A response
// without recommendations is reported as an error so the caller can fall back.
func (c *Client) CropRecommendations(ctx context.Context, q CropQuery) (*CropRecommendations, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(q.Latitude))
	params.Set("lon", formatFloat(q.Longitude))
	params.Set("soil_type", q.SoilType)
	params.Set("season", q.Season)

	var raw struct {
		Recommendations interface{} `json:"recommendations"`
	}
	if err := c.get(ctx, "/crop-recommendations", params, &raw); err != nil {
		return nil, err
	}
	if raw.Recommendations == nil {
		return nil, fmt.Errorf("%w: farmonaut returned no recommendations", apperrors.ErrExternalService)
	}

	return &CropRecommendations{
		Success:         true,
		Season:          q.Season,
		Recommendations: raw.Recommendations,
		Metadata:        Metadata{Timestamp: c.now(), Source: SourceAPI},
	}, nil
}

// Weather fetches the provider's observation and derives farm advice
func (c *Client) Weather(ctx context.Context, loc Location) (*WeatherReport, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(loc.Latitude))
	params.Set("lon", formatFloat(loc.Longitude))

	var raw weatherResponse
	if err := c.get(ctx, "/weather", params, &raw); err != nil {
		return nil, err
	}

	current := raw.current()
	forecast := raw.Forecast
	if forecast == nil {
		forecast = []interface{}{}
	}

	return &WeatherReport{
		Success:            true,
		Current:            current,
		Forecast:           forecast,
		AgriculturalAdvice: Advice(current),
		Metadata:           Metadata{Timestamp: c.now(), Source: SourceAPI},
	}, nil
}

// FertilizerRecommendations fetches a fertilizer plan for a crop and soil test
func (c *Client) FertilizerRecommendations(ctx context.Context, q FertilizerQuery) (*FertilizerReport, error) {
	params := url.Values{}
	params.Set("crop", q.CropType)
	params.Set("soil_type", q.SoilType)
	params.Set("n", formatFloat(q.Nitrogen))
	params.Set("p", formatFloat(q.Phosphorus))
	params.Set("k", formatFloat(q.Potassium))

	var raw struct {
		Recommendations interface{} `json:"recommendations"`
		NPKRatio        *string     `json:"npk_ratio"`
		Timing          interface{} `json:"timing"`
		Dosage          interface{} `json:"dosage"`
	}
	if err := c.get(ctx, "/fertilizer-recommendations", params, &raw); err != nil {
		return nil, err
	}

	report := &FertilizerReport{
		Success:           true,
		Recommendations:   raw.Recommendations,
		NPKRatio:          raw.NPKRatio,
		ApplicationTiming: raw.Timing,
		Dosage:            raw.Dosage,
		Metadata:          Metadata{Timestamp: c.now(), Source: SourceAPI},
	}
	if report.Recommendations == nil {
		report.Recommendations = []interface{}{}
	}
	if report.ApplicationTiming == nil {
		report.ApplicationTiming = []interface{}{}
	}
	if report.Dosage == nil {
		report.Dosage = map[string]interface{}{}
	}
	return report, nil
}

// SatelliteData returns the provider's payload untouched
func (c *Client) SatelliteData(ctx context.Context, q SatelliteQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(q.Latitude))
	params.Set("lon", formatFloat(q.Longitude))
	if q.FieldID != "" {
		params.Set("field_id", q.FieldID)
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/satellite-data", params, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if !c.Enabled() {
		return ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: farmonaut %s returned %d: %s", apperrors.ErrExternalService, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", apperrors.ErrExternalService, path, err)
	}
	return nil
}

// weatherResponse accepts both field spellings the provider uses
type weatherResponse struct {
	Temperature   *float64    `json:"temperature"`
	Temp          *float64    `json:"temp"`
	Humidity      *float64    `json:"humidity"`
	Precipitation *float64    `json:"precipitation"`
	Rain          *float64    `json:"rain"`
	WindSpeed     *float64    `json:"wind_speed"`
	Wind          *float64    `json:"wind"`
	Description   string      `json:"description"`
	WeatherDesc   string      `json:"weather_desc"`
	Forecast      interface{} `json:"forecast"`
}

func (w weatherResponse) current() CurrentWeather {
	desc := w.Description
	if desc == "" {
		desc = w.WeatherDesc
	}
	return CurrentWeather{
		Temperature:   firstSet(w.Temperature, w.Temp),
		Humidity:      w.Humidity,
		Precipitation: firstSet(w.Precipitation, w.Rain),
		WindSpeed:     firstSet(w.WindSpeed, w.Wind),
		Description:   desc,
	}
}

// firstSet picks the first non-nil, non-zero value
func firstSet(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil && *v != 0 {
			return v
		}
	}
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
