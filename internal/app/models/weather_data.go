package models

import (
	"time"
)

// Weather data sources
const (
	WeatherSourceOpenWeather = "OpenWeatherMap"
	WeatherSourceFallback    = "Fallback"
)

// WeatherData is a persisted weather snapshot based on the 'weather_data' table
type WeatherData struct {
	ID                 int64              `json:"id" db:"id"`
	UserID             *int64             `json:"user,omitempty" db:"user_id"`
	Location           WeatherLocation    `json:"location" db:"location"`
	Current            *CurrentWeather    `json:"current,omitempty" db:"current"`
	Daily              []DailyForecast    `json:"daily,omitempty" db:"daily"`
	Hourly             []HourlyForecast   `json:"hourly,omitempty" db:"hourly"`
	Alerts             []WeatherAlert     `json:"alerts,omitempty" db:"alerts"`
	AgriculturalAdvice AgriculturalAdvice `json:"agriculturalAdvice" db:"agricultural_advice"`
	DataSource         string             `json:"dataSource" db:"data_source"`
	LastUpdated        time.Time          `json:"lastUpdated" db:"last_updated"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}

// WeatherLocation is a GeoJSON point with a display name
type WeatherLocation struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
	Name        string    `json:"name,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// CurrentWeather is a point-in-time observation
type CurrentWeather struct {
	Temperature   float64  `json:"temperature"`
	FeelsLike     float64  `json:"feelsLike"`
	Humidity      float64  `json:"humidity"`
	Pressure      float64  `json:"pressure"`
	WindSpeed     float64  `json:"windSpeed"`
	WindDirection float64  `json:"windDirection"`
	Cloudiness    float64  `json:"cloudiness"`
	Visibility    float64  `json:"visibility"`
	UVIndex       *float64 `json:"uvIndex,omitempty"`
	Rainfall      float64  `json:"rainfall"`
	Description   string   `json:"description"`
	Icon          string   `json:"icon"`
}

// DailyForecast aggregates one calendar day
type DailyForecast struct {
	Date         time.Time        `json:"date"`
	Temperature  DailyTemperature `json:"temperature"`
	Humidity     float64          `json:"humidity"`
	WindSpeed    float64          `json:"windSpeed"`
	Rainfall     float64          `json:"rainfall"`
	ChanceOfRain float64          `json:"chanceOfRain"`
	Description  string           `json:"description"`
	Icon         string           `json:"icon"`
}

// DailyTemperature is the day's range
type DailyTemperature struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HourlyForecast is one forecast step
type HourlyForecast struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Rainfall    float64   `json:"rainfall"`
	Description string    `json:"description"`
}

// WeatherAlert is a provider-issued warning
type WeatherAlert struct {
	Event       string    `json:"event"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// AgriculturalAdvice is derived from the observation
type AgriculturalAdvice struct {
	Irrigation  string `json:"irrigation"`
	PestControl string `json:"pestControl"`
	Harvesting  string `json:"harvesting"`
	General     string `json:"general"`
}
