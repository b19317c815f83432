package dto

import (
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
)

// CoordinatesQuery is the lat/lon pair required by most weather endpoints
type CoordinatesQuery struct {
	Lat  *float64 `form:"lat"`
	Lon  *float64 `form:"lon"`
	Days int      `form:"days"`
}

// Valid reports whether both coordinates were supplied
func (q CoordinatesQuery) Valid() bool {
	return q.Lat != nil && q.Lon != nil
}

// WeatherResponse is the payload of the current and city endpoints
type WeatherResponse struct {
	Location           models.WeatherLocation    `json:"location"`
	Current            models.CurrentWeather     `json:"current"`
	AgriculturalAdvice models.AgriculturalAdvice `json:"agriculturalAdvice"`
	DataSource         string                    `json:"dataSource" example:"OpenWeatherMap"`
}

// ForecastResponse is the payload of the forecast endpoint
type ForecastResponse struct {
	Location   models.WeatherLocation  `json:"location"`
	Daily      []models.DailyForecast  `json:"daily"`
	Hourly     []models.HourlyForecast `json:"hourly,omitempty"`
	DataSource string                  `json:"dataSource" example:"OpenWeatherMap"`
}

// AgriculturalResponse is the payload of the agricultural endpoint
type AgriculturalResponse struct {
	Location     models.WeatherLocation    `json:"location"`
	Current      models.CurrentWeather     `json:"current"`
	Daily        []models.DailyForecast    `json:"daily"`
	Agricultural agronomy.AgriculturalData `json:"agricultural"`
	DataSource   string                    `json:"dataSource" example:"OpenWeatherMap"`
}
