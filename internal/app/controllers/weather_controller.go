package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

// WeatherController handles weather endpoints
type WeatherController struct {
	weatherService services.WeatherService
}

// NewWeatherController creates a new WeatherController
func NewWeatherController(weatherService services.WeatherService) *WeatherController {
	return &WeatherController{weatherService: weatherService}
}

// coordinates binds lat/lon and rejects requests that omit either. An absent
// days defaults to a week; explicit values must lie in 1..16.
func coordinates(ctx *gin.Context) (dto.CoordinatesQuery, bool) {
	var q dto.CoordinatesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil || !q.Valid() {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Please provide latitude and longitude"))
		return q, false
	}
	if _, given := ctx.GetQuery("days"); given && (q.Days < 1 || q.Days > agronomy.MaxForecastDays) {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(
			fmt.Sprintf("Days must be between 1 and %d", agronomy.MaxForecastDays)))
		return q, false
	}
	q.Days = agronomy.ForecastDays(q.Days)
	return q, true
}

// GetCurrent returns the observation at a coordinate
// @Summary Current weather
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} dto.APIResponse{data=dto.WeatherResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /weather/current [get]
func (c *WeatherController) GetCurrent(ctx *gin.Context) {
	q, ok := coordinates(ctx)
	if !ok {
		return
	}

	resp, err := c.weatherService.Current(ctx.Request.Context(), middleware.CurrentUserID(ctx), *q.Lat, *q.Lon)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetForecast returns a daily forecast
// @Summary Weather forecast
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param days query int false "Number of days" default(7)
// @Success 200 {object} dto.APIResponse{data=dto.ForecastResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /weather/forecast [get]
func (c *WeatherController) GetForecast(ctx *gin.Context) {
	q, ok := coordinates(ctx)
	if !ok {
		return
	}

	resp, err := c.weatherService.Forecast(ctx.Request.Context(), middleware.CurrentUserID(ctx), *q.Lat, *q.Lon, q.Days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetByCity returns the observation for a named city
// @Summary Weather by city
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param cityName path string true "City name"
// @Param country query string false "ISO country code"
// @Success 200 {object} dto.APIResponse{data=dto.WeatherResponse}
// @Router /weather/city/{cityName} [get]
func (c *WeatherController) GetByCity(ctx *gin.Context) {
	city := strings.TrimSpace(ctx.Param("cityName"))
	if city == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Please provide a city name"))
		return
	}

	resp, err := c.weatherService.City(ctx.Request.Context(), middleware.CurrentUserID(ctx), city, ctx.Query("country"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetHistory lists the user's stored observations, newest first
// @Summary Weather history
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.WeatherData}
// @Router /weather/history [get]
func (c *WeatherController) GetHistory(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	items, total, err := c.weatherService.History(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, items, total, limit)
}

// GetAlerts returns active weather alerts for a coordinate
// @Summary Weather alerts
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} dto.APIResponse{data=[]models.WeatherAlert}
// @Failure 400 {object} dto.ErrorResponse
// @Router /weather/alerts [get]
func (c *WeatherController) GetAlerts(ctx *gin.Context) {
	q, ok := coordinates(ctx)
	if !ok {
		return
	}

	alerts, err := c.weatherService.Alerts(ctx.Request.Context(), *q.Lat, *q.Lon)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if len(alerts) == 0 {
		ctx.JSON(http.StatusOK, dto.APIResponse{
			Success: true,
			Message: "No active weather alerts for your location",
			Data:    []models.WeatherAlert{},
		})
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(alerts))
}

// GetAgricultural returns field metrics derived from the forecast
// @Summary Agricultural weather metrics
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param days query int false "Number of days" default(7)
// @Success 200 {object} dto.APIResponse{data=dto.AgriculturalResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /weather/agricultural [get]
func (c *WeatherController) GetAgricultural(ctx *gin.Context) {
	q, ok := coordinates(ctx)
	if !ok {
		return
	}

	resp, err := c.weatherService.Agricultural(ctx.Request.Context(), *q.Lat, *q.Lon, q.Days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
