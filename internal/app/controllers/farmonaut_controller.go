package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
)

const (
	defaultSoilType = "loamy"
	defaultSeason   = "kharif"
)

// FarmonautController proxies the Farmonaut agriculture API
type FarmonautController struct {
	farmonautService services.FarmonautService
}

// NewFarmonautController creates a new FarmonautController
func NewFarmonautController(farmonautService services.FarmonautService) *FarmonautController {
	return &FarmonautController{farmonautService: farmonautService}
}

// farmonautQuery binds the shared parameters and fills in soil and season defaults
func farmonautQuery(ctx *gin.Context, needLocation bool) (dto.FarmonautQuery, bool) {
	var q dto.FarmonautQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid query parameters"))
		return q, false
	}
	if needLocation && !q.HasLocation() {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Latitude and longitude are required"))
		return q, false
	}
	if q.SoilType == "" {
		q.SoilType = defaultSoilType
	}
	if q.Season == "" {
		q.Season = defaultSeason
	}
	return q, true
}

// GetCropRecommendations returns crop suggestions for a location
// @Summary Farmonaut crop recommendations
// @Tags farmonaut
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param soilType query string false "Soil type" default(loamy)
// @Param season query string false "Season" default(kharif)
// @Success 200 {object} dto.APIResponse{data=farmonaut.CropRecommendations}
// @Failure 400 {object} dto.ErrorResponse
// @Router /farmonaut/crop-recommendations [get]
func (c *FarmonautController) GetCropRecommendations(ctx *gin.Context) {
	q, ok := farmonautQuery(ctx, true)
	if !ok {
		return
	}

	res, err := c.farmonautService.CropRecommendations(ctx.Request.Context(), farmonaut.CropQuery{
		Location: q.Location(),
		SoilType: q.SoilType,
		Season:   q.Season,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res))
}

// GetWeather returns Farmonaut weather for a location
// @Summary Farmonaut weather
// @Tags farmonaut
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Success 200 {object} dto.APIResponse{data=farmonaut.WeatherReport}
// @Failure 400 {object} dto.ErrorResponse
// @Router /farmonaut/weather [get]
func (c *FarmonautController) GetWeather(ctx *gin.Context) {
	q, ok := farmonautQuery(ctx, true)
	if !ok {
		return
	}

	res, err := c.farmonautService.Weather(ctx.Request.Context(), q.Location())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res))
}

// GetFertilizerRecommendations returns fertilizer advice for a crop and soil
// @Summary Farmonaut fertilizer recommendations
// @Tags farmonaut
// @Produce json
// @Security BearerAuth
// @Param cropType query string true "Crop type"
// @Param soilType query string true "Soil type"
// @Param nitrogen query number false "Soil nitrogen"
// @Param phosphorus query number false "Soil phosphorus"
// @Param potassium query number false "Soil potassium"
// @Success 200 {object} dto.APIResponse{data=farmonaut.FertilizerReport}
// @Failure 400 {object} dto.ErrorResponse
// @Router /farmonaut/fertilizer-recommendations [get]
func (c *FarmonautController) GetFertilizerRecommendations(ctx *gin.Context) {
	if ctx.Query("cropType") == "" || ctx.Query("soilType") == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Crop type and soil type are required"))
		return
	}
	q, ok := farmonautQuery(ctx, false)
	if !ok {
		return
	}

	res, err := c.farmonautService.FertilizerRecommendations(ctx.Request.Context(), farmonaut.FertilizerQuery{
		CropType:   q.CropType,
		SoilType:   q.SoilType,
		Nitrogen:   q.Nitrogen,
		Phosphorus: q.Phosphorus,
		Potassium:  q.Potassium,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res))
}

// GetSatelliteData returns raw field imagery; data is null when unavailable
// @Summary Farmonaut satellite data
// @Tags farmonaut
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param fieldId query string false "Field ID"
// @Success 200 {object} dto.SatelliteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /farmonaut/satellite-data [get]
func (c *FarmonautController) GetSatelliteData(ctx *gin.Context) {
	q, ok := farmonautQuery(ctx, true)
	if !ok {
		return
	}

	raw, err := c.farmonautService.SatelliteData(ctx.Request.Context(), farmonaut.SatelliteQuery{
		Location: q.Location(),
		FieldID:  q.FieldID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.SatelliteResponse{Success: true}
	if len(raw) > 0 {
		resp.Data = raw
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetComprehensive combines weather, crop and fertilizer data in one call
// @Summary Farmonaut comprehensive data
// @Tags farmonaut
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param soilType query string false "Soil type" default(loamy)
// @Param season query string false "Season" default(kharif)
// @Param cropType query string false "Crop type; enables fertilizer data"
// @Success 200 {object} dto.APIResponse{data=dto.ComprehensiveData}
// @Failure 400 {object} dto.ErrorResponse
// @Router /farmonaut/comprehensive-data [get]
func (c *FarmonautController) GetComprehensive(ctx *gin.Context) {
	q, ok := farmonautQuery(ctx, true)
	if !ok {
		return
	}

	data, err := c.farmonautService.Comprehensive(ctx.Request.Context(), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}
