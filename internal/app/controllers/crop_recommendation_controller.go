package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

// CropRecommendationController handles crop recommendation endpoints
type CropRecommendationController struct {
	recService services.CropRecommendationService
}

// NewCropRecommendationController creates a new CropRecommendationController
func NewCropRecommendationController(recService services.CropRecommendationService) *CropRecommendationController {
	return &CropRecommendationController{recService: recService}
}

// GetRecommendations lists the user's crop recommendations
// @Summary List crop recommendations
// @Tags crop-recommendations
// @Produce json
// @Security BearerAuth
// @Param status query string false "active|accepted|rejected|expired"
// @Param season query string false "kharif|rabi|zaid|perennial"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.CropRecommendation}
// @Router /crop-recommendations [get]
func (c *CropRecommendationController) GetRecommendations(ctx *gin.Context) {
	var filter dto.CropRecommendationFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	recs, total, err := c.recService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, limit, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, recs, total, limit)
}

// CreateRecommendation generates and stores recommendations for a field
// @Summary Create crop recommendation
// @Description Suggestions are generated when none are supplied
// @Tags crop-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CropRecommendation true "Field parameters"
// @Success 201 {object} dto.APIResponse{data=models.CropRecommendation}
// @Failure 400 {object} dto.ErrorResponse
// @Router /crop-recommendations [post]
func (c *CropRecommendationController) CreateRecommendation(ctx *gin.Context) {
	var rec models.CropRecommendation
	if !middleware.BindJSON(ctx, &rec) {
		return
	}

	created, err := c.recService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &rec)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created))
}

// GetRecommendation returns one crop recommendation
// @Summary Get crop recommendation
// @Tags crop-recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.APIResponse{data=models.CropRecommendation}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crop-recommendations/{id} [get]
func (c *CropRecommendationController) GetRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropRecommendationNotFound)
	if !ok {
		return
	}

	rec, err := c.recService.Get(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// UpdateRecommendation records the farmer's decision and feedback
// @Summary Update crop recommendation
// @Tags crop-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Param request body dto.UpdateCropRecommendationRequest true "Status and feedback"
// @Success 200 {object} dto.APIResponse{data=models.CropRecommendation}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crop-recommendations/{id} [put]
func (c *CropRecommendationController) UpdateRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropRecommendationNotFound)
	if !ok {
		return
	}
	var req dto.UpdateCropRecommendationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.recService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// DeleteRecommendation removes a crop recommendation
// @Summary Delete crop recommendation
// @Tags crop-recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crop-recommendations/{id} [delete]
func (c *CropRecommendationController) DeleteRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropRecommendationNotFound)
	if !ok {
		return
	}

	if err := c.recService.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Recommendation deleted successfully"))
}

// Analyze ranks crops for a soil type, season and rainfall
// @Summary Analyze crops
// @Tags crop-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalyzeCropsRequest true "Field parameters"
// @Success 200 {object} dto.APIResponse{data=agronomy.AnalysisResult}
// @Failure 400 {object} dto.ErrorResponse
// @Router /crop-recommendations/analyze [post]
func (c *CropRecommendationController) Analyze(ctx *gin.Context) {
	var req dto.AnalyzeCropsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.recService.Analyze(&req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
