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

// FertilizerController handles fertilizer recommendation endpoints
type FertilizerController struct {
	fertilizerService services.FertilizerService
}

// NewFertilizerController creates a new FertilizerController
func NewFertilizerController(fertilizerService services.FertilizerService) *FertilizerController {
	return &FertilizerController{fertilizerService: fertilizerService}
}

// GetRecommendations lists the user's fertilizer recommendations
// @Summary List fertilizer recommendations
// @Tags fertilizer-recommendations
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|applied|completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.FertilizerRecommendation}
// @Router /fertilizer-recommendations [get]
func (c *FertilizerController) GetRecommendations(ctx *gin.Context) {
	var filter dto.FertilizerFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	recs, total, err := c.fertilizerService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, limit, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, recs, total, limit)
}

// CreateRecommendation stores a fertilizer recommendation
// @Summary Create fertilizer recommendation
// @Tags fertilizer-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.FertilizerRecommendation true "Recommendation"
// @Success 201 {object} dto.APIResponse{data=models.FertilizerRecommendation}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations [post]
func (c *FertilizerController) CreateRecommendation(ctx *gin.Context) {
	var rec models.FertilizerRecommendation
	if !middleware.BindJSON(ctx, &rec) {
		return
	}

	created, err := c.fertilizerService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &rec)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created))
}

// GetRecommendation returns one fertilizer recommendation
// @Summary Get fertilizer recommendation
// @Tags fertilizer-recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.APIResponse{data=models.FertilizerRecommendation}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations/{id} [get]
func (c *FertilizerController) GetRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrFertilizerRecommendationNotFound)
	if !ok {
		return
	}

	rec, err := c.fertilizerService.Get(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// UpdateRecommendation overlays the body and recomputes the cost total
// @Summary Update fertilizer recommendation
// @Tags fertilizer-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Param request body models.FertilizerRecommendation true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.FertilizerRecommendation}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations/{id} [put]
func (c *FertilizerController) UpdateRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrFertilizerRecommendationNotFound)
	if !ok {
		return
	}
	patch, ok := readPatch(ctx)
	if !ok {
		return
	}

	rec, err := c.fertilizerService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// DeleteRecommendation removes a fertilizer recommendation
// @Summary Delete fertilizer recommendation
// @Tags fertilizer-recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations/{id} [delete]
func (c *FertilizerController) DeleteRecommendation(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrFertilizerRecommendationNotFound)
	if !ok {
		return
	}

	if err := c.fertilizerService.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Recommendation deleted successfully"))
}

// MarkApplied records that the recommendation was applied today
// @Summary Mark fertilizer recommendation applied
// @Tags fertilizer-recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.APIResponse{data=models.FertilizerRecommendation}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations/{id}/apply [put]
func (c *FertilizerController) MarkApplied(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrFertilizerRecommendationNotFound)
	if !ok {
		return
	}

	rec, err := c.fertilizerService.MarkApplied(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

// Calculate runs the soil deficiency calculator
// @Summary Calculate fertilizer requirement
// @Tags fertilizer-recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CalculateFertilizerRequest true "Soil test"
// @Success 200 {object} dto.APIResponse{data=agronomy.DeficiencyPlan}
// @Failure 400 {object} dto.ErrorResponse
// @Router /fertilizer-recommendations/calculate [post]
func (c *FertilizerController) Calculate(ctx *gin.Context) {
	var req dto.CalculateFertilizerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	plan, err := c.fertilizerService.Calculate(&req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}
