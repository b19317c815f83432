package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

// SeasonalPlanController handles seasonal plan endpoints
type SeasonalPlanController struct {
	planService services.SeasonalPlanService
}

// NewSeasonalPlanController creates a new SeasonalPlanController
func NewSeasonalPlanController(planService services.SeasonalPlanService) *SeasonalPlanController {
	return &SeasonalPlanController{planService: planService}
}

func planID(ctx *gin.Context) (int64, bool) {
	return middleware.PathID(ctx, "id", apperrors.ErrSeasonalPlanNotFound)
}

// GetPlans lists the user's plans
// @Summary List seasonal plans
// @Tags seasonal-plans
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft|active|completed|cancelled"
// @Param season query string false "kharif|rabi|zaid|annual"
// @Param year query int false "Plan year"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.SeasonalPlan}
// @Router /seasonal-plans [get]
func (c *SeasonalPlanController) GetPlans(ctx *gin.Context) {
	var filter dto.PlanFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	plans, total, err := c.planService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, limit, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, plans, total, limit)
}

// CreatePlan stores a new plan
// @Summary Create seasonal plan
// @Tags seasonal-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SeasonalPlan true "Plan"
// @Success 201 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Failure 400 {object} dto.ErrorResponse
// @Router /seasonal-plans [post]
func (c *SeasonalPlanController) CreatePlan(ctx *gin.Context) {
	var plan models.SeasonalPlan
	if !middleware.BindJSON(ctx, &plan) {
		return
	}

	created, err := c.planService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &plan)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created))
}

// GetPlan returns one plan
// @Summary Get seasonal plan
// @Tags seasonal-plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /seasonal-plans/{id} [get]
func (c *SeasonalPlanController) GetPlan(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}

	plan, err := c.planService.Get(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// UpdatePlan overlays the body and recomputes the financial rollups
// @Summary Update seasonal plan
// @Tags seasonal-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param request body models.SeasonalPlan true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /seasonal-plans/{id} [put]
func (c *SeasonalPlanController) UpdatePlan(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}
	patch, ok := readPatch(ctx)
	if !ok {
		return
	}

	plan, err := c.planService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// DeletePlan removes a plan
// @Summary Delete seasonal plan
// @Tags seasonal-plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /seasonal-plans/{id} [delete]
func (c *SeasonalPlanController) DeletePlan(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}

	if err := c.planService.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Plan deleted successfully"))
}

// GetStats groups the user's plans by status and season
// @Summary Seasonal plan statistics
// @Tags seasonal-plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PlanStats}
// @Router /seasonal-plans/stats [get]
func (c *SeasonalPlanController) GetStats(ctx *gin.Context) {
	stats, err := c.planService.Stats(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// AddMilestone appends a milestone and refreshes progress
// @Summary Add milestone
// @Tags seasonal-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param request body dto.MilestoneRequest true "Milestone"
// @Success 200 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Router /seasonal-plans/{id}/milestones [post]
func (c *SeasonalPlanController) AddMilestone(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}
	var req dto.MilestoneRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	plan, err := c.planService.AddMilestone(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// UpdateMilestone changes one milestone and refreshes progress
// @Summary Update milestone
// @Tags seasonal-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param milestoneId path string true "Milestone ID"
// @Param request body dto.MilestoneUpdateRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Failure 404 {object} dto.ErrorResponse
// @Router /seasonal-plans/{id}/milestones/{milestoneId} [put]
func (c *SeasonalPlanController) UpdateMilestone(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}
	var req dto.MilestoneUpdateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	plan, err := c.planService.UpdateMilestone(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, ctx.Param("milestoneId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// AddNote appends a note to a plan
// @Summary Add plan note
// @Tags seasonal-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param request body dto.NoteRequest true "Note"
// @Success 200 {object} dto.APIResponse{data=models.SeasonalPlan}
// @Router /seasonal-plans/{id}/notes [post]
func (c *SeasonalPlanController) AddNote(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	plan, err := c.planService.AddNote(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// Export downloads a plan as a workbook
// @Summary Export seasonal plan
// @Tags seasonal-plans
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse
// @Router /seasonal-plans/{id}/export [get]
func (c *SeasonalPlanController) Export(ctx *gin.Context) {
	id, ok := planID(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := c.planService.Export(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &buf)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondWorkbook(ctx, filename, &buf)
}
