package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
)

// CropController handles crop endpoints
type CropController struct {
	cropService services.CropService
}

// NewCropController creates a new CropController
func NewCropController(cropService services.CropService) *CropController {
	return &CropController{cropService: cropService}
}

// GetCrops lists the user's crops
// @Summary List crops
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param status query string false "planned|planted|growing|harvested|failed"
// @Param season query string false "kharif|rabi|zaid|perennial"
// @Param category query string false "Crop category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.Crop}
// @Router /crops [get]
func (c *CropController) GetCrops(ctx *gin.Context) {
	var filter dto.CropFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	crops, total, err := c.cropService.List(ctx.Request.Context(), middleware.CurrentUserID(ctx), page, limit, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, crops, total, limit)
}

// CreateCrop stores a new crop
// @Summary Create crop
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Crop true "Crop"
// @Success 201 {object} dto.APIResponse{data=models.Crop}
// @Failure 400 {object} dto.ErrorResponse
// @Router /crops [post]
func (c *CropController) CreateCrop(ctx *gin.Context) {
	var crop models.Crop
	if !middleware.BindJSON(ctx, &crop) {
		return
	}

	created, err := c.cropService.Create(ctx.Request.Context(), middleware.CurrentUserID(ctx), &crop)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created))
}

// GetCrop returns one crop
// @Summary Get crop
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Success 200 {object} dto.APIResponse{data=models.Crop}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crops/{id} [get]
func (c *CropController) GetCrop(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropNotFound)
	if !ok {
		return
	}

	crop, err := c.cropService.Get(ctx.Request.Context(), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(crop))
}

// maxPatchBytes bounds partial update bodies
const maxPatchBytes = 1 << 20

// readPatch returns the raw request body for a partial update
func readPatch(ctx *gin.Context) (json.RawMessage, bool) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxPatchBytes)
	body, err := ctx.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Request body too large"))
			return nil, false
		}
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid request body"))
		return nil, false
	}
	return body, true
}

// UpdateCrop overlays the body on the stored crop
// @Summary Update crop
// @Description Partial update; derived totals are recomputed
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Param request body models.Crop true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Crop}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crops/{id} [put]
func (c *CropController) UpdateCrop(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropNotFound)
	if !ok {
		return
	}
	patch, ok := readPatch(ctx)
	if !ok {
		return
	}

	crop, err := c.cropService.Update(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(crop))
}

// DeleteCrop removes a crop
// @Summary Delete crop
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /crops/{id} [delete]
func (c *CropController) DeleteCrop(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropNotFound)
	if !ok {
		return
	}

	if err := c.cropService.Delete(ctx.Request.Context(), middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Crop deleted successfully"))
}

// AddNote appends a note to a crop
// @Summary Add crop note
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Param request body dto.NoteRequest true "Note"
// @Success 200 {object} dto.APIResponse{data=models.Crop}
// @Router /crops/{id}/notes [post]
func (c *CropController) AddNote(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropNotFound)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	crop, err := c.cropService.AddNote(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(crop))
}

// AddHealthIssue logs a health issue on a crop
// @Summary Add crop health issue
// @Tags crops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Crop ID"
// @Param request body dto.HealthIssueRequest true "Issue"
// @Success 200 {object} dto.APIResponse{data=models.Crop}
// @Router /crops/{id}/health-issues [post]
func (c *CropController) AddHealthIssue(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id", apperrors.ErrCropNotFound)
	if !ok {
		return
	}
	var req dto.HealthIssueRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	crop, err := c.cropService.AddHealthIssue(ctx.Request.Context(), middleware.CurrentUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(crop))
}

// GetStats aggregates the user's crops
// @Summary Crop statistics
// @Tags crops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CropStats}
// @Router /crops/stats [get]
func (c *CropController) GetStats(ctx *gin.Context) {
	stats, err := c.cropService.Stats(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// Export downloads the crop register workbook
// @Summary Export crop register
// @Tags crops
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /crops/export [get]
func (c *CropController) Export(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	var buf bytes.Buffer
	if err := c.cropService.ExportRegister(ctx.Request.Context(), userID, &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondWorkbook(ctx, export.Filename("crops", userID), &buf)
}
