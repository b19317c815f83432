package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
)

// AdminController exposes operator endpoints
type AdminController struct {
	maintenance services.MaintenanceService
	logger      zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(maintenance services.MaintenanceService, logger zerolog.Logger) *AdminController {
	return &AdminController{maintenance: maintenance, logger: logger}
}

// PurgeNow runs one maintenance pass immediately
// @Summary Run maintenance
// @Description Purges old weather observations and expires stale crop recommendations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=services.MaintenanceReport}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/maintenance/purge [post]
func (c *AdminController) PurgeNow(ctx *gin.Context) {
	report, err := c.maintenance.RunOnce(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("adminID", middleware.CurrentUserID(ctx)).
		Msg("Maintenance triggered manually")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}
