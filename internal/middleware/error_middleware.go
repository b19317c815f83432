package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// apiError maps a sentinel to its HTTP status, code and default message
type apiError struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// apiErrors is checked in order; the first errors.Is match wins
var apiErrors = []apiError{
	{apperrors.ErrCropNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Crop not found"},
	{apperrors.ErrFertilizerRecommendationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Recommendation not found"},
	{apperrors.ErrCropRecommendationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Recommendation not found"},
	{apperrors.ErrSeasonalPlanNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Plan not found"},
	{apperrors.ErrMilestoneNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Milestone not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is deactivated"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, notAuthorized},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "User already exists with this email"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrExternalService, http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, "Server Error"},
}

// HandleAPIError writes the error envelope for err and aborts the chain.
// Unmapped errors are logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Server Error")

	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			status, detail = e.status, dto.NewErrorDetail(e.code, e.message)
			break
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Unhandled error")
	} else if msg, ok := apperrors.MessageOf(err); ok {
		detail.Message = msg
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Details != nil && status != http.StatusInternalServerError {
			detail = detail.WithDetails(custom.Details)
		}
		if custom.Code != "" {
			detail.Code = dto.ErrorCode(custom.Code)
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// NotFound answers unmatched routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	}
}

// Recovery turns a panic into a logged 500 with the standard envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(RequestIDKey)).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Server Error").WithSeverity(dto.ErrorSeverityCritical)))
	})
}
