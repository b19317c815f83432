// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

// logoutCookieTTL is how long the "none" placeholder cookie lives after logout
const logoutCookieTTL = 10 * time.Second

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

func (c *AuthController) setCookie(ctx *gin.Context, value string, ttl time.Duration) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(c.cookie.Name, value, int(ttl.Seconds()), "/", "", c.cookie.Secure, true)
}

// sendToken writes the token response and the matching session cookie
func (c *AuthController) sendToken(ctx *gin.Context, status int, res *dto.TokenResponse) {
	c.setCookie(ctx, res.Token, c.authService.TokenTTL())
	ctx.JSON(status, res)
}

// Register handles user registration
// @Summary Register a new farmer
// @Description Creates a local account and signs the user in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed or email already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	res, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", res.User.ID).Msg("User registered")
	c.sendToken(ctx, http.StatusCreated, res)
}

// Login handles user login
// @Summary User login
// @Description Authenticates a local account and returns a token; the token is also set as a cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or non-local account"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Please provide email and password"))
		return
	}

	res, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, res)
}

// GetMe returns the current user's profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PublicProfile}
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	profile, err := c.authService.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateDetails changes the profile
// @Summary Update profile details
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateDetailsRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.PublicProfile}
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/updatedetails [put]
func (c *AuthController) UpdateDetails(ctx *gin.Context) {
	var req dto.UpdateDetailsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.authService.UpdateDetails(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdatePassword changes the password and reissues the token
// @Summary Update password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "OAuth account"
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Router /auth/updatepassword [put]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	var req dto.UpdatePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	res, err := c.authService.UpdatePassword(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, res)
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setCookie(ctx, "none", logoutCookieTTL)
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out successfully"))
}
