package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	UserIDKey   = "userID"
	RoleTypeKey = "roleType"
)

const notAuthorized = "Not authorized to access this route"

// UserLookup resolves the account behind a token
type UserLookup interface {
	GetUserInfo(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLookup
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware; tokens are also read from cookieName
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLookup, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		cookieName: cookieName,
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, notAuthorized).WithDetails(reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// token reads the bearer header first and falls back to the session cookie
func (m *AuthMiddleware) token(c *gin.Context) string {
	if token, err := auth.ExtractBearerToken(c.GetHeader("Authorization")); err == nil {
		return token
	}
	if m.cookieName == "" {
		return ""
	}
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie == "none" {
		return ""
	}
	return cookie
}

// JWTAuth middleware for JWT token validation. The account must still exist
// and be active.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.token(c)
		if tokenString == "" {
			abortUnauthorized(c, "Authentication token missing")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		user, err := m.users.GetUserInfo(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Debug().Err(err).Int64("userID", claims.UserID).Msg("Token subject could not be loaded")
			abortUnauthorized(c, "User no longer exists")
			return
		}
		if !user.IsActive {
			abortUnauthorized(c, "Account is deactivated")
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(RoleTypeKey, string(user.Role))

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the given roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleTypeKey)
		if !exists {
			abortUnauthorized(c, "User role not found")
			return
		}

		roleStr, _ := role.(string)
		for _, r := range roles {
			if roleStr == string(r) {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "User role "+roleStr+" is not authorized to access this route")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
	}
}

// CurrentUserID returns the id stored by JWTAuth
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
