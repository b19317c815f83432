package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers map[int64]*models.User

func (s stubUsers) GetUserInfo(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newAuthRouter(users stubUsers) (*gin.Engine, *auth.JWTService) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: time.Hour, TokenIssuer: "cropsuit"})
	m := NewAuthMiddleware(jwt, users, "token")

	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": c.GetString(RoleTypeKey)})
	})
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwt
}

func TestJWTAuth(t *testing.T) {
	users := stubUsers{
		1: {ID: 1, Role: models.RoleFarmer, IsActive: true},
		2: {ID: 2, Role: models.RoleFarmer, IsActive: false},
	}
	r, jwt := newAuthRouter(users)

	token := func(id int64) string {
		s, _, err := jwt.GenerateToken(id, "farmer")
		require.NoError(t, err)
		return s
	}

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"role":"farmer"}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token(1)})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	cases := map[string]func(*http.Request){
		"missing":        func(*http.Request) {},
		"garbage":        func(req *http.Request) { req.Header.Set("Authorization", "Bearer abc.def.ghi") },
		"logged out":     func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "token", Value: "none"}) },
		"deleted user":   func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(9)) },
		"inactive user":  func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(2)) },
		"wrong scheme":   func(req *http.Request) { req.Header.Set("Authorization", "Basic "+token(1)) },
		"bearer no body": func(req *http.Request) { req.Header.Set("Authorization", "Bearer ") },
	}
	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, "Not authorized to access this route", body.Message)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	users := stubUsers{
		1: {ID: 1, Role: models.RoleFarmer, IsActive: true},
		3: {ID: 3, Role: models.RoleAdmin, IsActive: true},
	}
	r, jwt := newAuthRouter(users)

	for id, want := range map[int64]int{1: http.StatusForbidden, 3: http.StatusNoContent} {
		tok, _, err := jwt.GenerateToken(id, "ignored")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "user %d", id)
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.ErrCropNotFound, http.StatusNotFound, "Crop not found"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrSeasonalPlanNotFound), http.StatusNotFound, "Plan not found"},
		{apperrors.NewCustomError(apperrors.ErrMilestoneNotFound, "Milestone not found"), http.StatusNotFound, "Milestone not found"},
		{apperrors.NewForbiddenError("Not authorized to update this crop"), http.StatusForbidden, "Not authorized to update this crop"},
		{apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account is deactivated"), http.StatusUnauthorized, "Account is deactivated"},
		{apperrors.NewValidationError("name is required", nil), http.StatusBadRequest, "name is required"},
		{apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists with this email"), http.StatusBadRequest, "User already exists with this email"},
		{apperrors.NewBadRequestError("Please provide latitude and longitude"), http.StatusBadRequest, "Please provide latitude and longitude"},
		{fmt.Errorf("upstream: %w", apperrors.ErrExternalService), http.StatusInternalServerError, "Server Error"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Server Error"},
		{apperrors.NewCustomError(errors.New("pq: deadlock"), "leaked detail"), http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.message, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestPathIDMalformedIsNotFound(t *testing.T) {
	r := gin.New()
	r.GET("/crops/:id", func(c *gin.Context) {
		id, ok := PathID(c, "id", apperrors.ErrCropNotFound)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/crops/abc", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Crop not found", decodeError(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/crops/12", nil))
	assert.JSONEq(t, `{"id":12}`, w.Body.String())
}

func TestRequestLoggerAndNotFound(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	r.NoRoute(NotFound())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeError(t, w).Message)
	assert.NotEmpty(t, w.Header().Get(RequestIDKey))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDKey, "req-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDKey))
}
