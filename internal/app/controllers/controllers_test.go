package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
)

const testUserID int64 = 7

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter returns an engine whose requests are already authenticated as testUserID
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, testUserID)
		c.Set(middleware.RoleTypeKey, string(models.RoleFarmer))
	})
	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type stubAuthService struct {
	services.AuthService
	registered *dto.RegisterRequest
}

func (s *stubAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	s.registered = req
	return &dto.TokenResponse{Success: true, Token: "signed", User: &models.PublicProfile{ID: 1, Email: req.Email}}, nil
}

func (s *stubAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if req.Password != "secret123" {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}
	return &dto.TokenResponse{Success: true, Token: "signed"}, nil
}

func (s *stubAuthService) TokenTTL() time.Duration { return time.Hour }

func TestAuthController(t *testing.T) {
	svc := &stubAuthService{}
	c := NewAuthController(svc, CookieConfig{Name: "token", Secure: true}, zerolog.Nop())
	r := newRouter()
	r.POST("/register", c.Register)
	r.POST("/login", c.Login)
	r.GET("/logout", c.Logout)

	t.Run("register sets the session cookie", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/register", `{"name":"Ravi","email":"ravi@example.com","password":"secret123"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		body := decode[dto.TokenResponse](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, "signed", body.Token)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Equal(t, "signed", cookies[0].Value)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	})

	t.Run("register validates the body", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/register", `{"name":"Ravi","email":"not-an-email","password":"secret123"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login without a body", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/login", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please provide email and password", decode[dto.ErrorResponse](t, w).Message)
	})

	t.Run("login with a wrong password", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/login", `{"email":"ravi@example.com","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode[dto.ErrorResponse](t, w).Message)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("logout replaces the cookie", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/logout", "")
		require.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "none", cookies[0].Value)
		assert.Equal(t, 10, cookies[0].MaxAge)
		assert.Equal(t, "Logged out successfully", decode[dto.MessageResponse](t, w).Message)
	})
}

type stubCropService struct {
	services.CropService
	listFilter dto.CropFilter
	listPage   [2]int
	patch      json.RawMessage
	deleted    int64
}

func (s *stubCropService) List(_ context.Context, _ int64, page, limit int, filter dto.CropFilter) ([]*models.Crop, int64, error) {
	s.listFilter, s.listPage = filter, [2]int{page, limit}
	return nil, 0, nil
}

func (s *stubCropService) Get(_ context.Context, userID, cropID int64) (*models.Crop, error) {
	if cropID != 1 {
		return nil, apperrors.ErrCropNotFound
	}
	return &models.Crop{ID: cropID, UserID: userID, Name: "Wheat"}, nil
}

func (s *stubCropService) Update(_ context.Context, userID, cropID int64, patch json.RawMessage) (*models.Crop, error) {
	s.patch = patch
	return &models.Crop{ID: cropID, UserID: userID, Name: "Wheat"}, nil
}

func (s *stubCropService) Delete(_ context.Context, _ int64, cropID int64) error {
	if cropID == 2 {
		return apperrors.NewForbiddenError("Not authorized to delete this crop")
	}
	s.deleted = cropID
	return nil
}

func (s *stubCropService) ExportRegister(_ context.Context, _ int64, out io.Writer) error {
	_, err := out.Write([]byte("xlsx"))
	return err
}

func TestCropController(t *testing.T) {
	svc := &stubCropService{}
	c := NewCropController(svc)
	r := newRouter()
	r.GET("/crops", c.GetCrops)
	r.GET("/crops/export", c.Export)
	r.GET("/crops/:id", c.GetCrop)
	r.PUT("/crops/:id", c.UpdateCrop)
	r.DELETE("/crops/:id", c.DeleteCrop)

	t.Run("empty list is an empty array", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/crops?status=growing&page=2&limit=5", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"count":0,"total":0,"pages":0,"data":[]}`, w.Body.String())
		assert.Equal(t, "growing", svc.listFilter.Status)
		assert.Equal(t, [2]int{2, 5}, svc.listPage)
	})

	t.Run("invalid filter", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/crops?status=sleeping", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/crops/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[struct {
			Success bool        `json:"success"`
			Data    models.Crop `json:"data"`
		}](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, testUserID, body.Data.UserID)
	})

	for _, path := range []string{"/crops/99", "/crops/not-an-id", "/crops/0"} {
		w := perform(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "Crop not found", decode[dto.ErrorResponse](t, w).Message, path)
	}

	t.Run("update forwards the raw body", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/crops/1", `{"status":"growing"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"growing"}`, string(svc.patch))
	})

	t.Run("oversized update body", func(t *testing.T) {
		svc.patch = nil
		body := `{"variety":"` + strings.Repeat("a", maxPatchBytes) + `"}`
		w := perform(r, http.MethodPut, "/crops/1", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body too large", decode[dto.ErrorResponse](t, w).Message)
		assert.Nil(t, svc.patch)
	})

	t.Run("delete", func(t *testing.T) {
		w := perform(r, http.MethodDelete, "/crops/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Crop deleted successfully", decode[dto.MessageResponse](t, w).Message)
		assert.Equal(t, int64(1), svc.deleted)

		w = perform(r, http.MethodDelete, "/crops/2", "")
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Not authorized to delete this crop", decode[dto.ErrorResponse](t, w).Message)
	})

	t.Run("export", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/crops/export", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="crops-7.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "xlsx", w.Body.String())
	})
}

type stubFertilizerService struct {
	services.FertilizerService
	created *models.FertilizerRecommendation
	deleted int64
	applied int64
}

func (s *stubFertilizerService) Create(_ context.Context, userID int64, rec *models.FertilizerRecommendation) (*models.FertilizerRecommendation, error) {
	s.created = rec
	out := *rec
	out.ID, out.UserID, out.Status = 11, userID, "pending"
	return &out, nil
}

func (s *stubFertilizerService) Delete(_ context.Context, _ int64, recID int64) error {
	if recID != 11 {
		return apperrors.ErrFertilizerRecommendationNotFound
	}
	s.deleted = recID
	return nil
}

func (s *stubFertilizerService) MarkApplied(_ context.Context, userID, recID int64) (*models.FertilizerRecommendation, error) {
	if recID == 12 {
		return nil, apperrors.NewForbiddenError("Not authorized to update this recommendation")
	}
	s.applied = recID
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return &models.FertilizerRecommendation{ID: recID, UserID: userID, Status: "applied", AppliedDate: &now}, nil
}

func TestFertilizerController(t *testing.T) {
	svc := &stubFertilizerService{}
	c := NewFertilizerController(svc)
	r := newRouter()
	r.POST("/fertilizer-recommendations", c.CreateRecommendation)
	r.PUT("/fertilizer-recommendations/:id/apply", c.MarkApplied)
	r.DELETE("/fertilizer-recommendations/:id", c.DeleteRecommendation)

	type recBody struct {
		Success bool                            `json:"success"`
		Data    models.FertilizerRecommendation `json:"data"`
	}

	t.Run("create", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/fertilizer-recommendations",
			`{"cropName":"Wheat","soilType":"loamy","soilNutrients":{"nitrogen":40,"phosphorus":20,"potassium":20}}`)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode[recBody](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, int64(11), body.Data.ID)
		assert.Equal(t, testUserID, body.Data.UserID)
		require.NotNil(t, svc.created)
		assert.Equal(t, 40.0, *svc.created.SoilNutrients.Nitrogen)
	})

	t.Run("create requires a soil test", func(t *testing.T) {
		svc.created = nil
		w := perform(r, http.MethodPost, "/fertilizer-recommendations", `{"cropName":"Wheat","soilType":"loamy"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.created)
	})

	t.Run("apply", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/fertilizer-recommendations/11/apply", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[recBody](t, w)
		assert.Equal(t, "applied", body.Data.Status)
		require.NotNil(t, body.Data.AppliedDate)
		assert.Equal(t, int64(11), svc.applied)

		w = perform(r, http.MethodPut, "/fertilizer-recommendations/12/apply", "")
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Not authorized to update this recommendation", decode[dto.ErrorResponse](t, w).Message)
	})

	t.Run("delete", func(t *testing.T) {
		w := perform(r, http.MethodDelete, "/fertilizer-recommendations/11", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Recommendation deleted successfully", decode[dto.MessageResponse](t, w).Message)
		assert.Equal(t, int64(11), svc.deleted)
	})

	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/fertilizer-recommendations/99"},
		{http.MethodDelete, "/fertilizer-recommendations/abc"},
		{http.MethodPut, "/fertilizer-recommendations/abc/apply"},
	} {
		w := perform(r, tc.method, tc.path, "")
		require.Equal(t, http.StatusNotFound, w.Code, tc.path)
		body := decode[dto.ErrorResponse](t, w)
		assert.False(t, body.Success, tc.path)
		assert.Equal(t, "Recommendation not found", body.Message, tc.path)
	}
}

type stubCropRecommendationService struct {
	services.CropRecommendationService
	update  *dto.UpdateCropRecommendationRequest
	deleted int64
}

func (s *stubCropRecommendationService) Create(_ context.Context, userID int64, rec *models.CropRecommendation) (*models.CropRecommendation, error) {
	out := *rec
	out.ID, out.UserID, out.Status = 21, userID, "active"
	return &out, nil
}

func (s *stubCropRecommendationService) Update(_ context.Context, userID, recID int64, req *dto.UpdateCropRecommendationRequest) (*models.CropRecommendation, error) {
	s.update = req
	return &models.CropRecommendation{ID: recID, UserID: userID, Status: "accepted"}, nil
}

func (s *stubCropRecommendationService) Delete(_ context.Context, _ int64, recID int64) error {
	if recID == 22 {
		return apperrors.NewForbiddenError("Not authorized to delete this recommendation")
	}
	s.deleted = recID
	return nil
}

func TestCropRecommendationController(t *testing.T) {
	svc := &stubCropRecommendationService{}
	c := NewCropRecommendationController(svc)
	r := newRouter()
	r.POST("/crop-recommendations", c.CreateRecommendation)
	r.PUT("/crop-recommendations/:id", c.UpdateRecommendation)
	r.DELETE("/crop-recommendations/:id", c.DeleteRecommendation)

	t.Run("create", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/crop-recommendations", `{"season":"kharif","soilType":"clay","availableArea":4}`)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode[struct {
			Success bool                      `json:"success"`
			Data    models.CropRecommendation `json:"data"`
		}](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, int64(21), body.Data.ID)
		assert.Equal(t, "active", body.Data.Status)
	})

	t.Run("create rejects an unknown season", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/crop-recommendations", `{"season":"monsoon","soilType":"clay","availableArea":4}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/crop-recommendations/21", `{"status":"accepted"}`)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.update)
	})

	t.Run("delete", func(t *testing.T) {
		w := perform(r, http.MethodDelete, "/crop-recommendations/21", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Recommendation deleted successfully", decode[dto.MessageResponse](t, w).Message)
		assert.Equal(t, int64(21), svc.deleted)

		w = perform(r, http.MethodDelete, "/crop-recommendations/22", "")
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Not authorized to delete this recommendation", decode[dto.ErrorResponse](t, w).Message)

		w = perform(r, http.MethodDelete, "/crop-recommendations/x", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Recommendation not found", decode[dto.ErrorResponse](t, w).Message)
	})
}

type stubSeasonalPlanService struct {
	services.SeasonalPlanService
	created   *models.SeasonalPlan
	deleted   int64
	milestone string
}

func (s *stubSeasonalPlanService) Create(_ context.Context, userID int64, plan *models.SeasonalPlan) (*models.SeasonalPlan, error) {
	s.created = plan
	out := *plan
	out.ID, out.UserID, out.Status = 31, userID, "draft"
	return &out, nil
}

func (s *stubSeasonalPlanService) Delete(_ context.Context, _ int64, planID int64) error {
	if planID != 31 {
		return apperrors.ErrSeasonalPlanNotFound
	}
	s.deleted = planID
	return nil
}

func (s *stubSeasonalPlanService) UpdateMilestone(_ context.Context, userID, planID int64, milestoneID string, _ *dto.MilestoneUpdateRequest) (*models.SeasonalPlan, error) {
	s.milestone = milestoneID
	if milestoneID != "m1" {
		return nil, apperrors.ErrMilestoneNotFound
	}
	return &models.SeasonalPlan{
		ID:         planID,
		UserID:     userID,
		Milestones: []models.Milestone{{ID: "m1", Completed: true}},
		Progress:   100,
	}, nil
}

func TestSeasonalPlanController(t *testing.T) {
	svc := &stubSeasonalPlanService{}
	c := NewSeasonalPlanController(svc)
	r := newRouter()
	r.POST("/seasonal-plans", c.CreatePlan)
	r.DELETE("/seasonal-plans/:id", c.DeletePlan)
	r.PUT("/seasonal-plans/:id/milestones/:milestoneId", c.UpdateMilestone)

	t.Run("create", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/seasonal-plans", `{"year":2025,"season":"kharif","planName":"Kharif 2025",
			"startDate":"2025-06-01T00:00:00Z","endDate":"2025-10-31T00:00:00Z","totalArea":10}`)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode[struct {
			Success bool                `json:"success"`
			Data    models.SeasonalPlan `json:"data"`
		}](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, int64(31), body.Data.ID)
		assert.Equal(t, "Kharif 2025", body.Data.PlanName)
		require.NotNil(t, svc.created)
		assert.Equal(t, 10.0, *svc.created.TotalArea)
	})

	t.Run("create rejects an unknown season", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/seasonal-plans", `{"year":2025,"season":"monsoon","planName":"x",
			"startDate":"2025-06-01T00:00:00Z","endDate":"2025-10-31T00:00:00Z","totalArea":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := perform(r, http.MethodDelete, "/seasonal-plans/31", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Plan deleted successfully", decode[dto.MessageResponse](t, w).Message)
		assert.Equal(t, int64(31), svc.deleted)

		w = perform(r, http.MethodDelete, "/seasonal-plans/32", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Plan not found", decode[dto.ErrorResponse](t, w).Message)
	})

	t.Run("update milestone", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/seasonal-plans/31/milestones/m1", `{"completed":true}`)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[struct {
			Data models.SeasonalPlan `json:"data"`
		}](t, w)
		assert.Equal(t, 100, body.Data.Progress)
	})

	t.Run("unknown milestone", func(t *testing.T) {
		w := perform(r, http.MethodPut, "/seasonal-plans/31/milestones/m9", `{"completed":true}`)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "m9", svc.milestone)

		body := decode[dto.ErrorResponse](t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Milestone not found", body.Message)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrorCodeResourceNotFound, body.Error.Code)
		assert.Equal(t, "Milestone not found", body.Error.Message)
		assert.False(t, body.Timestamp.IsZero())
	})
}

type stubWeatherService struct {
	services.WeatherService
	days   int
	alerts []models.WeatherAlert
}

func (s *stubWeatherService) Forecast(_ context.Context, _ int64, lat, lon float64, days int) (*dto.ForecastResponse, error) {
	s.days = days
	return &dto.ForecastResponse{
		Location:   models.WeatherLocation{Type: "Point", Coordinates: []float64{lon, lat}},
		DataSource: "Fallback",
	}, nil
}

func (s *stubWeatherService) Alerts(context.Context, float64, float64) ([]models.WeatherAlert, error) {
	return s.alerts, nil
}

func TestWeatherController(t *testing.T) {
	svc := &stubWeatherService{}
	c := NewWeatherController(svc)
	r := newRouter()
	r.GET("/weather/current", c.GetCurrent)
	r.GET("/weather/forecast", c.GetForecast)
	r.GET("/weather/alerts", c.GetAlerts)

	for _, target := range []string{"/weather/current", "/weather/current?lat=12.9", "/weather/forecast?lat=abc&lon=77.5"} {
		w := perform(r, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "Please provide latitude and longitude", decode[dto.ErrorResponse](t, w).Message, target)
	}

	w := perform(r, http.MethodGet, "/weather/forecast?lat=12.9&lon=77.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, svc.days)

	perform(r, http.MethodGet, "/weather/forecast?lat=12.9&lon=77.5&days=3", "")
	assert.Equal(t, 3, svc.days)

	svc.days = 0
	for _, days := range []string{"0", "17", "2000000", "-1"} {
		w := perform(r, http.MethodGet, "/weather/forecast?lat=12.9&lon=77.5&days="+days, "")
		require.Equal(t, http.StatusBadRequest, w.Code, days)
		assert.Equal(t, "Days must be between 1 and 16", decode[dto.ErrorResponse](t, w).Message, days)
	}
	assert.Zero(t, svc.days)

	perform(r, http.MethodGet, "/weather/forecast?lat=12.9&lon=77.5&days=16", "")
	assert.Equal(t, 16, svc.days)

	w = perform(r, http.MethodGet, "/weather/alerts?lat=0&lon=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"No active weather alerts for your location","data":[]}`, w.Body.String())
}

type stubFarmonautService struct {
	services.FarmonautService
	crop       farmonaut.CropQuery
	fertilizer farmonaut.FertilizerQuery
}

func (s *stubFarmonautService) CropRecommendations(_ context.Context, q farmonaut.CropQuery) (*farmonaut.CropRecommendations, error) {
	s.crop = q
	return &farmonaut.CropRecommendations{}, nil
}

func (s *stubFarmonautService) FertilizerRecommendations(_ context.Context, q farmonaut.FertilizerQuery) (*farmonaut.FertilizerReport, error) {
	s.fertilizer = q
	return &farmonaut.FertilizerReport{}, nil
}

func (s *stubFarmonautService) SatelliteData(context.Context, farmonaut.SatelliteQuery) (json.RawMessage, error) {
	return nil, nil
}

func TestFarmonautController(t *testing.T) {
	svc := &stubFarmonautService{}
	c := NewFarmonautController(svc)
	r := newRouter()
	r.GET("/crop-recommendations", c.GetCropRecommendations)
	r.GET("/fertilizer-recommendations", c.GetFertilizerRecommendations)
	r.GET("/satellite-data", c.GetSatelliteData)

	w := perform(r, http.MethodGet, "/crop-recommendations?latitude=12.9", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Latitude and longitude are required", decode[dto.ErrorResponse](t, w).Message)

	w = perform(r, http.MethodGet, "/crop-recommendations?latitude=12.9&longitude=77.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, farmonaut.CropQuery{
		Location: farmonaut.Location{Latitude: 12.9, Longitude: 77.5},
		SoilType: "loamy",
		Season:   "kharif",
	}, svc.crop)

	w = perform(r, http.MethodGet, "/fertilizer-recommendations?cropType=rice", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Crop type and soil type are required", decode[dto.ErrorResponse](t, w).Message)

	w = perform(r, http.MethodGet, "/fertilizer-recommendations?cropType=rice&soilType=clay&nitrogen=40", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clay", svc.fertilizer.SoilType)
	assert.Equal(t, 40.0, svc.fertilizer.Nitrogen)

	w = perform(r, http.MethodGet, "/satellite-data?latitude=12.9&longitude=77.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":null}`, w.Body.String())
}

type stubMaintenance struct {
	services.MaintenanceService
	runs int
}

func (s *stubMaintenance) RunOnce(context.Context) (*services.MaintenanceReport, error) {
	s.runs++
	return &services.MaintenanceReport{WeatherPurged: 4, RecommendationsExpired: 1}, nil
}

func TestAdminController(t *testing.T) {
	svc := &stubMaintenance{}
	c := NewAdminController(svc, zerolog.Nop())
	r := newRouter()
	r.POST("/purge", c.PurgeNow)

	w := perform(r, http.MethodPost, "/purge", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.runs)
	assert.JSONEq(t, `{"success":true,"data":{"weatherPurged":4,"recommendationsExpired":1}}`, w.Body.String())
}

func TestRespondWorkbook(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	respondWorkbook(ctx, "plan-kharif-2025-1.xlsx", bytes.NewBufferString("PK"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "plan-kharif-2025-1.xlsx")
}
