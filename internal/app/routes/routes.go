// Package routes wires controllers onto the gin engine.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/controllers"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/middleware"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Controllers groups every handler set the API serves
type Controllers struct {
	Auth               *controllers.AuthController
	Crop               *controllers.CropController
	Fertilizer         *controllers.FertilizerController
	CropRecommendation *controllers.CropRecommendationController
	Weather            *controllers.WeatherController
	SeasonalPlan       *controllers.SeasonalPlanController
	Farmonaut          *controllers.FarmonautController
	Admin              *controllers.AdminController
}

// endpointIndex is served at GET /api
var endpointIndex = gin.H{
	"auth":                "/api/auth",
	"crops":               "/api/crops",
	"fertilizer":          "/api/fertilizer-recommendations",
	"weather":             "/api/weather",
	"cropRecommendations": "/api/crop-recommendations",
	"seasonalPlans":       "/api/seasonal-plans",
	"farmonaut":           "/api/farmonaut",
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cropsuit API is running",
			"version": Version,
		})
	})

	api := router.Group("/api")
	api.GET("", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Cropsuit API",
			"version":   Version,
			"endpoints": endpointIndex,
		})
	})

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	me := authenticated.Group("/auth")
	{
		me.GET("/me", c.Auth.GetMe)
		me.PUT("/updatedetails", c.Auth.UpdateDetails)
		me.PUT("/updatepassword", c.Auth.UpdatePassword)
		me.GET("/logout", c.Auth.Logout)
	}

	// Static segments are registered before /:id
	crops := authenticated.Group("/crops")
	{
		crops.GET("", c.Crop.GetCrops)
		crops.POST("", c.Crop.CreateCrop)
		crops.GET("/stats", c.Crop.GetStats)
		crops.GET("/export", c.Crop.Export)
		crops.GET("/:id", c.Crop.GetCrop)
		crops.PUT("/:id", c.Crop.UpdateCrop)
		crops.DELETE("/:id", c.Crop.DeleteCrop)
		crops.POST("/:id/notes", c.Crop.AddNote)
		crops.POST("/:id/health-issues", c.Crop.AddHealthIssue)
	}

	fertilizer := authenticated.Group("/fertilizer-recommendations")
	{
		fertilizer.GET("", c.Fertilizer.GetRecommendations)
		fertilizer.POST("", c.Fertilizer.CreateRecommendation)
		fertilizer.POST("/calculate", c.Fertilizer.Calculate)
		fertilizer.GET("/:id", c.Fertilizer.GetRecommendation)
		fertilizer.PUT("/:id", c.Fertilizer.UpdateRecommendation)
		fertilizer.DELETE("/:id", c.Fertilizer.DeleteRecommendation)
		fertilizer.PUT("/:id/apply", c.Fertilizer.MarkApplied)
	}

	cropRecs := authenticated.Group("/crop-recommendations")
	{
		cropRecs.GET("", c.CropRecommendation.GetRecommendations)
		cropRecs.POST("", c.CropRecommendation.CreateRecommendation)
		cropRecs.POST("/analyze", c.CropRecommendation.Analyze)
		cropRecs.GET("/:id", c.CropRecommendation.GetRecommendation)
		cropRecs.PUT("/:id", c.CropRecommendation.UpdateRecommendation)
		cropRecs.DELETE("/:id", c.CropRecommendation.DeleteRecommendation)
	}

	weather := authenticated.Group("/weather")
	{
		weather.GET("/current", c.Weather.GetCurrent)
		weather.GET("/forecast", c.Weather.GetForecast)
		weather.GET("/city/:cityName", c.Weather.GetByCity)
		weather.GET("/history", c.Weather.GetHistory)
		weather.GET("/alerts", c.Weather.GetAlerts)
		weather.GET("/agricultural", c.Weather.GetAgricultural)
	}

	plans := authenticated.Group("/seasonal-plans")
	{
		plans.GET("", c.SeasonalPlan.GetPlans)
		plans.POST("", c.SeasonalPlan.CreatePlan)
		plans.GET("/stats", c.SeasonalPlan.GetStats)
		plans.GET("/:id", c.SeasonalPlan.GetPlan)
		plans.PUT("/:id", c.SeasonalPlan.UpdatePlan)
		plans.DELETE("/:id", c.SeasonalPlan.DeletePlan)
		plans.POST("/:id/milestones", c.SeasonalPlan.AddMilestone)
		plans.PUT("/:id/milestones/:milestoneId", c.SeasonalPlan.UpdateMilestone)
		plans.POST("/:id/notes", c.SeasonalPlan.AddNote)
		plans.GET("/:id/export", c.SeasonalPlan.Export)
	}

	farmonaut := authenticated.Group("/farmonaut")
	{
		farmonaut.GET("/crop-recommendations", c.Farmonaut.GetCropRecommendations)
		farmonaut.GET("/weather", c.Farmonaut.GetWeather)
		farmonaut.GET("/fertilizer-recommendations", c.Farmonaut.GetFertilizerRecommendations)
		farmonaut.GET("/satellite-data", c.Farmonaut.GetSatelliteData)
		farmonaut.GET("/comprehensive-data", c.Farmonaut.GetComprehensive)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/maintenance/purge", c.Admin.PurgeNow)
	}

	router.NoRoute(middleware.NotFound())
}
