package api

import (
	"net/http"
	"time"

	"alcyxob/health-tracker/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services groups the use cases the HTTP layer needs.
type Services struct {
	BodyStatus service.BodyStatusService
	Trackers   service.TrackerService
	Workouts   service.WorkoutService
	Generation service.GenerationService
	// Artifacts is set only when artifacts are kept in process.
	Artifacts ArtifactSource
}

func SetupRoutes(router *gin.Engine, jwtSecret string, allowedOrigins []string, services Services) {
	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	bodyStatusHandler := NewBodyStatusHandler(services.BodyStatus)
	trackerHandler := NewTrackerHandler(services.Trackers, services.Workouts)
	dietPlanHandler := NewDietPlanHandler(services.Generation)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if services.Artifacts != nil {
		router.GET("/artifacts/*key", NewArtifactHandler(services.Artifacts).GetArtifact)
	}

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		bodyStatusGroup := protected.Group("/body-status")
		{
			bodyStatusGroup.POST("", bodyStatusHandler.RecordBodyStatus)
			bodyStatusGroup.GET("", bodyStatusHandler.ListBodyStatus)
			bodyStatusGroup.GET("/latest", bodyStatusHandler.GetLatestBodyStatus)
			bodyStatusGroup.DELETE("/:id", bodyStatusHandler.DeleteBodyStatus)
		}

		caloriesGroup := protected.Group("/calories")
		{
			caloriesGroup.PUT("/:date/sources/:source", trackerHandler.SetCalorieSource)
			caloriesGroup.PUT("/:date/target", trackerHandler.SetCalorieTarget)
			caloriesGroup.GET("/:date", trackerHandler.GetCalories)
		}

		waterGroup := protected.Group("/water")
		{
			waterGroup.POST("/:date/intakes", trackerHandler.AddWaterIntake)
			waterGroup.PUT("/:date/target", trackerHandler.SetWaterTarget)
			waterGroup.GET("/:date", trackerHandler.GetWater)
		}

		sleepGroup := protected.Group("/sleep")
		{
			sleepGroup.PUT("/:date", trackerHandler.LogSleep)
			sleepGroup.GET("/:date", trackerHandler.GetSleep)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("/:date/entries", trackerHandler.AddWorkoutEntry)
			workoutGroup.PUT("/:date/target", trackerHandler.SetWorkoutTarget)
			workoutGroup.GET("/:date", trackerHandler.GetWorkouts)
		}

		dietPlanGroup := protected.Group("/diet-plans")
		{
			dietPlanGroup.GET("/eligibility", dietPlanHandler.GetEligibility)
			dietPlanGroup.POST("", dietPlanHandler.RequestDietPlan)
			dietPlanGroup.GET("/latest", dietPlanHandler.GetLatestDietPlan)
		}
	}
}
