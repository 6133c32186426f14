package api

import (
	"net/http"

	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	trackingService service.TrackingService,
) {

	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	trackingHandler := NewTrackingHandler(trackingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Plan Routes ---
		// A user has at most one live (active or paused) plan, so everything
		// hangs off /plans/current rather than a plan ID.
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/current", planHandler.GetCurrentPlan)
			planGroup.PATCH("/current", planHandler.UpdatePlan)
			planGroup.DELETE("/current", planHandler.DeletePlan)
			planGroup.POST("/current/pause", planHandler.PausePlan)
			planGroup.POST("/current/resume", planHandler.ResumePlan)
		}

		// --- Weight Routes (incl. progress photos) ---
		weightGroup := protected.Group("/weights")
		{
			weightGroup.POST("", trackingHandler.LogWeight)
			weightGroup.GET("", trackingHandler.GetWeights)
			weightGroup.GET("/:id", trackingHandler.GetWeightByID)
			weightGroup.DELETE("/:id", trackingHandler.DeleteWeight)

			weightGroup.POST("/:id/photo/upload-url", trackingHandler.RequestPhotoUploadURL)
			weightGroup.POST("/:id/photo/confirm", trackingHandler.ConfirmPhotoUpload)
			weightGroup.GET("/:id/photo", trackingHandler.GetPhotoDownloadURL)
		}

		// --- Steps Routes ---
		stepsGroup := protected.Group("/steps")
		{
			stepsGroup.POST("", trackingHandler.LogSteps)
			stepsGroup.GET("", trackingHandler.GetSteps)
			stepsGroup.DELETE("/:id", trackingHandler.DeleteSteps)
		}

		// --- Workout Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", trackingHandler.LogWorkout)
			workoutGroup.GET("", trackingHandler.GetWorkouts)
			workoutGroup.DELETE("/:id", trackingHandler.DeleteWorkout)
		}

		// --- Meal Routes ---
		mealGroup := protected.Group("/meals")
		{
			mealGroup.POST("", trackingHandler.LogMeal)
			mealGroup.GET("", trackingHandler.GetMeals)
			mealGroup.DELETE("/:id", trackingHandler.DeleteMeal)
		}
	}
}
