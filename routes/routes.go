// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fleettrack-api/config"
	"fleettrack-api/controllers"
	"fleettrack-api/middleware"
	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/services"
)

func SetupRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	trackers *services.TrackerService,
	geofences *services.GeofenceService,
	animators *services.AnimatorService,
	dashboard *services.DashboardService,
) {
	truckRepo := repositories.NewTruckRepository(db)
	gpsRepo := repositories.NewGPSRepository(db)
	tripRepo := repositories.NewTripRepository(db)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	truckController := controllers.NewTruckController(truckRepo, gpsRepo, trackers, geofences)
	geofenceController := controllers.NewGeofenceController(truckRepo, geofences)
	tripController := controllers.NewTripController(tripRepo, geofences, animators)
	dashboardController := controllers.NewDashboardController(dashboard)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/dashboard", dashboardController.GetKPIs)

		// Truck routes
		trucks := protected.Group("/trucks")
		{
			trucks.GET("/", truckController.ListTrucks)
			trucks.GET("/:id/live", truckController.GetLiveTruck)
			trucks.GET("/:id/trail", truckController.GetTrail)
			trucks.POST("/:id/follow", truckController.SetFollow)
			trucks.POST("/:id/pan", truckController.ManualPan)
			trucks.POST("/:id/playback/play", truckController.PlaybackPlay)
			trucks.POST("/:id/playback/stop", truckController.PlaybackStop)
			trucks.POST("/:id/playback/speed", truckController.PlaybackSpeed)
			trucks.GET("/:id/playback", truckController.PlaybackStatus)
		}

		// Geofence routes
		fences := protected.Group("/geofences")
		{
			fences.GET("/:truckID", geofenceController.ListFences)
			fences.POST("/event", geofenceController.PostEvent)

			manage := fences.Group("/")
			manage.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
			{
				manage.POST("/:truckID", geofenceController.CreateFence)
				manage.POST("/:truckID/clear", geofenceController.ClearFences)
			}
		}

		// Trip routes
		trips := protected.Group("/trips")
		{
			trips.GET("/:id/route", tripController.GetRoute)
			trips.GET("/:id/animation", tripController.GetAnimation)
			trips.POST("/:id/animation/play", tripController.PlayAnimation)
			trips.POST("/:id/animation/stop", tripController.StopAnimation)
		}
	}
}
