// File: /main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack-api/clients"
	"fleettrack-api/config"
	"fleettrack-api/database"
	"fleettrack-api/jobs"
	"fleettrack-api/middleware"
	"fleettrack-api/repositories"
	"fleettrack-api/routes"
	"fleettrack-api/services"
	"fleettrack-api/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed the initial admin operator
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to seed admin operator: %v", err)
	}

	// Repositories
	truckRepo := repositories.NewTruckRepository(db)
	gpsRepo := repositories.NewGPSRepository(db)
	tripRepo := repositories.NewTripRepository(db)
	geofenceRepo := repositories.NewGeofenceRepository(db)

	// Geofence event sinks
	var sinks services.MultiNotifier
	if len(cfg.AdminEmails) > 0 {
		sinks = append(sinks, services.NewEmailNotifier(cfg))
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, services.NewWebhookNotifier(cfg.WebhookURL, cfg.GPSTimeout))
	}

	// Services
	mirror := store.NewLocalStore()
	trackers := services.NewTrackerService(cfg.TrailLimit)
	geofences := services.NewGeofenceService(geofenceRepo, sinks, mirror)
	animators := services.NewAnimatorService()
	dashboard := services.NewDashboardService(truckRepo, tripRepo)
	telemetry := services.NewTelemetryService(truckRepo, gpsRepo, tripRepo, trackers, geofences)

	// Background jobs
	gpsClient := clients.NewGPSClient(cfg.GPSAPIURL, cfg.GPSAPIKey, cfg.GPSTimeout)
	positionJob := jobs.NewPositionPollJob(gpsClient, telemetry, cfg.PollInterval)
	routeJob := jobs.NewRoutePollJob(tripRepo, animators, cfg.RouteInterval)
	dashboardJob := jobs.NewDashboardJob(dashboard, cfg.KPIInterval)
	positionJob.Start()
	routeJob.Start()
	dashboardJob.Start()

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.ValidateJSON())
	router.Use(middleware.RateLimit(300, 30))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, trackers, geofences, animators, dashboard)

	// Stop jobs cleanly on shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down")
		positionJob.Stop()
		routeJob.Stop()
		dashboardJob.Stop()
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting FleetTrack API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
