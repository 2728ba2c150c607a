// File: /controllers/trip_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/services"
)

type TripController struct {
	tripRepo  *repositories.TripRepository
	geofences *services.GeofenceService
	animators *services.AnimatorService
}

func NewTripController(
	tripRepo *repositories.TripRepository,
	geofences *services.GeofenceService,
	animators *services.AnimatorService,
) *TripController {
	return &TripController{
		tripRepo:  tripRepo,
		geofences: geofences,
		animators: animators,
	}
}

func (tc *TripController) loadTrip(c *gin.Context) (*models.Trip, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return nil, false
	}
	trip, err := tc.tripRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return nil, false
	}

	// drivers only see trips assigned to them
	if models.Role(c.GetString("role")) == models.RoleDriver {
		userID := c.GetString("user_id")
		if trip.DriverID == nil || *trip.DriverID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return nil, false
		}
	}
	return trip, true
}

// GetRoute returns a trip's normalized route together with the truck's
// active fences, the payload the history map renders
func (tc *TripController) GetRoute(c *gin.Context) {
	trip, ok := tc.loadTrip(c)
	if !ok {
		return
	}

	route := services.NormalizeRoute(trip.Route)
	fences, err := tc.geofences.SyncFences(trip.TruckID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load geofences"})
		return
	}

	c.JSON(http.StatusOK, models.TripRouteResponse{
		Route:  route,
		Fences: fences,
	})
}

type AnimationPlayRequest struct {
	Live bool `json:"live"`
}

// PlayAnimation starts (or restarts) the trip's route animation. Live mode
// keeps the animator chasing new points appended while the trip is still in
// progress.
func (tc *TripController) PlayAnimation(c *gin.Context) {
	trip, ok := tc.loadTrip(c)
	if !ok {
		return
	}
	var req AnimationPlayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	live := req.Live && trip.Status == models.TripStatusInProgress
	animator := tc.animators.Animator(trip.ID, trip.Route, live)
	started := animator.Play(time.Now())
	c.JSON(http.StatusOK, gin.H{
		"playing": animator.Playing(),
		"started": started,
		"points":  len(animator.Route()),
	})
}

// StopAnimation halts the animation in place
func (tc *TripController) StopAnimation(c *gin.Context) {
	trip, ok := tc.loadTrip(c)
	if !ok {
		return
	}
	if animator := tc.animators.Lookup(trip.ID); animator != nil {
		animator.Stop()
	}
	c.JSON(http.StatusOK, gin.H{"playing": false})
}

// GetAnimation advances the animation to now and returns the interpolated
// marker. The map polls this while an animation runs.
func (tc *TripController) GetAnimation(c *gin.Context) {
	trip, ok := tc.loadTrip(c)
	if !ok {
		return
	}
	animator := tc.animators.Lookup(trip.ID)
	if animator == nil {
		c.JSON(http.StatusOK, gin.H{"playing": false})
		return
	}

	position, bearing, playing := animator.Tick(time.Now())
	c.JSON(http.StatusOK, gin.H{
		"playing":  playing,
		"position": position,
		"bearing":  bearing,
	})
}
