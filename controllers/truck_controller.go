// File: /controllers/truck_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fleettrack-api/geo"
	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/services"
	"fleettrack-api/utils"
)

type TruckController struct {
	truckRepo *repositories.TruckRepository
	gpsRepo   *repositories.GPSRepository
	trackers  *services.TrackerService
	geofences *services.GeofenceService

	mu        sync.Mutex
	playbacks map[uint]*services.PlaybackController
}

func NewTruckController(
	truckRepo *repositories.TruckRepository,
	gpsRepo *repositories.GPSRepository,
	trackers *services.TrackerService,
	geofences *services.GeofenceService,
) *TruckController {
	return &TruckController{
		truckRepo: truckRepo,
		gpsRepo:   gpsRepo,
		trackers:  trackers,
		geofences: geofences,
		playbacks: make(map[uint]*services.PlaybackController),
	}
}

func parseTruckID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck id"})
		return 0, false
	}
	return uint(id), true
}

// ListTrucks returns every truck with its latest telemetry, the payload the
// dashboard list polls every 30 seconds
func (tc *TruckController) ListTrucks(c *gin.Context) {
	trucks, err := tc.truckRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trucks"})
		return
	}
	latest, err := tc.gpsRepo.LatestForAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch telemetry"})
		return
	}

	now := time.Now()
	items := make([]models.LiveTruckResponse, 0, len(trucks))
	for _, truck := range trucks {
		item := models.LiveTruckResponse{
			ID:          truck.ID,
			PlateNumber: truck.PlateNumber,
			DriverName:  truck.DriverName,
			Status:      truck.Status,
		}
		if rec, ok := latest[truck.ID]; ok {
			lat, lng, speed := rec.Latitude, rec.Longitude, rec.Speed
			ts := rec.DtTracker
			age := now.Sub(ts).Seconds()
			item.Latitude = &lat
			item.Longitude = &lng
			item.Speed = &speed
			item.Engine = rec.Engine
			item.Angle = rec.Angle
			item.Location = rec.Location
			item.Timestamp = &ts
			item.AgeSeconds = &age
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetLiveTruck returns the latest sample plus the live view state for one
// truck: marker, trail aggregates, follow mode. Polled every 5 seconds by
// the vehicle-detail page.
func (tc *TruckController) GetLiveTruck(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	truck, err := tc.truckRepo.GetByID(truckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	tracker := tc.trackers.Tracker(truck.ID, truck.PlateNumber)
	distance, maxSpeed := tracker.TrailStats()

	// view init loads the fence set; later polls reuse the live set
	fences := tc.geofences.Fences(truck.ID)
	if len(fences) == 0 {
		if synced, err := tc.geofences.SyncFences(truck.ID); err == nil {
			fences = synced
		}
	}

	resp := gin.H{
		"truck_id":       truck.ID,
		"plate_number":   truck.PlateNumber,
		"status":         truck.Status,
		"follow":         tracker.Following(),
		"trail_distance": distance,
		"max_speed":      maxSpeed,
		"trail_length":   len(tracker.TrailEntries()),
		"fences":         fences,
	}
	if marker := tracker.Marker(); marker != nil {
		resp["marker"] = marker
	}
	c.JSON(http.StatusOK, resp)
}

// GetTrail returns the retained trail entries for a truck
func (tc *TruckController) GetTrail(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	tracker := tc.trackers.Lookup(truckID)
	if tracker == nil {
		c.JSON(http.StatusOK, gin.H{"entries": []services.TrailEntry{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": tracker.TrailEntries()})
}

type FollowRequest struct {
	Follow bool `json:"follow"`
}

// SetFollow toggles follow mode for a truck's live view
func (tc *TruckController) SetFollow(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	var req FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	truck, err := tc.truckRepo.GetByID(truckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}
	tracker := tc.trackers.Tracker(truck.ID, truck.PlateNumber)
	tracker.SetFollow(req.Follow)
	c.JSON(http.StatusOK, gin.H{"follow": tracker.Following()})
}

type PanRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ManualPan records a user pan/zoom, which drops follow mode until the user
// re-enables it
func (tc *TruckController) ManualPan(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	var req PanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.IsValidCoordinate(req.Lat, req.Lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	tracker := tc.trackers.Lookup(truckID)
	if tracker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live view for this truck"})
		return
	}
	tracker.ManualPan(geo.Point{Lat: req.Lat, Lng: req.Lng})
	c.JSON(http.StatusOK, gin.H{"follow": false})
}

func (tc *TruckController) playback(truckID uint, plate string) *services.PlaybackController {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	pc, ok := tc.playbacks[truckID]
	if !ok {
		pc = services.NewPlaybackController(tc.trackers.Tracker(truckID, plate))
		tc.playbacks[truckID] = pc
	}
	return pc
}

func (tc *TruckController) lookupPlayback(truckID uint) *services.PlaybackController {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.playbacks[truckID]
}

// PlaybackPlay starts replaying the recorded trail on the playback marker
func (tc *TruckController) PlaybackPlay(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	truck, err := tc.truckRepo.GetByID(truckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	pc := tc.playback(truck.ID, truck.PlateNumber)
	started := pc.Play()
	c.JSON(http.StatusOK, gin.H{
		"state":   pc.State(),
		"started": started,
		"speed":   pc.Speed(),
	})
}

// PlaybackStop halts the replay
func (tc *TruckController) PlaybackStop(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	if pc := tc.lookupPlayback(truckID); pc != nil {
		pc.Stop()
	}
	c.JSON(http.StatusOK, gin.H{"state": services.PlaybackIdle})
}

// PlaybackSpeed cycles the replay speed through 1x/2x/4x
func (tc *TruckController) PlaybackSpeed(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	pc := tc.lookupPlayback(truckID)
	if pc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No playback for this truck"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"speed": pc.CycleSpeed()})
}

// PlaybackStatus returns the replay state and marker position
func (tc *TruckController) PlaybackStatus(c *gin.Context) {
	truckID, ok := parseTruckID(c)
	if !ok {
		return
	}
	pc := tc.lookupPlayback(truckID)
	if pc == nil {
		c.JSON(http.StatusOK, gin.H{"state": services.PlaybackIdle})
		return
	}
	resp := gin.H{
		"state": pc.State(),
		"speed": pc.Speed(),
		"index": pc.Index(),
	}
	if pos := pc.Position(); pos != nil {
		resp["position"] = pos
	}
	c.JSON(http.StatusOK, resp)
}
