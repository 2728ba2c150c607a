// File: /controllers/geofence_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/services"
	"fleettrack-api/utils"
)

type GeofenceController struct {
	truckRepo *repositories.TruckRepository
	geofences *services.GeofenceService
}

func NewGeofenceController(truckRepo *repositories.TruckRepository, geofences *services.GeofenceService) *GeofenceController {
	return &GeofenceController{
		truckRepo: truckRepo,
		geofences: geofences,
	}
}

func parseFenceTruckID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("truckID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck id"})
		return 0, false
	}
	return uint(id), true
}

// ListFences syncs a truck's active fences from the durable store into the
// live set and returns them. The sync also resets containment state so the
// next sample arms each fence silently.
func (gc *GeofenceController) ListFences(c *gin.Context) {
	truckID, ok := parseFenceTruckID(c)
	if !ok {
		return
	}
	if _, err := gc.truckRepo.GetByID(truckID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	records, err := gc.geofences.SyncFences(truckID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load geofences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fences": records, "count": len(records)})
}

// geometryInBounds checks every coordinate of a fence against valid WGS84
// ranges, plus a sanity cap on circle radii
func geometryInBounds(t models.FenceType, g models.FenceGeometry) bool {
	check := func(l *models.LatLng) bool {
		return l == nil || utils.IsValidCoordinate(l.Lat, l.Lng)
	}
	if !check(g.Center) || !check(g.SW) || !check(g.NE) {
		return false
	}
	for i := range g.Points {
		if !utils.IsValidCoordinate(g.Points[i].Lat, g.Points[i].Lng) {
			return false
		}
	}
	if t == models.FenceCircle && g.Radius > 0 && !utils.IsValidRadius(g.Radius) {
		return false
	}
	return true
}

type CreateFenceRequest struct {
	Name     string               `json:"name" binding:"required"`
	Type     models.FenceType     `json:"type" binding:"required"`
	Geometry models.FenceGeometry `json:"geometry" binding:"required"`
}

// CreateFence persists a new fence for a truck and adds it to the live
// evaluation set
func (gc *GeofenceController) CreateFence(c *gin.Context) {
	truckID, ok := parseFenceTruckID(c)
	if !ok {
		return
	}
	var req CreateFenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !geometryInBounds(req.Type, req.Geometry) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geometry coordinates out of range"})
		return
	}

	truck, err := gc.truckRepo.GetByID(truckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	fence, err := gc.geofences.CreateFence(truck.ID, req.Name, req.Type, req.Geometry, c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc.geofences.Dispatch(models.GeofenceEvent{
		ID:        uuid.New().String(),
		EventType: models.GeofenceCreated,
		Fence:     fence.ToRecord(),
		TruckID:   truck.ID,
		Plate:     truck.PlateNumber,
		Timestamp: time.Now(),
	})

	c.JSON(http.StatusCreated, gin.H{"fence": fence.ToRecord()})
}

// ClearFences deactivates every fence on a truck
func (gc *GeofenceController) ClearFences(c *gin.Context) {
	truckID, ok := parseFenceTruckID(c)
	if !ok {
		return
	}
	truck, err := gc.truckRepo.GetByID(truckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	cleared := gc.geofences.Fences(truck.ID)
	if err := gc.geofences.ClearFences(truck.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear geofences"})
		return
	}

	now := time.Now()
	for _, record := range cleared {
		gc.geofences.Dispatch(models.GeofenceEvent{
			ID:        uuid.New().String(),
			EventType: models.GeofenceDisabled,
			Fence:     record,
			TruckID:   truck.ID,
			Plate:     truck.PlateNumber,
			Timestamp: now,
		})
	}

	c.JSON(http.StatusOK, gin.H{"cleared": len(cleared)})
}

type FenceEventRequest struct {
	EventType models.GeofenceEventType `json:"event_type" binding:"required"`
	TruckID   uint                     `json:"truck_id" binding:"required"`
	Fence     models.FenceRecord       `json:"fence" binding:"required"`
	Position  *models.LatLng           `json:"position"`
}

// PostEvent accepts a fence lifecycle event raised by a map client and relays
// it to the notification sinks. Delivery is best-effort, so the endpoint
// always acknowledges.
func (gc *GeofenceController) PostEvent(c *gin.Context) {
	var req FenceEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.EventType {
	case models.GeofenceCreated, models.GeofenceDisabled, models.GeofenceEntered, models.GeofenceExited:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event type"})
		return
	}

	truck, err := gc.truckRepo.GetByID(req.TruckID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	gc.geofences.Dispatch(models.GeofenceEvent{
		ID:        uuid.New().String(),
		EventType: req.EventType,
		Fence:     req.Fence,
		TruckID:   truck.ID,
		Plate:     truck.PlateNumber,
		Position:  req.Position,
		Timestamp: time.Now(),
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
