// File: /repositories/geofence_repository.go
package repositories

import (
	"time"

	"gorm.io/gorm"

	"fleettrack-api/models"
)

type GeofenceRepository struct {
	db *gorm.DB
}

func NewGeofenceRepository(db *gorm.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(fence *models.Geofence) error {
	return r.db.Create(fence).Error
}

// ListActive returns the active fences for a truck, newest first
func (r *GeofenceRepository) ListActive(truckID uint) ([]models.Geofence, error) {
	var fences []models.Geofence
	err := r.db.Where("truck_id = ? AND active = ?", truckID, true).
		Order("created_at DESC").
		Find(&fences).Error
	return fences, err
}

// ClearAll deactivates every active fence for a truck. Fences are never
// deleted so disabled ones remain auditable.
func (r *GeofenceRepository) ClearAll(truckID uint) error {
	return r.db.Model(&models.Geofence{}).
		Where("truck_id = ? AND active = ?", truckID, true).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}
