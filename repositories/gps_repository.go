// File: /repositories/gps_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"fleettrack-api/models"
)

type GPSRepository struct {
	db *gorm.DB
}

func NewGPSRepository(db *gorm.DB) *GPSRepository {
	return &GPSRepository{db: db}
}

func (r *GPSRepository) Create(record *models.GPSRecord) error {
	return r.db.Create(record).Error
}

// Latest returns the most recent record for a truck, or nil when the truck
// has never reported
func (r *GPSRepository) Latest(truckID uint) (*models.GPSRecord, error) {
	var record models.GPSRecord
	err := r.db.Where("truck_id = ?", truckID).
		Order("dt_tracker DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// LatestForAll returns the newest record per truck in one pass, keyed by
// truck id
func (r *GPSRepository) LatestForAll() (map[uint]models.GPSRecord, error) {
	var records []models.GPSRecord
	err := r.db.Raw(`
		SELECT g.* FROM gps_records g
		INNER JOIN (
			SELECT truck_id, MAX(dt_tracker) AS max_dt
			FROM gps_records GROUP BY truck_id
		) m ON g.truck_id = m.truck_id AND g.dt_tracker = m.max_dt
	`).Scan(&records).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]models.GPSRecord, len(records))
	for _, rec := range records {
		if cur, ok := latest[rec.TruckID]; !ok || rec.ID > cur.ID {
			latest[rec.TruckID] = rec
		}
	}
	return latest, nil
}
