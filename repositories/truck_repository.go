// File: /repositories/truck_repository.go
package repositories

import (
	"gorm.io/gorm"

	"fleettrack-api/models"
)

type TruckRepository struct {
	db *gorm.DB
}

func NewTruckRepository(db *gorm.DB) *TruckRepository {
	return &TruckRepository{db: db}
}

func (r *TruckRepository) GetByID(id uint) (*models.Truck, error) {
	var truck models.Truck
	if err := r.db.First(&truck, id).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

// GetByPlate looks a truck up by the plate number the GPS provider reports
func (r *TruckRepository) GetByPlate(plate string) (*models.Truck, error) {
	var truck models.Truck
	if err := r.db.Where("plate_number = ?", plate).First(&truck).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

func (r *TruckRepository) List() ([]models.Truck, error) {
	var trucks []models.Truck
	err := r.db.Order("plate_number").Find(&trucks).Error
	return trucks, err
}

// UpdateMileage bumps the odometer reading, never backwards
func (r *TruckRepository) UpdateMileage(truckID uint, odometer float64) error {
	return r.db.Model(&models.Truck{}).
		Where("id = ? AND mileage < ?", truckID, odometer).
		Update("mileage", odometer).Error
}

// CountByStatus returns truck counts keyed by status for the dashboard
func (r *TruckRepository) CountByStatus() (map[models.TruckStatus]int64, error) {
	type row struct {
		Status models.TruckStatus
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Truck{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TruckStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.N
	}
	return counts, nil
}
