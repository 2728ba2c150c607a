// File: /repositories/trip_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"fleettrack-api/models"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) GetByID(id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.Preload("Truck").First(&trip, id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// ActiveForTruck returns the newest in-progress trip for a truck, or nil
func (r *TripRepository) ActiveForTruck(truckID uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.Where("truck_id = ? AND status = ?", truckID, models.TripStatusInProgress).
		Order("id DESC").
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

// ActiveTrips returns all in-progress trips
func (r *TripRepository) ActiveTrips() ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.Where("status = ?", models.TripStatusInProgress).Find(&trips).Error
	return trips, err
}

func (r *TripRepository) CountByStatus(status models.TripStatus) (int64, error) {
	var n int64
	err := r.db.Model(&models.Trip{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// UpdateRoute persists a trip's accumulated route
func (r *TripRepository) UpdateRoute(tripID uint, route models.RoutePointList) error {
	return r.db.Model(&models.Trip{}).
		Where("id = ?", tripID).
		Update("route", route).Error
}
