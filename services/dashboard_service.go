// File: /services/dashboard_service.go
package services

import (
	"sync"
	"time"

	"fleettrack-api/models"
	"fleettrack-api/repositories"
)

// DashboardKPIs are the counters the dashboard polls for
type DashboardKPIs struct {
	ActiveTripsCount  int64     `json:"active_trips_count"`
	TrucksAvailable   int64     `json:"trucks_available"`
	TrucksInUse       int64     `json:"trucks_in_use"`
	TrucksMaintenance int64     `json:"trucks_maintenance"`
	RefreshedAt       time.Time `json:"refreshed_at"`
}

// DashboardService maintains a periodically refreshed KPI snapshot so the
// dashboard poll never hits the database directly
type DashboardService struct {
	truckRepo *repositories.TruckRepository
	tripRepo  *repositories.TripRepository

	mu       sync.RWMutex
	snapshot DashboardKPIs
}

func NewDashboardService(truckRepo *repositories.TruckRepository, tripRepo *repositories.TripRepository) *DashboardService {
	return &DashboardService{
		truckRepo: truckRepo,
		tripRepo:  tripRepo,
	}
}

// Refresh recomputes the snapshot from the database
func (s *DashboardService) Refresh() error {
	counts, err := s.truckRepo.CountByStatus()
	if err != nil {
		return err
	}
	activeTrips, err := s.tripRepo.CountByStatus(models.TripStatusInProgress)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = DashboardKPIs{
		ActiveTripsCount:  activeTrips,
		TrucksAvailable:   counts[models.TruckStatusAvailable],
		TrucksInUse:       counts[models.TruckStatusInUse],
		TrucksMaintenance: counts[models.TruckStatusMaintenance],
		RefreshedAt:       time.Now(),
	}
	s.mu.Unlock()
	return nil
}

// Snapshot returns the last refreshed KPI set
func (s *DashboardService) Snapshot() DashboardKPIs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
