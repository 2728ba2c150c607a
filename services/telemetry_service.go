// File: /services/telemetry_service.go
package services

import (
	"log"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/utils"
)

// MinMoveMeters is the jitter gate: provider positions closer than this to
// the last recorded route point are not appended to the trip route
const MinMoveMeters = 20.0

// staleRouteAge forces a route append even without movement, so long idle
// stretches still leave a trace
const staleRouteAge = 5 * time.Minute

// TelemetryService is the ingestion pipeline: provider records in, validated
// samples fanned out to persistence, the live tracker, and the geofence
// engine.
type TelemetryService struct {
	truckRepo *repositories.TruckRepository
	gpsRepo   *repositories.GPSRepository
	tripRepo  *repositories.TripRepository
	trackers  *TrackerService
	geofences *GeofenceService
}

func NewTelemetryService(
	truckRepo *repositories.TruckRepository,
	gpsRepo *repositories.GPSRepository,
	tripRepo *repositories.TripRepository,
	trackers *TrackerService,
	geofences *GeofenceService,
) *TelemetryService {
	return &TelemetryService{
		truckRepo: truckRepo,
		gpsRepo:   gpsRepo,
		tripRepo:  tripRepo,
		trackers:  trackers,
		geofences: geofences,
	}
}

// ProcessObjects ingests one provider poll response. Per the fail-silent
// posture, bad records are skipped individually: an unknown plate, invalid
// coordinates, or a storage error never aborts the batch. Returns the number
// of records persisted.
func (s *TelemetryService) ProcessObjects(objects []models.ProviderObject) int {
	now := time.Now()
	created := 0

	for i := range objects {
		sample, err := objects[i].ToSample(now)
		if err != nil {
			continue
		}
		if !utils.IsValidPlate(sample.Plate) {
			continue
		}

		truck, err := s.truckRepo.GetByPlate(sample.Plate)
		if err != nil {
			// not a fleet vehicle we track
			continue
		}

		if s.ingestSample(truck, sample, objects[i].Params) {
			created++
		}
	}
	return created
}

func (s *TelemetryService) ingestSample(truck *models.Truck, sample *models.PositionSample, params models.JSONData) bool {
	last, err := s.gpsRepo.Latest(truck.ID)
	if err != nil {
		log.Printf("telemetry: latest record lookup failed for %s: %v", truck.PlateNumber, err)
		return false
	}

	// fan out to the live view even when the position is unchanged, so the
	// panel's speed/engine fields stay fresh
	tracker := s.trackers.Tracker(truck.ID, truck.PlateNumber)
	tracker.Ingest(*sample)
	s.geofences.Evaluate(truck.ID, truck.PlateNumber,
		geo.Point{Lat: sample.Latitude, Lng: sample.Longitude}, sample.Timestamp)

	if last != nil && last.Latitude == sample.Latitude && last.Longitude == sample.Longitude && last.Location == sample.Location {
		return false
	}

	record := &models.GPSRecord{
		TruckID:   truck.ID,
		IMEI:      sample.IMEI,
		Name:      sample.Plate,
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Location:  sample.Location,
		Engine:    sample.Engine,
		Status:    sample.Status,
		Angle:     sample.Angle,
		Speed:     sample.Speed,
		Altitude:  sample.Altitude,
		Odometer:  sample.Odometer,
		DtServer:  time.Now().UTC(),
		DtTracker: sample.Timestamp,
		Params:    params,
	}
	if err := s.gpsRepo.Create(record); err != nil {
		log.Printf("telemetry: failed to save record for %s: %v", truck.PlateNumber, err)
		return false
	}

	if sample.Odometer > 0 {
		if err := s.truckRepo.UpdateMileage(truck.ID, sample.Odometer); err != nil {
			log.Printf("telemetry: mileage update failed for %s: %v", truck.PlateNumber, err)
		}
	}

	s.appendToActiveTrip(truck, sample)
	return true
}

// shouldAppendRoutePoint is the jitter gate: a sample extends the route only
// when it moved at least MinMoveMeters from the last point, or the last point
// has gone stale
func shouldAppendRoutePoint(last models.RoutePoint, sample *models.PositionSample) bool {
	moved := geo.HaversineDistance(last.Lat, last.Lng, sample.Latitude, sample.Longitude)
	if moved >= MinMoveMeters {
		return true
	}
	if ts, err := models.ParseProviderTime(last.Timestamp); err == nil {
		age := sample.Timestamp.Sub(ts)
		if age < 0 {
			age = -age
		}
		return age >= staleRouteAge
	}
	return false
}

// appendToActiveTrip extends the in-progress trip's route when the truck has
// moved meaningfully or the last point has gone stale
func (s *TelemetryService) appendToActiveTrip(truck *models.Truck, sample *models.PositionSample) {
	trip, err := s.tripRepo.ActiveForTruck(truck.ID)
	if err != nil || trip == nil {
		return
	}

	route := trip.Route
	if len(route) > 0 && !shouldAppendRoutePoint(route[len(route)-1], sample) {
		return
	}

	route = append(route, models.RoutePoint{
		Lat:       sample.Latitude,
		Lng:       sample.Longitude,
		Location:  sample.Location,
		Timestamp: sample.Timestamp.Format(time.RFC3339),
	})
	if err := s.tripRepo.UpdateRoute(trip.ID, route); err != nil {
		log.Printf("telemetry: route append failed for trip %d: %v", trip.ID, err)
	}
}
