// File: /services/geofence_service.go
package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleettrack-api/geo"
	"fleettrack-api/models"
	"fleettrack-api/repositories"
	"fleettrack-api/store"
)

// EventNotifier delivers geofence events to an external sink. Delivery is
// best-effort: callers log and swallow errors, and fence state is never
// rolled back on a failed send.
type EventNotifier interface {
	Notify(event models.GeofenceEvent) error
}

// FenceContains evaluates point-in-region containment with the rule for the
// fence's variant
func FenceContains(fence models.FenceRecord, p geo.Point) bool {
	switch fence.Type {
	case models.FenceCircle:
		if fence.Center == nil {
			return false
		}
		return geo.InCircle(p, geo.Point{Lat: fence.Center.Lat, Lng: fence.Center.Lng}, fence.Radius)
	case models.FenceRect:
		if fence.SW == nil || fence.NE == nil {
			return false
		}
		return geo.InRect(p,
			geo.Point{Lat: fence.SW.Lat, Lng: fence.SW.Lng},
			geo.Point{Lat: fence.NE.Lat, Lng: fence.NE.Lng})
	case models.FencePolygon:
		polygon := make([]geo.Point, len(fence.Points))
		for i, v := range fence.Points {
			polygon[i] = geo.Point{Lat: v.Lat, Lng: v.Lng}
		}
		return geo.InPolygon(p, polygon)
	default:
		return false
	}
}

// fenceState tracks last-known containment for one fence/truck pair. armed is
// false until the first evaluation so loading a vehicle already inside a
// fence never fires a spurious "entered".
type fenceState struct {
	record models.FenceRecord
	inside bool
	armed  bool
}

// GeofenceService owns the per-truck fence sets, evaluates containment on
// every incoming sample, and mirrors fences plus inside flags to the
// view-local store (write-through).
type GeofenceService struct {
	repo     *repositories.GeofenceRepository
	notifier EventNotifier
	mirror   *store.LocalStore

	mu     sync.Mutex
	states map[uint][]*fenceState
}

func NewGeofenceService(repo *repositories.GeofenceRepository, notifier EventNotifier, mirror *store.LocalStore) *GeofenceService {
	return &GeofenceService{
		repo:     repo,
		notifier: notifier,
		mirror:   mirror,
		states:   make(map[uint][]*fenceState),
	}
}

func mirrorFencesKey(truckID uint) string {
	return fmt.Sprintf("geofences:%d", truckID)
}

func mirrorInsideKey(truckID uint, fenceID string) string {
	return fmt.Sprintf("geofence_inside:%d:%s", truckID, fenceID)
}

// SyncFences loads the truck's active fences from the durable store,
// overwriting the local mirror and resetting evaluation state. Called once
// per view initialization.
func (s *GeofenceService) SyncFences(truckID uint) ([]models.FenceRecord, error) {
	fences, err := s.repo.ListActive(truckID)
	if err != nil {
		return nil, err
	}

	records := make([]models.FenceRecord, len(fences))
	states := make([]*fenceState, len(fences))
	for i, f := range fences {
		records[i] = f.ToRecord()
		states[i] = &fenceState{record: records[i]}
	}

	s.mirror.SetJSON(mirrorFencesKey(truckID), records)

	s.mu.Lock()
	s.states[truckID] = states
	s.mu.Unlock()

	return records, nil
}

// CreateFence validates and persists a fence, then adds it to the live
// evaluation set and the mirror
func (s *GeofenceService) CreateFence(truckID uint, name string, ftype models.FenceType, geom models.FenceGeometry, createdBy string) (*models.Geofence, error) {
	if err := geom.Validate(ftype); err != nil {
		return nil, err
	}

	fence := &models.Geofence{
		ID:        uuid.New().String(),
		TruckID:   truckID,
		Name:      name,
		Type:      ftype,
		Geometry:  geom,
		Active:    true,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(fence); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.states[truckID] = append(s.states[truckID], &fenceState{record: fence.ToRecord()})
	states := s.states[truckID]
	s.mu.Unlock()

	s.writeMirror(truckID, states)
	return fence, nil
}

// ClearFences deactivates all fences for a truck and empties the live set
// and mirror
func (s *GeofenceService) ClearFences(truckID uint) error {
	if err := s.repo.ClearAll(truckID); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.states[truckID]
	s.states[truckID] = nil
	s.mu.Unlock()

	for _, st := range old {
		s.mirror.Remove(mirrorInsideKey(truckID, st.record.ID))
	}
	s.mirror.SetJSON(mirrorFencesKey(truckID), []models.FenceRecord{})
	return nil
}

// Fences returns the current live fence set for a truck
func (s *GeofenceService) Fences(truckID uint) []models.FenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := s.states[truckID]
	records := make([]models.FenceRecord, len(states))
	for i, st := range states {
		records[i] = st.record
	}
	return records
}

// Evaluate runs containment for every fence of the truck against a new
// position sample. The first evaluation of a fence only initializes its
// inside flag; later flips emit entered/exited events. Notifier failures are
// swallowed and state is kept, so delivery is at-least-once best-effort.
func (s *GeofenceService) Evaluate(truckID uint, plate string, p geo.Point, at time.Time) []models.GeofenceEvent {
	s.mu.Lock()
	states := s.states[truckID]
	var events []models.GeofenceEvent

	for _, st := range states {
		contained := FenceContains(st.record, p)
		if !st.armed {
			st.armed = true
			st.inside = contained
			s.mirror.SetJSON(mirrorInsideKey(truckID, st.record.ID), contained)
			continue
		}
		if contained == st.inside {
			continue
		}
		st.inside = contained
		s.mirror.SetJSON(mirrorInsideKey(truckID, st.record.ID), contained)

		eventType := models.GeofenceExited
		if contained {
			eventType = models.GeofenceEntered
		}
		events = append(events, models.GeofenceEvent{
			ID:        uuid.New().String(),
			EventType: eventType,
			Fence:     st.record,
			TruckID:   truckID,
			Plate:     plate,
			Position:  &models.LatLng{Lat: p.Lat, Lng: p.Lng},
			Timestamp: at,
		})
	}
	s.mu.Unlock()

	for _, ev := range events {
		s.Dispatch(ev)
	}
	return events
}

// Dispatch sends one event to the notifier, logging and swallowing failures
func (s *GeofenceService) Dispatch(event models.GeofenceEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(event); err != nil {
		log.Printf("geofence event %s for truck %d not delivered: %v", event.EventType, event.TruckID, err)
	}
}

func (s *GeofenceService) writeMirror(truckID uint, states []*fenceState) {
	records := make([]models.FenceRecord, len(states))
	for i, st := range states {
		records[i] = st.record
	}
	s.mirror.SetJSON(mirrorFencesKey(truckID), records)
}
