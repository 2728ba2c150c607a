// File: /services/tracker_service.go
package services

import (
	"sync"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
)

// MovingSpeedThreshold is the speed in km/h above which the marker switches
// to its moving visual state
const MovingSpeedThreshold = 2.0

// MarkerState mirrors what the map renders for one truck: position, rotation,
// icon state, and the textual side panel fields
type MarkerState struct {
	Position  geo.Point   `json:"position"`
	Angle     int         `json:"angle"`
	Moving    bool        `json:"moving"`
	Speed     float64     `json:"speed"`
	Engine    string      `json:"engine"`
	Status    string      `json:"status"`
	Location  string      `json:"location"`
	Bucket    SpeedBucket `json:"bucket"`
	Timestamp time.Time   `json:"timestamp"`
}

// TruckTracker owns the live view state for a single truck: the current
// marker, the bounded trail, follow mode, and the map center.
type TruckTracker struct {
	mu sync.Mutex

	truckID uint
	plate   string

	marker    *MarkerState
	trail     *Trail
	follow    bool
	mapCenter geo.Point
}

func NewTruckTracker(truckID uint, plate string, trailLimit int) *TruckTracker {
	return &TruckTracker{
		truckID: truckID,
		plate:   plate,
		trail:   NewTrail(trailLimit),
	}
}

// Ingest applies one validated sample: creates or moves the marker, rotates
// it to the heading, toggles the moving state, appends a trail entry, and
// recenters the map when follow mode is on.
func (t *TruckTracker) Ingest(sample models.PositionSample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos := geo.Point{Lat: sample.Latitude, Lng: sample.Longitude}
	t.marker = &MarkerState{
		Position:  pos,
		Angle:     sample.Angle,
		Moving:    sample.Speed > MovingSpeedThreshold,
		Speed:     sample.Speed,
		Engine:    sample.Engine,
		Status:    sample.Status,
		Location:  sample.Location,
		Bucket:    BucketForSpeed(sample.Speed),
		Timestamp: sample.Timestamp,
	}
	t.trail.Append(sample)

	if t.follow {
		t.mapCenter = pos
	}
}

// Marker returns the current marker state, or nil before the first sample
func (t *TruckTracker) Marker() *MarkerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.marker == nil {
		return nil
	}
	m := *t.marker
	return &m
}

// TrailEntries returns the retained trail in order
func (t *TruckTracker) TrailEntries() []TrailEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trail.Entries()
}

// TrailStats returns cumulative distance (meters) and max speed (km/h)
func (t *TruckTracker) TrailStats() (float64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trail.Distance(), t.trail.MaxSpeed()
}

// SetFollow enables or disables follow mode. Enabling immediately recenters
// on the marker if one exists.
func (t *TruckTracker) SetFollow(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.follow = on
	if on && t.marker != nil {
		t.mapCenter = t.marker.Position
	}
}

// Following reports whether follow mode is active
func (t *TruckTracker) Following() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.follow
}

// ManualPan records a user-driven pan or zoom. Follow mode drops the instant
// the user takes over and only an explicit SetFollow(true) re-enables it.
func (t *TruckTracker) ManualPan(center geo.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.follow = false
	t.mapCenter = center
}

// followPan recenters without dropping follow mode; used by playback to keep
// the replay marker in view
func (t *TruckTracker) followPan(center geo.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mapCenter = center
}

// MapCenter returns the current map center
func (t *TruckTracker) MapCenter() geo.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mapCenter
}

// TrackerService hands out one tracker per truck, created lazily on the
// first sample or the first view
type TrackerService struct {
	mu         sync.Mutex
	trackers   map[uint]*TruckTracker
	trailLimit int
}

func NewTrackerService(trailLimit int) *TrackerService {
	return &TrackerService{
		trackers:   make(map[uint]*TruckTracker),
		trailLimit: trailLimit,
	}
}

// Tracker returns the tracker for a truck, creating it if needed
func (s *TrackerService) Tracker(truckID uint, plate string) *TruckTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.trackers[truckID]
	if !ok {
		tr = NewTruckTracker(truckID, plate, s.trailLimit)
		s.trackers[truckID] = tr
	}
	return tr
}

// Lookup returns the tracker for a truck without creating one
func (s *TrackerService) Lookup(truckID uint) *TruckTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackers[truckID]
}
