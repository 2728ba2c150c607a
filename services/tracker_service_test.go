// File: /services/tracker_service_test.go
package services

import (
	"testing"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
)

func TestTrackerIngestMarker(t *testing.T) {
	tracker := NewTruckTracker(1, "B-FT 1234", 10)

	if tracker.Marker() != nil {
		t.Fatal("marker must be nil before the first sample")
	}

	tracker.Ingest(models.PositionSample{
		Latitude: 52.5, Longitude: 13.4,
		Speed: 1.5, Angle: 45,
		Engine: "ON", Location: "Depot",
		Timestamp: time.Now(),
	})

	m := tracker.Marker()
	if m == nil {
		t.Fatal("marker missing after ingest")
	}
	if m.Moving {
		t.Error("1.5 km/h is below the moving threshold")
	}
	if m.Angle != 45 {
		t.Errorf("marker angle = %d, want 45", m.Angle)
	}
	if m.Bucket != BucketQuiet {
		t.Errorf("marker bucket = %v, want quiet", m.Bucket)
	}

	tracker.Ingest(models.PositionSample{
		Latitude: 52.501, Longitude: 13.4,
		Speed: 2.1, Timestamp: time.Now(),
	})
	if m = tracker.Marker(); !m.Moving {
		t.Error("2.1 km/h is above the moving threshold")
	}
}

func TestTrackerFollowMode(t *testing.T) {
	tracker := NewTruckTracker(1, "B-FT 1234", 10)
	tracker.Ingest(models.PositionSample{Latitude: 52.5, Longitude: 13.4, Timestamp: time.Now()})

	tracker.SetFollow(true)
	if got := tracker.MapCenter(); got.Lat != 52.5 || got.Lng != 13.4 {
		t.Errorf("enabling follow must recenter on the marker, got %+v", got)
	}

	// new samples recenter while following
	tracker.Ingest(models.PositionSample{Latitude: 52.6, Longitude: 13.5, Timestamp: time.Now()})
	if got := tracker.MapCenter(); got.Lat != 52.6 {
		t.Errorf("follow mode did not track the marker, center %+v", got)
	}

	// a manual pan drops follow and it stays off
	tracker.ManualPan(geo.Point{Lat: 48.1, Lng: 11.6})
	if tracker.Following() {
		t.Error("manual pan must disable follow mode")
	}
	tracker.Ingest(models.PositionSample{Latitude: 52.7, Longitude: 13.6, Timestamp: time.Now()})
	if got := tracker.MapCenter(); got.Lat != 48.1 {
		t.Errorf("center moved after manual pan without follow, got %+v", got)
	}

	// only an explicit re-enable restores it
	tracker.SetFollow(true)
	if !tracker.Following() {
		t.Error("explicit SetFollow(true) must re-enable follow mode")
	}
}

func TestTrackerServiceLazyCreate(t *testing.T) {
	svc := NewTrackerService(10)

	if svc.Lookup(7) != nil {
		t.Error("Lookup must not create trackers")
	}
	tr := svc.Tracker(7, "B-FT 7")
	if tr == nil {
		t.Fatal("Tracker returned nil")
	}
	if svc.Lookup(7) != tr {
		t.Error("Tracker must be stable per truck")
	}
}
