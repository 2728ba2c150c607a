// File: /services/geofence_service_test.go
package services

import (
	"errors"
	"testing"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
	"fleettrack-api/store"
)

type funcNotifier struct {
	notify func(models.GeofenceEvent) error
}

func (n *funcNotifier) Notify(event models.GeofenceEvent) error {
	return n.notify(event)
}

func circleFence(id string, lat, lng, radius float64) models.FenceRecord {
	return models.FenceRecord{
		ID:     id,
		Type:   models.FenceCircle,
		Name:   "test " + id,
		Center: &models.LatLng{Lat: lat, Lng: lng},
		Radius: radius,
	}
}

func newTestGeofenceService(notifier EventNotifier, fences ...models.FenceRecord) (*GeofenceService, *store.LocalStore) {
	mirror := store.NewLocalStore()
	svc := NewGeofenceService(nil, notifier, mirror)
	states := make([]*fenceState, len(fences))
	for i, f := range fences {
		states[i] = &fenceState{record: f}
	}
	svc.states[1] = states
	return svc, mirror
}

func TestFenceContains(t *testing.T) {
	circle := circleFence("c", 52.5, 13.4, 200)
	if !FenceContains(circle, geo.Point{Lat: 52.5005, Lng: 13.4}) {
		t.Error("point ~55m from center should be inside a 200m circle")
	}
	if FenceContains(circle, geo.Point{Lat: 52.51, Lng: 13.4}) {
		t.Error("point ~1.1km from center should be outside")
	}

	rect := models.FenceRecord{
		Type: models.FenceRect,
		SW:   &models.LatLng{Lat: 10, Lng: 20},
		NE:   &models.LatLng{Lat: 12, Lng: 24},
	}
	if !FenceContains(rect, geo.Point{Lat: 11, Lng: 22}) {
		t.Error("interior point outside rect")
	}
	if FenceContains(rect, geo.Point{Lat: 13, Lng: 22}) {
		t.Error("exterior point inside rect")
	}

	polygon := models.FenceRecord{
		Type: models.FencePolygon,
		Points: []models.LatLng{
			{Lat: 0, Lng: 0}, {Lat: 0, Lng: 4}, {Lat: 4, Lng: 4}, {Lat: 4, Lng: 0},
		},
	}
	if !FenceContains(polygon, geo.Point{Lat: 2, Lng: 2}) {
		t.Error("interior point outside polygon")
	}

	// malformed records contain nothing
	if FenceContains(models.FenceRecord{Type: models.FenceCircle}, geo.Point{}) {
		t.Error("circle without center contained a point")
	}
	if FenceContains(models.FenceRecord{Type: models.FenceType("blob")}, geo.Point{}) {
		t.Error("unknown fence type contained a point")
	}
}

func TestEvaluateFirstPassIsSilent(t *testing.T) {
	var delivered []models.GeofenceEvent
	notifier := &funcNotifier{notify: func(ev models.GeofenceEvent) error {
		delivered = append(delivered, ev)
		return nil
	}}
	svc, mirror := newTestGeofenceService(notifier, circleFence("f1", 52.5, 13.4, 200))

	// vehicle loads already inside the fence: no event, just initialization
	events := svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.5, Lng: 13.4}, time.Now())
	if len(events) != 0 || len(delivered) != 0 {
		t.Fatalf("first evaluation fired %d events", len(events))
	}

	var inside bool
	if !mirror.GetJSON("geofence_inside:1:f1", &inside) || !inside {
		t.Error("inside flag not mirrored on initialization")
	}

	// staying inside stays silent
	events = svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.5001, Lng: 13.4}, time.Now())
	if len(events) != 0 {
		t.Errorf("no flip, but %d events fired", len(events))
	}
}

func TestEvaluateEnterExitEvents(t *testing.T) {
	var delivered []models.GeofenceEvent
	notifier := &funcNotifier{notify: func(ev models.GeofenceEvent) error {
		delivered = append(delivered, ev)
		return nil
	}}
	svc, mirror := newTestGeofenceService(notifier, circleFence("f1", 52.5, 13.4, 200))

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.6, Lng: 13.4}, at) // arm outside

	events := svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.5, Lng: 13.4}, at)
	if len(events) != 1 || events[0].EventType != models.GeofenceEntered {
		t.Fatalf("expected one entered event, got %+v", events)
	}
	if events[0].Plate != "B-FT 1" || events[0].Fence.ID != "f1" {
		t.Errorf("event payload = %+v", events[0])
	}

	events = svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.6, Lng: 13.4}, at)
	if len(events) != 1 || events[0].EventType != models.GeofenceExited {
		t.Fatalf("expected one exited event, got %+v", events)
	}

	if len(delivered) != 2 {
		t.Errorf("notifier received %d events, want 2", len(delivered))
	}

	var inside bool
	if !mirror.GetJSON("geofence_inside:1:f1", &inside) || inside {
		t.Error("inside flag not mirrored after exit")
	}
}

func TestEvaluateSwallowsNotifierFailure(t *testing.T) {
	notifier := &funcNotifier{notify: func(models.GeofenceEvent) error {
		return errors.New("smtp down")
	}}
	svc, _ := newTestGeofenceService(notifier, circleFence("f1", 52.5, 13.4, 200))

	at := time.Now()
	svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.6, Lng: 13.4}, at)
	events := svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.5, Lng: 13.4}, at)
	if len(events) != 1 {
		t.Fatalf("delivery failure must not suppress the event, got %d", len(events))
	}

	// state advanced despite the failure: leaving still fires exited
	events = svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.6, Lng: 13.4}, at)
	if len(events) != 1 || events[0].EventType != models.GeofenceExited {
		t.Errorf("state not kept after failed delivery, got %+v", events)
	}
}

func TestEvaluateMultipleFences(t *testing.T) {
	svc, _ := newTestGeofenceService(nil,
		circleFence("inner", 52.5, 13.4, 200),
		circleFence("outer", 52.5, 13.4, 5000),
	)

	at := time.Now()
	svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.6, Lng: 13.4}, at) // arm both outside

	// moving to the center crosses both boundaries in one step
	events := svc.Evaluate(1, "B-FT 1", geo.Point{Lat: 52.5, Lng: 13.4}, at)
	if len(events) != 2 {
		t.Fatalf("expected 2 entered events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.EventType != models.GeofenceEntered {
			t.Errorf("event %s type = %v", ev.Fence.ID, ev.EventType)
		}
	}
}
