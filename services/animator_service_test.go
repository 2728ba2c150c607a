// File: /services/animator_service_test.go
package services

import (
	"math"
	"testing"
	"time"

	"fleettrack-api/models"
)

func tsAt(base time.Time, offset time.Duration) string {
	return base.Add(offset).Format("2006-01-02 15:04:05")
}

func TestAnimatorTickInterpolates(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := NewRouteAnimator([]models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
	}, false)

	if !a.Play(base) {
		t.Fatal("Play failed")
	}

	pos, bearing, playing := a.Tick(base.Add(5 * time.Second))
	if !playing {
		t.Fatal("animation stopped mid-segment")
	}
	if math.Abs(pos.Lat-52.5) > 1e-9 {
		t.Errorf("midpoint lat = %v, want 52.5", pos.Lat)
	}
	if math.Abs(bearing-0) > 0.1 {
		t.Errorf("northbound bearing = %v, want ~0", bearing)
	}

	// reaching the end self-terminates
	pos, _, playing = a.Tick(base.Add(11 * time.Second))
	if playing {
		t.Error("animation must stop after the final segment")
	}
	if pos.Lat != 53.0 {
		t.Errorf("final position lat = %v, want 53.0", pos.Lat)
	}
}

func TestAnimatorTickCarriesOvershoot(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := NewRouteAnimator([]models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
		rp(53.0, 14.0, tsAt(base, 20*time.Second)),
	}, false)
	a.Play(base)

	// 12s in: 2s into the second segment, not 0s
	pos, bearing, playing := a.Tick(base.Add(12 * time.Second))
	if !playing {
		t.Fatal("animation stopped early")
	}
	if math.Abs(pos.Lng-13.2) > 1e-9 {
		t.Errorf("lng = %v, want 13.2", pos.Lng)
	}
	if math.Abs(bearing-90) > 1 {
		t.Errorf("eastbound bearing = %v, want ~90", bearing)
	}
}

func TestAnimatorPlayStopRestart(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := NewRouteAnimator([]models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
	}, false)

	if a.Play(base) != true {
		t.Fatal("Play failed")
	}
	if a.Play(base) {
		t.Error("Play while playing must be a no-op")
	}
	a.Stop()
	if a.Playing() {
		t.Error("Stop did not halt the animation")
	}
	if !a.Play(base) {
		t.Error("Play after Stop failed")
	}
}

func TestAnimatorEmptyRoute(t *testing.T) {
	a := NewRouteAnimator(nil, false)
	if a.Play(time.Now()) {
		t.Error("empty route must not play")
	}
	pos, _, playing := a.Tick(time.Now())
	if playing {
		t.Error("empty route reported playing")
	}
	if pos.Lat != 0 || pos.Lng != 0 {
		t.Errorf("position = %+v", pos)
	}
}

func TestAnimatorReconcileAppendsAndResumes(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	initial := []models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
	}
	a := NewRouteAnimator(initial, true)
	a.Play(base)

	// run to completion
	if _, _, playing := a.Tick(base.Add(11 * time.Second)); playing {
		t.Fatal("expected animation finished")
	}

	// the re-poll brings a longer route: live mode resumes near the end
	server := append(append([]models.RoutePoint{}, initial...),
		rp(53.0, 14.0, tsAt(base, 20*time.Second)))
	if !a.Reconcile(server, base.Add(15*time.Second)) {
		t.Fatal("Reconcile reported no change")
	}
	if !a.Playing() {
		t.Fatal("live mode must resume playback when the route grows")
	}

	pos, _, playing := a.Tick(base.Add(20 * time.Second))
	if !playing {
		t.Fatal("resumed animation stopped immediately")
	}
	if pos.Lng <= 13.0 || pos.Lng > 14.0 {
		t.Errorf("resumed position lng = %v, want progressing along the new segment", pos.Lng)
	}
}

func TestAnimatorReconcileShrinkReplaces(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := NewRouteAnimator([]models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
		rp(53.0, 14.0, tsAt(base, 20*time.Second)),
	}, false)

	server := []models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
	}
	if !a.Reconcile(server, base) {
		t.Fatal("shrinking route must register as a change")
	}
	if got := len(a.Route()); got != 2 {
		t.Errorf("route length after shrink = %d, want 2", got)
	}
}

func TestAnimatorReconcileNoChangeWhilePaused(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	route := []models.RoutePoint{
		rp(52.0, 13.0, tsAt(base, 0)),
		rp(53.0, 13.0, tsAt(base, 10*time.Second)),
	}
	a := NewRouteAnimator(route, true)

	if a.Reconcile(route, base) {
		t.Error("identical route reported as a change")
	}
	if a.Playing() {
		t.Error("no-op reconcile must not start playback")
	}
}

func TestAnimatorServicePerTrip(t *testing.T) {
	svc := NewAnimatorService()
	if svc.Lookup(1) != nil {
		t.Error("Lookup must not create animators")
	}

	a := svc.Animator(1, nil, false)
	if svc.Animator(1, nil, false) != a {
		t.Error("animator must be stable per trip")
	}

	ids := svc.Active()
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("active ids = %v", ids)
	}
}
