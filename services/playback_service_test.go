// File: /services/playback_service_test.go
package services

import (
	"testing"
	"time"

	"fleettrack-api/models"
)

func trackerWithTrail(n int) *TruckTracker {
	tracker := NewTruckTracker(1, "B-FT 1234", 100)
	for i := 0; i < n; i++ {
		tracker.Ingest(models.PositionSample{
			Latitude:  52.5 + float64(i)*0.001,
			Longitude: 13.4,
			Speed:     float64(i * 10),
			Timestamp: time.Now(),
		})
	}
	return tracker
}

func TestPlaybackNeedsTwoPoints(t *testing.T) {
	pc := NewPlaybackController(trackerWithTrail(1))
	if pc.Play() {
		t.Error("a single-point trail has nothing to replay")
	}
	if pc.State() != PlaybackIdle {
		t.Errorf("state = %v, want idle", pc.State())
	}
}

func TestPlaybackStepAndAutoStop(t *testing.T) {
	pc := NewPlaybackController(trackerWithTrail(5))
	if !pc.Play() {
		t.Fatal("Play refused a 5-point trail")
	}
	defer pc.Stop()

	// one index per tick: 4 steps reach the end of a 5-point trail
	for i := 1; i <= 3; i++ {
		if !pc.Step() {
			t.Fatalf("step %d failed early", i)
		}
		if pc.Index() != i {
			t.Fatalf("index after step %d = %d", i, pc.Index())
		}
		if pc.State() != PlaybackPlaying {
			t.Fatalf("stopped early at index %d", pc.Index())
		}
	}

	if !pc.Step() {
		t.Fatal("final step failed")
	}
	if pc.Index() != 4 {
		t.Errorf("final index = %d, want 4", pc.Index())
	}
	if pc.State() != PlaybackIdle {
		t.Error("reaching the last index must auto-stop playback")
	}
	if pc.Step() {
		t.Error("no further advance after auto-stop")
	}
}

func TestPlaybackRestartAfterStop(t *testing.T) {
	pc := NewPlaybackController(trackerWithTrail(3))
	if !pc.Play() {
		t.Fatal("first Play failed")
	}
	pc.Step()
	pc.Stop()

	if !pc.Play() {
		t.Fatal("Play after Stop failed")
	}
	defer pc.Stop()
	if pc.Index() != 0 {
		t.Errorf("replay must restart from index 0, got %d", pc.Index())
	}
}

func TestPlaybackSpeedCycle(t *testing.T) {
	pc := NewPlaybackController(trackerWithTrail(3))

	if pc.Speed() != 1 {
		t.Fatalf("initial speed = %d", pc.Speed())
	}
	if got := pc.CycleSpeed(); got != 2 {
		t.Errorf("first cycle = %d, want 2", got)
	}
	if got := pc.Interval(); got != PlaybackBasePeriod/2 {
		t.Errorf("interval at 2x = %v", got)
	}
	if got := pc.CycleSpeed(); got != 4 {
		t.Errorf("second cycle = %d, want 4", got)
	}
	if got := pc.CycleSpeed(); got != 1 {
		t.Errorf("cycle must wrap back to 1, got %d", got)
	}
}

func TestPlaybackPositionTracksIndex(t *testing.T) {
	pc := NewPlaybackController(trackerWithTrail(4))
	if pc.Position() != nil {
		t.Error("no position before a snapshot exists")
	}

	pc.Play()
	defer pc.Stop()
	pc.Step()
	pos := pc.Position()
	if pos == nil {
		t.Fatal("position missing during replay")
	}
	if pos.Sample.Speed != 10 {
		t.Errorf("position sample = %+v, want index 1", pos.Sample)
	}
}
