// File: /services/trail_test.go
package services

import (
	"testing"
	"time"

	"fleettrack-api/models"
)

func sampleAt(lat, lng, speed float64) models.PositionSample {
	return models.PositionSample{
		Plate:     "B-FT 1234",
		Latitude:  lat,
		Longitude: lng,
		Speed:     speed,
		Timestamp: time.Now(),
	}
}

func TestBucketForSpeed(t *testing.T) {
	tests := []struct {
		kph  float64
		want SpeedBucket
	}{
		{0, BucketQuiet},
		{5, BucketQuiet},
		{5.1, BucketModerate},
		{40, BucketModerate},
		{40.1, BucketFast},
		{80, BucketFast},
		{80.1, BucketCritical},
		{130, BucketCritical},
	}
	for _, tt := range tests {
		if got := BucketForSpeed(tt.kph); got != tt.want {
			t.Errorf("BucketForSpeed(%v) = %v, want %v", tt.kph, got, tt.want)
		}
	}
}

func TestTrailEviction(t *testing.T) {
	trail := NewTrail(3)
	for i := 0; i < 5; i++ {
		trail.Append(sampleAt(50+float64(i)*0.001, 10, float64(i*10)))
	}

	if trail.Len() != 3 {
		t.Fatalf("trail length = %d, want 3", trail.Len())
	}
	// oldest entries were evicted first
	if got := trail.At(0).Sample.Speed; got != 20 {
		t.Errorf("oldest retained speed = %v, want 20", got)
	}
	if got := trail.At(2).Sample.Speed; got != 40 {
		t.Errorf("newest retained speed = %v, want 40", got)
	}
}

func TestTrailAggregatesSurviveEviction(t *testing.T) {
	trail := NewTrail(2)
	trail.Append(sampleAt(50.000, 10, 30))
	trail.Append(sampleAt(50.001, 10, 90))
	trail.Append(sampleAt(50.002, 10, 10))
	trail.Append(sampleAt(50.003, 10, 10))

	// ~111m per step, three steps, none lost to eviction
	if d := trail.Distance(); d < 300 || d > 360 {
		t.Errorf("cumulative distance = %v, want ~333", d)
	}
	if trail.MaxSpeed() != 90 {
		t.Errorf("max speed = %v, want 90 even after that entry was evicted", trail.MaxSpeed())
	}
}

func TestTrailEntriesCopy(t *testing.T) {
	trail := NewTrail(10)
	trail.Append(sampleAt(50, 10, 5))

	entries := trail.Entries()
	entries[0].Sample.Speed = 999
	if trail.At(0).Sample.Speed == 999 {
		t.Error("Entries must return a copy")
	}
}
