// File: /services/trail.go
package services

import (
	"fleettrack-api/geo"
	"fleettrack-api/models"
)

// DefaultTrailLimit bounds the in-memory trail per truck. Oldest samples are
// evicted first once the bound is exceeded.
const DefaultTrailLimit = 720

// Speed bucket thresholds in km/h
const (
	SpeedQuietMax    = 5.0
	SpeedModerateMax = 40.0
	SpeedFastMax     = 80.0
)

type SpeedBucket string

const (
	BucketQuiet    SpeedBucket = "quiet"
	BucketModerate SpeedBucket = "moderate"
	BucketFast     SpeedBucket = "fast"
	BucketCritical SpeedBucket = "critical"
)

// BucketForSpeed classifies a speed for trail segment coloring
func BucketForSpeed(kph float64) SpeedBucket {
	switch {
	case kph <= SpeedQuietMax:
		return BucketQuiet
	case kph <= SpeedModerateMax:
		return BucketModerate
	case kph <= SpeedFastMax:
		return BucketFast
	default:
		return BucketCritical
	}
}

// TrailEntry is one retained sample plus the bucket of the segment that led
// into it
type TrailEntry struct {
	Sample models.PositionSample `json:"sample"`
	Bucket SpeedBucket           `json:"bucket"`
}

// Trail is the bounded position history for the current viewing session.
// Aggregates are maintained incrementally; eviction never reduces them.
type Trail struct {
	limit    int
	entries  []TrailEntry
	distance float64 // cumulative great-circle meters
	maxSpeed float64 // km/h
}

func NewTrail(limit int) *Trail {
	if limit <= 0 {
		limit = DefaultTrailLimit
	}
	return &Trail{
		limit:   limit,
		entries: make([]TrailEntry, 0, limit),
	}
}

// Append adds a sample, evicting the oldest entry when over the bound
func (t *Trail) Append(sample models.PositionSample) {
	if len(t.entries) > 0 {
		last := t.entries[len(t.entries)-1].Sample
		t.distance += geo.HaversineDistance(last.Latitude, last.Longitude, sample.Latitude, sample.Longitude)
	}
	if sample.Speed > t.maxSpeed {
		t.maxSpeed = sample.Speed
	}

	t.entries = append(t.entries, TrailEntry{
		Sample: sample,
		Bucket: BucketForSpeed(sample.Speed),
	})
	if len(t.entries) > t.limit {
		t.entries = t.entries[1:]
	}
}

func (t *Trail) Len() int {
	return len(t.entries)
}

// At returns the entry at index i
func (t *Trail) At(i int) TrailEntry {
	return t.entries[i]
}

// Entries returns a copy of the retained entries in order
func (t *Trail) Entries() []TrailEntry {
	out := make([]TrailEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Distance is the cumulative great-circle distance in meters over every
// sample ever appended this session
func (t *Trail) Distance() float64 {
	return t.distance
}

// MaxSpeed is the maximum observed speed in km/h this session
func (t *Trail) MaxSpeed() float64 {
	return t.maxSpeed
}
