// File: /services/route_service.go
package services

import (
	"math"
	"sort"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
)

// Route points closer than this in both axes are GPS jitter duplicates,
// roughly one meter.
const jitterEpsilonDegrees = 1e-5

// Segment playback duration bounds for the distance-proportional fallback
const (
	MinSegmentDuration = 400 * time.Millisecond
	MaxSegmentDuration = 8 * time.Second
)

// fallbackMsPerMeter scales distance to playback time when timestamps are
// missing or non-monotonic
const fallbackMsPerMeter = 10.0

// RouteSegment is a directed edge between two consecutive route points with
// a precomputed distance and playback duration
type RouteSegment struct {
	From     geo.Point     `json:"from"`
	To       geo.Point     `json:"to"`
	Distance float64       `json:"distance"` // meters
	Duration time.Duration `json:"duration"`
}

// parseRouteTimestamp parses a route point timestamp; zone-less values are
// treated as UTC. ok is false for absent or unparseable values.
func parseRouteTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := models.ParseProviderTime(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeRoute cleans a raw route for animation: drops points with
// non-finite coordinates, sorts by timestamp ascending with original
// ingestion order as a stable tiebreak (timestamp-less points keep their
// relative order after timestamped ones), and drops consecutive points
// within the jitter epsilon of each other.
func NormalizeRoute(raw []models.RoutePoint) []models.RoutePoint {
	type indexed struct {
		point models.RoutePoint
		ts    time.Time
		hasTS bool
		order int
	}

	cleaned := make([]indexed, 0, len(raw))
	for i, p := range raw {
		pt := geo.Point{Lat: p.Lat, Lng: p.Lng}
		if !pt.IsFinite() {
			continue
		}
		if p.Lat == 0 && p.Lng == 0 {
			continue
		}
		ts, ok := parseRouteTimestamp(p.Timestamp)
		cleaned = append(cleaned, indexed{point: p, ts: ts, hasTS: ok, order: i})
	}

	sort.SliceStable(cleaned, func(a, b int) bool {
		pa, pb := cleaned[a], cleaned[b]
		if pa.hasTS != pb.hasTS {
			return pa.hasTS // timestamped points sort first
		}
		if pa.hasTS && !pa.ts.Equal(pb.ts) {
			return pa.ts.Before(pb.ts)
		}
		return pa.order < pb.order
	})

	deduped := make([]models.RoutePoint, 0, len(cleaned))
	for _, c := range cleaned {
		if n := len(deduped); n > 0 {
			last := deduped[n-1]
			if math.Abs(c.point.Lat-last.Lat) < jitterEpsilonDegrees &&
				math.Abs(c.point.Lng-last.Lng) < jitterEpsilonDegrees {
				continue
			}
		}
		deduped = append(deduped, c.point)
	}
	return deduped
}

// clampDuration bounds a fallback duration to avoid degenerate instantaneous
// or near-frozen playback
func clampDuration(d time.Duration) time.Duration {
	if d < MinSegmentDuration {
		return MinSegmentDuration
	}
	if d > MaxSegmentDuration {
		return MaxSegmentDuration
	}
	return d
}

// BuildSegments turns a normalized route into playback segments. Duration is
// the timestamp delta between endpoints; when that is zero, negative, or
// unavailable, a clamped distance-proportional estimate is used instead.
func BuildSegments(route []models.RoutePoint) []RouteSegment {
	if len(route) < 2 {
		return nil
	}

	segments := make([]RouteSegment, 0, len(route)-1)
	for i := 1; i < len(route); i++ {
		from, to := route[i-1], route[i]
		dist := geo.HaversineDistance(from.Lat, from.Lng, to.Lat, to.Lng)

		var dur time.Duration
		tsFrom, okFrom := parseRouteTimestamp(from.Timestamp)
		tsTo, okTo := parseRouteTimestamp(to.Timestamp)
		if okFrom && okTo && tsTo.After(tsFrom) {
			dur = tsTo.Sub(tsFrom)
		} else {
			dur = clampDuration(time.Duration(dist*fallbackMsPerMeter) * time.Millisecond)
		}

		segments = append(segments, RouteSegment{
			From:     geo.Point{Lat: from.Lat, Lng: from.Lng},
			To:       geo.Point{Lat: to.Lat, Lng: to.Lng},
			Distance: dist,
			Duration: dur,
		})
	}
	return segments
}

// ReconcileRoute merges the authoritative server route into the local one:
//   - server shorter: the route was corrected, replace wholesale
//   - server longer: only the new suffix is appended
//   - equal length: replace when the final point moved, otherwise keep local
//
// Returns the merged route and whether anything changed.
func ReconcileRoute(local, server []models.RoutePoint) ([]models.RoutePoint, bool) {
	switch {
	case len(server) < len(local):
		return server, true
	case len(server) > len(local):
		merged := make([]models.RoutePoint, 0, len(server))
		merged = append(merged, local...)
		merged = append(merged, server[len(local):]...)
		return merged, true
	case len(server) == 0:
		return local, false
	default:
		lastLocal := local[len(local)-1]
		lastServer := server[len(server)-1]
		if lastLocal.Lat != lastServer.Lat || lastLocal.Lng != lastServer.Lng {
			return server, true
		}
		return local, false
	}
}
