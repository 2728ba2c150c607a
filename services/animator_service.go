// File: /services/animator_service.go
package services

import (
	"sync"
	"time"

	"fleettrack-api/geo"
	"fleettrack-api/models"
)

// RouteAnimator moves a marker along a trip's historical route by linear
// interpolation across time-weighted segments. Unlike the live tracker it is
// driven by recorded data; a periodic re-poll reconciles the route against
// the server as new points arrive.
type RouteAnimator struct {
	mu sync.Mutex

	route    []models.RoutePoint
	segments []RouteSegment
	segIx    int
	segStart time.Time

	playing  bool
	liveMode bool

	position geo.Point
	bearing  float64
}

// NewRouteAnimator builds an animator over a raw route. The route is
// normalized and segmented up front.
func NewRouteAnimator(raw []models.RoutePoint, liveMode bool) *RouteAnimator {
	route := NormalizeRoute(raw)
	a := &RouteAnimator{
		route:    route,
		segments: BuildSegments(route),
		liveMode: liveMode,
	}
	if len(route) > 0 {
		a.position = geo.Point{Lat: route[0].Lat, Lng: route[0].Lng}
	}
	return a
}

// Route returns the current normalized route
func (a *RouteAnimator) Route() []models.RoutePoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.RoutePoint, len(a.route))
	copy(out, a.route)
	return out
}

// Playing reports whether the animation is running
func (a *RouteAnimator) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Play starts (or restarts) the animation from the current segment
func (a *RouteAnimator) Play(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.segments) == 0 || a.playing {
		return false
	}
	if a.segIx >= len(a.segments) {
		a.segIx = 0
	}
	a.playing = true
	a.segStart = now
	return true
}

// Stop halts the animation in place
func (a *RouteAnimator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = false
}

// Tick advances the animation to the given instant and returns the
// interpolated marker position and bearing. The animation self-terminates
// when the final segment completes.
func (a *RouteAnimator) Tick(now time.Time) (geo.Point, float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.playing || a.segIx >= len(a.segments) {
		return a.position, a.bearing, a.playing
	}

	for {
		seg := a.segments[a.segIx]
		elapsed := now.Sub(a.segStart)
		fraction := float64(elapsed) / float64(seg.Duration)

		a.bearing = geo.Bearing(seg.From.Lat, seg.From.Lng, seg.To.Lat, seg.To.Lng)

		if fraction < 1 {
			a.position = geo.Interpolate(seg.From, seg.To, fraction)
			return a.position, a.bearing, true
		}

		// segment complete; carry the overshoot into the next one
		a.position = seg.To
		a.segStart = a.segStart.Add(seg.Duration)
		a.segIx++
		if a.segIx >= len(a.segments) {
			a.playing = false
			return a.position, a.bearing, false
		}
	}
}

// Reconcile merges the authoritative server route. When live mode is on and
// playback had already finished, the animation resumes from near the end so
// the marker keeps chasing incoming points.
func (a *RouteAnimator) Reconcile(server []models.RoutePoint, now time.Time) bool {
	normalized := NormalizeRoute(server)

	a.mu.Lock()
	defer a.mu.Unlock()

	merged, changed := ReconcileRoute(a.route, normalized)
	if !changed {
		return false
	}

	grew := len(merged) > len(a.route)
	a.route = merged
	a.segments = BuildSegments(merged)
	if a.segIx > len(a.segments) {
		a.segIx = len(a.segments)
	}

	if a.liveMode && !a.playing && grew && len(a.segments) > 0 {
		a.segIx = len(a.segments) - 1
		a.segStart = now
		a.playing = true
	}
	return true
}

// AnimatorService hands out one animator per trip
type AnimatorService struct {
	mu        sync.Mutex
	animators map[uint]*RouteAnimator
}

func NewAnimatorService() *AnimatorService {
	return &AnimatorService{
		animators: make(map[uint]*RouteAnimator),
	}
}

// Animator returns the animator for a trip, creating one from the given raw
// route on first use
func (s *AnimatorService) Animator(tripID uint, raw []models.RoutePoint, liveMode bool) *RouteAnimator {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.animators[tripID]
	if !ok {
		a = NewRouteAnimator(raw, liveMode)
		s.animators[tripID] = a
	}
	return a
}

// Lookup returns the animator for a trip without creating one
func (s *AnimatorService) Lookup(tripID uint) *RouteAnimator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animators[tripID]
}

// Active returns the trip ids with a live animator, for the re-poll job
func (s *AnimatorService) Active() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.animators))
	for id := range s.animators {
		ids = append(ids, id)
	}
	return ids
}
