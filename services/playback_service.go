// File: /services/playback_service.go
package services

import (
	"sync"
	"time"

	"fleettrack-api/geo"
)

// PlaybackBasePeriod is the tick period at 1x speed
const PlaybackBasePeriod = 800 * time.Millisecond

type PlaybackState string

const (
	PlaybackIdle    PlaybackState = "idle"
	PlaybackPlaying PlaybackState = "playing"
)

var playbackSpeeds = []int{1, 2, 4}

// PlaybackController replays a recorded trail on a dedicated playback marker,
// one trail index per tick. It is independent of live polling: the live
// marker keeps updating while a replay runs.
type PlaybackController struct {
	mu sync.Mutex

	tracker *TruckTracker
	entries []TrailEntry
	index   int
	state   PlaybackState
	speedIx int

	ticker *time.Ticker
	done   chan struct{}
}

func NewPlaybackController(tracker *TruckTracker) *PlaybackController {
	return &PlaybackController{
		tracker: tracker,
		state:   PlaybackIdle,
	}
}

// State returns the current playback state
func (p *PlaybackController) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Speed returns the current speed multiplier
func (p *PlaybackController) Speed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return playbackSpeeds[p.speedIx]
}

// Interval is the tick period: the base period divided by the multiplier
func (p *PlaybackController) Interval() time.Duration {
	return PlaybackBasePeriod / time.Duration(p.Speed())
}

// CycleSpeed advances the multiplier through 1x -> 2x -> 4x -> 1x. A running
// replay picks up the new interval immediately.
func (p *PlaybackController) CycleSpeed() int {
	p.mu.Lock()
	p.speedIx = (p.speedIx + 1) % len(playbackSpeeds)
	speed := playbackSpeeds[p.speedIx]
	running := p.state == PlaybackPlaying
	if running && p.ticker != nil {
		p.ticker.Reset(PlaybackBasePeriod / time.Duration(speed))
	}
	p.mu.Unlock()
	return speed
}

// Play snapshots the trail and starts the replay timer. A trail with fewer
// than two points has nothing to replay and playback stays idle.
func (p *PlaybackController) Play() bool {
	p.mu.Lock()
	if p.state == PlaybackPlaying {
		p.mu.Unlock()
		return false
	}
	entries := p.tracker.TrailEntries()
	if len(entries) < 2 {
		p.mu.Unlock()
		return false
	}
	p.entries = entries
	p.index = 0
	p.state = PlaybackPlaying
	p.ticker = time.NewTicker(PlaybackBasePeriod / time.Duration(playbackSpeeds[p.speedIx]))
	p.done = make(chan struct{})
	ticker, done := p.ticker, p.done
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !p.Step() {
					return
				}
			}
		}
	}()
	return true
}

// Step advances the playback marker one trail index. Reaching the final
// index stops the replay. Returns false once no further advance is possible.
func (p *PlaybackController) Step() bool {
	p.mu.Lock()
	if p.state != PlaybackPlaying || p.index >= len(p.entries)-1 {
		p.mu.Unlock()
		return false
	}
	p.index++
	entry := p.entries[p.index]
	atEnd := p.index == len(p.entries)-1
	if atEnd {
		p.stopLocked()
	}
	follow := p.tracker.Following()
	p.mu.Unlock()

	if follow {
		// keep the playback marker in view without touching zoom
		p.tracker.followPan(geo.Point{Lat: entry.Sample.Latitude, Lng: entry.Sample.Longitude})
	}
	return true
}

// Position returns the playback marker's current trail entry, or nil when
// nothing has been replayed yet
func (p *PlaybackController) Position() *TrailEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return nil
	}
	entry := p.entries[p.index]
	return &entry
}

// Index returns the current playback index
func (p *PlaybackController) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Stop halts the replay and returns playback to idle
func (p *PlaybackController) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

func (p *PlaybackController) stopLocked() {
	if p.state != PlaybackPlaying {
		return
	}
	p.state = PlaybackIdle
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
}
