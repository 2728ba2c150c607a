// File: /jobs/route_poll_job.go
package jobs

import (
	"log"
	"time"

	"fleettrack-api/repositories"
	"fleettrack-api/services"
)

// RoutePollJob re-fetches the authoritative route for every trip with a live
// animator and reconciles it: replace when the server route shrank, append
// the new suffix when it grew, resume playback in live mode.
type RoutePollJob struct {
	tripRepo  *repositories.TripRepository
	animators *services.AnimatorService
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
}

func NewRoutePollJob(tripRepo *repositories.TripRepository, animators *services.AnimatorService, interval time.Duration) *RoutePollJob {
	return &RoutePollJob{
		tripRepo:  tripRepo,
		animators: animators,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *RoutePollJob) Start() {
	log.Printf("Route poll job started (interval %s)", j.interval)
	j.ticker = time.NewTicker(j.interval)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.reconcileAll()
			case <-j.done:
				log.Println("Route poll job stopped")
				return
			}
		}
	}()
}

func (j *RoutePollJob) Stop() {
	j.ticker.Stop()
	close(j.done)
}

func (j *RoutePollJob) reconcileAll() {
	now := time.Now()
	for _, tripID := range j.animators.Active() {
		animator := j.animators.Lookup(tripID)
		if animator == nil {
			continue
		}
		trip, err := j.tripRepo.GetByID(tripID)
		if err != nil {
			// skipped this cycle, next tick retries
			continue
		}
		if animator.Reconcile(trip.Route, now) {
			log.Printf("Route for trip %d reconciled (%d points)", tripID, len(animator.Route()))
		}
	}
}
