// File: /jobs/position_poll_job.go
package jobs

import (
	"log"
	"time"

	"fleettrack-api/clients"
	"fleettrack-api/services"
)

// PositionPollJob polls the GPS provider on a fixed interval and feeds the
// telemetry pipeline. A failed or slow cycle is skipped silently and the
// next tick tries again; work runs synchronously in the loop so a slow
// response never overlaps the next request.
type PositionPollJob struct {
	gps       *clients.GPSClient
	telemetry *services.TelemetryService
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
}

func NewPositionPollJob(gps *clients.GPSClient, telemetry *services.TelemetryService, interval time.Duration) *PositionPollJob {
	return &PositionPollJob{
		gps:       gps,
		telemetry: telemetry,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start begins polling. Runs one cycle immediately, then on schedule.
func (j *PositionPollJob) Start() {
	log.Printf("Position poll job started (interval %s)", j.interval)
	j.ticker = time.NewTicker(j.interval)

	go func() {
		j.poll()
		for {
			select {
			case <-j.ticker.C:
				j.poll()
			case <-j.done:
				log.Println("Position poll job stopped")
				return
			}
		}
	}()
}

// Stop cancels the job
func (j *PositionPollJob) Stop() {
	j.ticker.Stop()
	close(j.done)
}

func (j *PositionPollJob) poll() {
	objects, err := j.gps.FetchObjects()
	if err != nil {
		// drop this cycle, retry at the next tick
		log.Printf("Position poll cycle skipped: %v", err)
		return
	}
	j.telemetry.ProcessObjects(objects)
}
