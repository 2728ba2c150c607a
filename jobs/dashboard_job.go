// File: /jobs/dashboard_job.go
package jobs

import (
	"log"
	"time"

	"fleettrack-api/services"
)

// DashboardJob refreshes the KPI snapshot the dashboard polls for
type DashboardJob struct {
	dashboard *services.DashboardService
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
}

func NewDashboardJob(dashboard *services.DashboardService, interval time.Duration) *DashboardJob {
	return &DashboardJob{
		dashboard: dashboard,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *DashboardJob) Start() {
	log.Printf("Dashboard refresh job started (interval %s)", j.interval)
	j.ticker = time.NewTicker(j.interval)

	go func() {
		if err := j.dashboard.Refresh(); err != nil {
			log.Printf("Dashboard refresh failed: %v", err)
		}
		for {
			select {
			case <-j.ticker.C:
				if err := j.dashboard.Refresh(); err != nil {
					log.Printf("Dashboard refresh skipped: %v", err)
				}
			case <-j.done:
				log.Println("Dashboard refresh job stopped")
				return
			}
		}
	}()
}

func (j *DashboardJob) Stop() {
	j.ticker.Stop()
	close(j.done)
}
