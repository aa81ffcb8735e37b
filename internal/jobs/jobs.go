package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Job IDs known to the scheduler.
const (
	LiveMatchCheckJobID = "live-match-check"
	RefreshPlayersJobID = "refresh-players"
)

// StartJobs starts the background job scheduler. The caller stops it with
// Stop on shutdown.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	scheduleJob(s, app, LiveMatchCheckJobID, app.Config().CheckInterval)
	scheduleJob(s, app, RefreshPlayersJobID, app.Config().RefreshInterval)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func scheduleJob(s *gocron.Scheduler, app JobContext, jobID string, interval int) {
	if interval <= 0 {
		log.Printf("Interval for '%s' is 0, scheduled runs are disabled.", jobID)
		return
	}

	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobID, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		log.Println("Scheduler is triggering job:", jobID)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		if err := app.JobManager().RunJob(jobID, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobID, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobID, err)
	}
}
