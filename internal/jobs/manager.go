package jobs

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/websocket"
)

// EventJobStatus is the websocket event sent when a job starts or finishes.
const EventJobStatus = "job_status"

// JobContext is an interface that provides the necessary dependencies for a job to run.
// The core.App struct implements this interface.
type JobContext interface {
	DB() *sql.DB
	Config() *config.Config
	WsHub() *websocket.Hub
	JobManager() *JobManager
}

type jobTask func(ctx JobContext) error

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// JobManager runs registered jobs one at a time so scheduled and manually
// triggered runs never overlap.
type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	appCtx  JobContext
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		appCtx: appCtx,
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts the job in the background. It fails when the job is unknown
// or another job is still running.
func (jm *JobManager) RunJob(id string, ctx JobContext) error {
	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return fmt.Errorf("a job is already running")
	}

	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("job '%s' not found", id)
	}

	jm.running = true
	status := jm.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.broadcast(ctx, *status)
	jm.mu.Unlock()

	log.Printf("Starting job: %s", id)
	go func() {
		var taskErr error
		defer func() {
			jm.mu.Lock()
			if r := recover(); r != nil {
				log.Printf("Job '%s' panicked: %v", id, r)
				status.Status = "failed"
				status.Message = fmt.Sprintf("Job panicked: %v", r)
			} else if taskErr != nil {
				status.Status = "failed"
				status.Message = taskErr.Error()
			} else {
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			status.EndTime = time.Now()
			jm.running = false
			jm.broadcast(ctx, *status)
			jm.mu.Unlock()
			log.Printf("Finished job: %s (%s)", id, status.Status)
		}()

		taskErr = task(ctx)
	}()
	return nil
}

// broadcast must be called with jm.mu held.
func (jm *JobManager) broadcast(ctx JobContext, status JobStatus) {
	if ctx == nil {
		return
	}
	if hub := ctx.WsHub(); hub != nil {
		hub.BroadcastJSON(EventJobStatus, status)
	}
}

// IsRunning reports whether a job is currently running.
func (jm *JobManager) IsRunning() bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	return jm.running
}

// GetStatus returns a snapshot of every registered job, ordered by ID.
func (jm *JobManager) GetStatus() []*JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]*JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		copied := *s
		statuses = append(statuses, &copied)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
