package api

import (
	"encoding/json"
	"net/http"

	"github.com/vrsandeep/chesscom-helper/internal/jobs"
)

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version})
}

// handleCheckLiveMatches starts the live match check in the background.
func (s *Server) handleCheckLiveMatches(w http.ResponseWriter, r *http.Request) {
	s.startJob(w, jobs.LiveMatchCheckJobID)
}

func (s *Server) handleRunAdminJob(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		JobName string `json:"job_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	s.startJob(w, payload.JobName)
}

func (s *Server) startJob(w http.ResponseWriter, jobID string) {
	err := s.app.JobManager().RunJob(jobID, s.app)
	if err != nil {
		RespondWithError(w, http.StatusConflict, err.Error()) // 409 Conflict if a job is already running
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Job '" + jobID + "' started successfully.",
	})
}

func (s *Server) handleGetAdminJobsStatus(w http.ResponseWriter, r *http.Request) {
	statuses := s.app.JobManager().GetStatus()
	RespondWithJSON(w, http.StatusOK, statuses)
}
