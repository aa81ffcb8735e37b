package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const userNotFound = "User not found"

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.ListPlayers()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	RespondWithJSON(w, http.StatusOK, players)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	player, err := s.store.GetPlayerByUsername(chi.URLParam(r, "username"))
	if err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}
	RespondWithJSON(w, http.StatusOK, player)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}
	if strings.TrimSpace(payload.Username) == "" {
		RespondWithError(w, http.StatusBadRequest, "Username is required")
		return
	}

	result, err := s.service().Tracker().FetchProfile(r.Context(), payload.Username)
	if err != nil {
		RespondWithServiceError(w, err, "")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	RespondWithJSON(w, status, result)
}

func (s *Server) handleRefreshAllUsers(w http.ResponseWriter, r *http.Request) {
	report := s.service().RefreshAll(r.Context())
	RespondWithJSON(w, http.StatusOK, report)
}

func (s *Server) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(chi.URLParam(r, "username"))
	if err := s.store.DeletePlayerByUsername(username); err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User '%s' removed.", username),
	})
}

// handleGetLiveGames runs a fresh live games check for a stored player
// without touching the stored playing flag.
func (s *Server) handleGetLiveGames(w http.ResponseWriter, r *http.Request) {
	player, err := s.store.GetPlayerByUsername(chi.URLParam(r, "username"))
	if err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}

	result, err := s.service().Tracker().FetchLiveGames(r.Context(), player.Username)
	if err != nil {
		RespondWithServiceError(w, err, "")
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}
