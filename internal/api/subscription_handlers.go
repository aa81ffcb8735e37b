package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/chesscom-helper/internal/models"
)

type subscriptionPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// decodeSubscriptionPayload reads and validates {email, username}.
func decodeSubscriptionPayload(r *http.Request) (*subscriptionPayload, error) {
	var payload subscriptionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, &models.ValidationError{Field: "body", Message: "Invalid JSON input"}
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))

	if payload.Email == "" || payload.Username == "" {
		return nil, &models.ValidationError{Field: "email", Message: "Email and username are required"}
	}
	if addr, err := mail.ParseAddress(payload.Email); err != nil || addr.Address != payload.Email {
		return nil, &models.ValidationError{Field: "email", Message: "Invalid email address"}
	}
	return &payload, nil
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeSubscriptionPayload(r)
	if err != nil {
		RespondWithServiceError(w, err, "")
		return
	}

	player, err := s.store.GetPlayerByUsername(payload.Username)
	if err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}

	sub, outcome, err := s.store.Subscribe(payload.Email, player.PlayerID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create subscription")
		return
	}
	sub.Username = player.Username

	status := http.StatusOK
	message := fmt.Sprintf("Subscription for %s to %s reactivated.", sub.Email, player.Username)
	switch outcome {
	case models.SubscriptionCreated:
		status = http.StatusCreated
		message = fmt.Sprintf("Subscribed %s to %s.", sub.Email, player.Username)
	case models.SubscriptionAlreadyActive:
		message = fmt.Sprintf("%s is already subscribed to %s.", sub.Email, player.Username)
	}

	RespondWithJSON(w, status, map[string]interface{}{
		"message":      message,
		"subscription": sub,
	})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeSubscriptionPayload(r)
	if err != nil {
		RespondWithServiceError(w, err, "")
		return
	}

	player, err := s.store.GetPlayerByUsername(payload.Username)
	if err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}

	if err := s.store.Unsubscribe(payload.Email, player.PlayerID); err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			RespondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to remove subscription")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Unsubscribed %s from %s.", payload.Email, player.Username),
	})
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	player, err := s.store.GetPlayerByUsername(chi.URLParam(r, "username"))
	if err != nil {
		RespondWithServiceError(w, err, userNotFound)
		return
	}

	subs, err := s.store.ListActiveSubscriptions(player.PlayerID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve subscriptions")
		return
	}
	RespondWithJSON(w, http.StatusOK, subs)
}
