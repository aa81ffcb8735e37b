// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vrsandeep/chesscom-helper/internal/models"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithServiceError maps a typed error to its HTTP status.
// notFoundMessage replaces the message of a *models.NotFoundError when set.
func RespondWithServiceError(w http.ResponseWriter, err error, notFoundMessage string) {
	var notFound *models.NotFoundError
	var validation *models.ValidationError
	var upstream *models.UpstreamError

	switch {
	case errors.As(err, &notFound):
		message := notFoundMessage
		if message == "" {
			message = notFound.Error()
		}
		RespondWithError(w, http.StatusNotFound, message)
	case errors.As(err, &validation):
		RespondWithError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &upstream):
		status := upstream.Status
		if status < 400 {
			status = http.StatusInternalServerError
		}
		RespondWithError(w, status, upstream.Message)
	default:
		log.Printf("Internal error: %v", err)
		RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
