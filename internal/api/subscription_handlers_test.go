package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/chesscom-helper/internal/models"
)

func TestHandleSubscribe(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")

	t.Run("Created", func(t *testing.T) {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"email": "Fan@Example.com", "username": "Magnus"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var body struct {
			Message      string                   `json:"message"`
			Subscription models.EmailSubscription `json:"subscription"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "fan@example.com", body.Subscription.Email)
		assert.True(t, body.Subscription.IsActive)
	})

	t.Run("Already subscribed", func(t *testing.T) {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"email": "fan@example.com", "username": "magnus"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "already subscribed")

		var count int
		require.NoError(t, env.app.DB().QueryRow("SELECT COUNT(*) FROM email_subscriptions").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("Reactivated", func(t *testing.T) {
		rr := env.do(t, "POST", "/unsubscribe", map[string]string{"email": "fan@example.com", "username": "magnus"})
		require.Equal(t, http.StatusOK, rr.Code)

		rr = env.do(t, "POST", "/subscribe", map[string]string{"email": "fan@example.com", "username": "magnus"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "reactivated")
	})

	t.Run("Missing fields", func(t *testing.T) {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"username": "magnus"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Email and username are required", decodeError(t, rr))
	})

	t.Run("Invalid email", func(t *testing.T) {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"email": "not-an-email", "username": "magnus"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid email address", decodeError(t, rr))
	})

	t.Run("Unknown player", func(t *testing.T) {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"email": "fan@example.com", "username": "nobody"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeError(t, rr))
	})
}

func TestHandleUnsubscribe(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")

	rr := env.do(t, "POST", "/unsubscribe", map[string]string{"email": "fan@example.com", "username": "magnus"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Subscription not found", decodeError(t, rr))

	rr = env.do(t, "POST", "/unsubscribe", map[string]string{"email": "fan@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/unsubscribe", map[string]string{"email": "fan@example.com", "username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleListSubscriptions(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")

	for _, email := range []string{"a@example.com", "b@example.com"} {
		rr := env.do(t, "POST", "/subscribe", map[string]string{"email": email, "username": "magnus"})
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := env.do(t, "POST", "/unsubscribe", map[string]string{"email": "b@example.com", "username": "magnus"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "GET", "/subscriptions/Magnus", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var subs []models.EmailSubscription
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "a@example.com", subs[0].Email)
	assert.Equal(t, "magnus", subs[0].Username)

	rr = env.do(t, "GET", "/subscriptions/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
