package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vrsandeep/chesscom-helper/internal/auth"
	"github.com/vrsandeep/chesscom-helper/internal/jobs"
)

const testAdminToken = "admin-secret"

func withAdminToken(t *testing.T, env *testEnv) {
	t.Helper()
	hash, err := auth.HashToken(testAdminToken, bcrypt.MinCost)
	require.NoError(t, err)
	cfg := *env.app.Config()
	cfg.Admin.TokenHash = hash
	env.app.SetConfig(&cfg)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	t.Run("No hash configured", func(t *testing.T) {
		env := setupTestServer(t)
		rr := env.do(t, "GET", "/admin/jobs/status", nil, AdminTokenHeader, testAdminToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	env := setupTestServer(t)
	withAdminToken(t, env)

	t.Run("Missing token", func(t *testing.T) {
		rr := env.do(t, "GET", "/admin/jobs/status", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Wrong token", func(t *testing.T) {
		rr := env.do(t, "GET", "/admin/jobs/status", nil, AdminTokenHeader, "guess")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Valid token", func(t *testing.T) {
		rr := env.do(t, "GET", "/admin/jobs/status", nil, AdminTokenHeader, testAdminToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var statuses []jobs.JobStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statuses))
		require.Len(t, statuses, 2)
		assert.Equal(t, jobs.LiveMatchCheckJobID, statuses[0].ID)
		assert.Equal(t, "idle", statuses[0].Status)
	})
}

func TestHandleCheckLiveMatches(t *testing.T) {
	env := setupTestServer(t)
	withAdminToken(t, env)
	env.seedPlayer(t, 1, "magnus")
	env.api.SetLiveGame("magnus")
	_, _, err := env.server.Store().Subscribe("fan@example.com", 1)
	require.NoError(t, err)

	rr := env.do(t, "POST", "/check-live-matches", nil, AdminTokenHeader, testAdminToken)
	require.Equal(t, http.StatusAccepted, rr.Code)

	assert.Eventually(t, func() bool {
		return !env.app.JobManager().IsRunning()
	}, 5*time.Second, 20*time.Millisecond)
	assert.Len(t, env.mailer.Sent(), 1)

	player, err := env.server.Store().GetPlayerByUsername("magnus")
	require.NoError(t, err)
	assert.True(t, player.IsPlaying)
}

func TestHandleRunAdminJobUnknown(t *testing.T) {
	env := setupTestServer(t)
	withAdminToken(t, env)

	rr := env.do(t, "POST", "/admin/jobs/run", map[string]string{"job_name": "nope"}, AdminTokenHeader, testAdminToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "POST", "/admin/jobs/run", "{", AdminTokenHeader, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
