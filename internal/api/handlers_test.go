package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/livecheck"
	"github.com/vrsandeep/chesscom-helper/internal/models"
	"github.com/vrsandeep/chesscom-helper/internal/testutil"
)

type testEnv struct {
	app    *core.App
	server *Server
	router http.Handler
	api    *testutil.FakeChessCom
	mailer *testutil.FakeMailer
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	app, api, mailer := testutil.SetupTestApp(t)
	livecheck.RegisterJobs(app)
	server := NewServer(app)
	return &testEnv{app: app, server: server, router: server.Router(), api: api, mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedPlayer(t *testing.T, id int64, username string) {
	t.Helper()
	_, err := e.server.Store().UpsertPlayer(&models.Player{PlayerID: id, Username: username})
	require.NoError(t, err)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestHandleGetUser(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")

	t.Run("Found, case-insensitive", func(t *testing.T) {
		rr := env.do(t, "GET", "/user/Magnus", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var player models.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
		assert.Equal(t, int64(1), player.PlayerID)
		assert.Equal(t, "magnus", player.Username)
	})

	t.Run("Not found", func(t *testing.T) {
		rr := env.do(t, "GET", "/user/nobody", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", decodeError(t, rr))
	})
}

func TestHandleListUsers(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, "GET", "/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	env.seedPlayer(t, 2, "hikaru")
	env.seedPlayer(t, 1, "anna")

	rr = env.do(t, "GET", "/users", nil)
	var players []models.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 2)
	assert.Equal(t, "anna", players[0].Username)
}

func TestHandleAddUser(t *testing.T) {
	env := setupTestServer(t)
	env.api.SetPlayer("magnus", 3889224)

	t.Run("Created", func(t *testing.T) {
		rr := env.do(t, "POST", "/add-user", map[string]string{"username": "Magnus"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var body struct {
			Message string         `json:"message"`
			User    *models.Player `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "New user 'magnus' added.", body.Message)
		require.NotNil(t, body.User)
		assert.Equal(t, int64(3889224), body.User.PlayerID)
	})

	t.Run("Updated", func(t *testing.T) {
		rr := env.do(t, "POST", "/add-user", map[string]string{"username": "magnus"})
		assert.Equal(t, http.StatusOK, rr.Code)

		count, err := env.server.Store().CountPlayers()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Missing username", func(t *testing.T) {
		rr := env.do(t, "POST", "/add-user", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Username is required", decodeError(t, rr))
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		rr := env.do(t, "POST", "/add-user", "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid JSON input", decodeError(t, rr))
	})

	t.Run("Upstream failure", func(t *testing.T) {
		env.api.Fail("broken", http.StatusBadGateway)
		rr := env.do(t, "POST", "/add-user", map[string]string{"username": "broken"})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, decodeError(t, rr), "Error fetching player data")
	})
}

func TestHandleRefreshAllUsers(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")
	env.seedPlayer(t, 2, "ghost")
	env.api.SetPlayer("magnus", 1)

	rr := env.do(t, "POST", "/refresh-all-users", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var report livecheck.RefreshReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "ghost", report.Errors[0].Username)
}

func TestHandleRemoveUser(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")
	env.seedPlayer(t, 2, "hikaru")

	rr := env.do(t, "DELETE", "/remove-user/magnus", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "POST", "/remove-user/Hikaru", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "DELETE", "/remove-user/magnus", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", decodeError(t, rr))
}

func TestHandleGetLiveGames(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer(t, 1, "magnus")
	env.api.SetLiveGame("magnus")

	rr := env.do(t, "GET", "/user/magnus/live", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var result models.LiveGamesResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.IsPlaying)
	assert.Len(t, result.LiveGames, 1)

	// The stored flag is not touched by a read-only check.
	player, err := env.server.Store().GetPlayerByUsername("magnus")
	require.NoError(t, err)
	assert.False(t, player.IsPlaying)

	rr = env.do(t, "GET", "/user/nobody/live", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthAndLanding(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = env.do(t, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Notify Me about things")

	rr = env.do(t, "GET", "/version", nil)
	assert.JSONEq(t, `{"version":"test"}`, rr.Body.String())
}
