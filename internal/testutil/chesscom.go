package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeChessCom is an httptest server that mimics the player and
// games/to-move endpoints of the Chess.com API.
type FakeChessCom struct {
	server   *httptest.Server
	mu       sync.Mutex
	profiles map[string]string
	games    map[string]string
	failures map[string]int
	requests []string
}

func NewFakeChessCom(t *testing.T) *FakeChessCom {
	t.Helper()
	f := &FakeChessCom{
		profiles: make(map[string]string),
		games:    make(map[string]string),
		failures: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeChessCom) URL() string { return f.server.URL }

// SetProfile sets the raw JSON returned for /pub/player/{username}.
func (f *FakeChessCom) SetProfile(username, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[username] = body
}

// SetPlayer registers a minimal profile for username with the given id.
func (f *FakeChessCom) SetPlayer(username string, playerID int64) {
	f.SetProfile(username, fmt.Sprintf(
		`{"player_id":%d,"url":"https://www.chess.com/member/%s","username":"%s","last_online":1700000000,"joined":1500000000,"status":"basic"}`,
		playerID, username, username))
}

// SetGames sets the raw JSON returned for /pub/player/{username}/games/to-move.
func (f *FakeChessCom) SetGames(username, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[username] = body
}

// SetLiveGame makes username appear to be in one live game.
func (f *FakeChessCom) SetLiveGame(username string) {
	f.SetGames(username, fmt.Sprintf(
		`{"games":[{"url":"https://www.chess.com/game/live/%s","move_by":1700000000,"turn":"white","time_control":"180"}]}`, username))
}

// SetNoGames makes username appear idle.
func (f *FakeChessCom) SetNoGames(username string) {
	f.SetGames(username, `{"games":[]}`)
}

// Fail makes every request for username answer with status.
func (f *FakeChessCom) Fail(username string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[username] = status
}

// Requests returns the paths requested so far.
func (f *FakeChessCom) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeChessCom) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.URL.Path)

	rest := strings.TrimPrefix(r.URL.Path, "/pub/player/")
	username, suffix, _ := strings.Cut(rest, "/")

	if status, ok := f.failures[username]; ok {
		http.Error(w, `{"message":"upstream failure"}`, status)
		return
	}

	var body string
	var ok bool
	switch suffix {
	case "":
		body, ok = f.profiles[username]
	case "games/to-move":
		body, ok = f.games[username]
	}
	if !ok {
		http.Error(w, `{"code":0,"message":"not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}
