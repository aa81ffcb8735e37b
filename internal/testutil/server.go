// Shared test setup for anything that needs a fully wired core.App.

package testutil

import (
	"testing"

	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/core"
)

// SetupTestApp builds a core.App backed by an in-memory database, a fake
// Chess.com API and a recording mailer.
func SetupTestApp(t *testing.T) (*core.App, *FakeChessCom, *FakeMailer) {
	t.Helper()
	database := SetupTestDB(t)
	api := NewFakeChessCom(t)

	cfg := &config.Config{
		ChessCom: config.ChessComConfig{
			BaseURL:        api.URL(),
			UserAgent:      "chesscom-helper-test",
			TimeoutSeconds: 5,
		},
		Mail: config.MailConfig{From: "alerts@example.com"},
	}
	app := core.NewApp(cfg, database)
	app.Version = "test"

	mailer := NewFakeMailer()
	app.SetMailer(mailer)
	return app, api, mailer
}
