package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/chesscom-helper/internal/models"
	"github.com/vrsandeep/chesscom-helper/internal/store"
	"github.com/vrsandeep/chesscom-helper/internal/testutil"
)

func TestRunPrintsSummary(t *testing.T) {
	app, api, _ := testutil.SetupTestApp(t)
	st := store.New(app.DB())
	for i, name := range []string{"alice", "bob"} {
		_, err := st.UpsertPlayer(&models.Player{PlayerID: int64(i + 1), Username: name})
		require.NoError(t, err)
	}
	api.SetLiveGame("alice")
	api.Fail("bob", http.StatusBadGateway)
	_, _, err := st.Subscribe("fan@example.com", 1)
	require.NoError(t, err)

	t.Run("Quiet mode hides the error list", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), app, false, &out))

		assert.Contains(t, out.String(), "- Users checked: 2")
		assert.Contains(t, out.String(), "- Notifications sent: 1")
		assert.Contains(t, out.String(), "- Errors: 1")
		assert.NotContains(t, out.String(), "Errors encountered")
	})

	t.Run("Verbose mode lists errors", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), app, true, &out))

		assert.Contains(t, out.String(), "- Notifications sent: 0")
		assert.Contains(t, out.String(), "Errors encountered:")
		assert.Contains(t, out.String(), "Error fetching games for bob")
	})
}
