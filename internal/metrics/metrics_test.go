package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCountersAndHandler(t *testing.T) {
	Register()

	before := testutil.ToFloat64(PlayersChecked)
	PlayersChecked.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PlayersChecked))

	NotificationsSent.WithLabelValues("true").Add(2)
	assert.GreaterOrEqual(t, testutil.ToFloat64(NotificationsSent.WithLabelValues("true")), 2.0)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "live_check_players_checked_total"))
}
