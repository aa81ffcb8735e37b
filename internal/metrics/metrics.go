package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Latency of Chess.com API calls in milliseconds
var ChessComRequest = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "chesscom_api_request_ms",
		Buckets: []float64{25, 50, 100, 150, 250, 500, 750, 1000, 2000, 5000, 10000},
	},
	[]string{"endpoint", "status"},
)

var PlayersChecked = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "live_check_players_checked_total",
	},
)

var CheckErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "live_check_errors_total",
	},
)

var StatusTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "live_check_status_transitions_total",
	},
	[]string{"to"},
)

var NotificationsSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_sent_total",
	},
	[]string{"success"},
)

var PlayersPlaying = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "players_playing",
	},
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ChessComRequest)
		prometheus.MustRegister(PlayersChecked)
		prometheus.MustRegister(CheckErrors)
		prometheus.MustRegister(StatusTransitions)
		prometheus.MustRegister(NotificationsSent)
		prometheus.MustRegister(PlayersPlaying)
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
