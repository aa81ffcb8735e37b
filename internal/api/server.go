// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vrsandeep/chesscom-helper/internal/assets"
	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/livecheck"
	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	store *store.Store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		store: store.New(app.DB()),
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// service builds the batch service from the current configuration, so a
// reloaded config takes effect on the next request.
func (s *Server) service() *livecheck.Service {
	return livecheck.NewService(s.app)
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	// Player routes
	r.Get("/users", s.handleListUsers)
	r.Get("/user/{username}", s.handleGetUser)
	r.Get("/user/{username}/live", s.handleGetLiveGames)
	r.Post("/add-user", s.handleAddUser)
	r.Post("/refresh-all-users", s.handleRefreshAllUsers)
	r.Delete("/remove-user/{username}", s.handleRemoveUser)
	r.Post("/remove-user/{username}", s.handleRemoveUser)

	// Subscription routes
	r.Post("/subscribe", s.handleSubscribe)
	r.Post("/unsubscribe", s.handleUnsubscribe)
	r.Get("/subscriptions/{username}", s.handleListSubscriptions)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(s.AdminOnlyMiddleware)

		r.Post("/check-live-matches", s.handleCheckLiveMatches)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/jobs/status", s.handleGetAdminJobsStatus)
			r.Post("/jobs/run", s.handleRunAdminJob)
		})
	})

	r.Get("/version", s.handleGetVersion)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.app.Config().Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	// WebSocket route
	r.Get("/ws/live", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	// Frontend Routes
	webSubFS, err := fs.Sub(assets.WebFS, "web")
	if err != nil {
		log.Fatalf("Failed to create web sub-filesystem: %v", err)
	}

	// This handler serves a specific HTML file from the embedded FS.
	serveHTML := func(fileName string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			file, err := webSubFS.Open(fileName)
			if err != nil {
				http.NotFound(w, r)
				log.Printf("Error serving embedded file %s: %v", fileName, err)
				return
			}
			defer file.Close()
			http.ServeContent(w, r, fileName, time.Time{}, file.(io.ReadSeeker))
		}
	}

	r.Get("/", serveHTML("index.html"))

	return r
}
