package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/api"
	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/jobs"
	"github.com/vrsandeep/chesscom-helper/internal/livecheck"
	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/reporting"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	if ok, err := reporting.Init(app.Config().Sentry.DSN, "chesscom-helper", app.Version); err != nil {
		log.Printf("Warning: %v", err)
	} else if ok {
		log.Println("Sentry error reporting enabled.")
	}
	defer reporting.Flush()

	if app.Config().Metrics.Enabled {
		metrics.Register()
	}

	if app.Config().Admin.TokenHash == "" {
		log.Println("==================================================")
		log.Println("No admin token configured; admin routes are disabled.")
		log.Println("Run hash-admin-token and set admin.token_hash to enable them.")
		log.Println("==================================================")
	}

	// Reload settings when config.yml changes.
	config.Watch(func(cfg *config.Config) {
		app.SetConfig(cfg)
		log.Println("Configuration reloaded.")
	})

	// Register the batch jobs and start the scheduler
	livecheck.RegisterJobs(app)
	scheduler := jobs.StartJobs(app)
	defer scheduler.Stop()

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			reporting.CaptureError(err, map[string]any{"addr": httpServer.Addr})
			reporting.Flush()
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
