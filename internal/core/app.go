package core

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/vrsandeep/chesscom-helper/internal/assets"
	"github.com/vrsandeep/chesscom-helper/internal/chesscom"
	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/db"
	"github.com/vrsandeep/chesscom-helper/internal/jobs"
	"github.com/vrsandeep/chesscom-helper/internal/notify"
	"github.com/vrsandeep/chesscom-helper/internal/websocket"
)

// App holds the core components of the application that are shared
// between the server and the CLIs.
type App struct {
	mu         sync.RWMutex
	config     *config.Config
	db         *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	chessCom   *chesscom.Client
	mailer     notify.Mailer
	Version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app := NewApp(cfg, database)
	log.Println("Core application setup complete.")
	return app, nil
}

// NewApp wires an App around an already migrated database.
func NewApp(cfg *config.Config, database *sql.DB) *App {
	app := &App{
		config:   cfg,
		db:       database,
		wsHub:    websocket.NewHub(),
		chessCom: chesscom.New(cfg.ChessCom),
		mailer:   notify.NewSMTPMailer(cfg.Mail),
		Version:  "dev",
	}
	go app.wsHub.Run()
	app.jobManager = jobs.NewManager(app)
	return app
}

func (a *App) DB() *sql.DB { return a.db }

func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// SetConfig swaps in a reloaded configuration. The Chess.com client and the
// mailer are rebuilt from it; services built afterwards pick up the change.
func (a *App) SetConfig(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = cfg
	a.chessCom = chesscom.New(cfg.ChessCom)
	if _, ok := a.mailer.(*notify.SMTPMailer); ok {
		a.mailer = notify.NewSMTPMailer(cfg.Mail)
	}
}

func (a *App) WsHub() *websocket.Hub { return a.wsHub }

func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

func (a *App) ChessCom() *chesscom.Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.chessCom
}

func (a *App) Mailer() notify.Mailer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mailer
}

// SetMailer replaces the mail transport, e.g. with a fake in tests.
func (a *App) SetMailer(m notify.Mailer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mailer = m
}

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
