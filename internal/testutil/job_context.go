// This file contains shared test utilities for job context mocking.

package testutil

import (
	"database/sql"

	"github.com/vrsandeep/chesscom-helper/internal/config"
	"github.com/vrsandeep/chesscom-helper/internal/jobs"
	"github.com/vrsandeep/chesscom-helper/internal/websocket"
)

// MockJobContext implements jobs.JobContext without a full core.App.
type MockJobContext struct {
	Database *sql.DB
	Cfg      *config.Config
	Hub      *websocket.Hub
	Manager  *jobs.JobManager
}

func (m *MockJobContext) DB() *sql.DB                  { return m.Database }
func (m *MockJobContext) Config() *config.Config       { return m.Cfg }
func (m *MockJobContext) WsHub() *websocket.Hub        { return m.Hub }
func (m *MockJobContext) JobManager() *jobs.JobManager { return m.Manager }

// NewMockJobContext returns a context with an empty config, an unstarted
// hub and its own job manager.
func NewMockJobContext() *MockJobContext {
	ctx := &MockJobContext{Cfg: &config.Config{}, Hub: websocket.NewHub()}
	ctx.Manager = jobs.NewManager(ctx)
	return ctx
}
