// Package livecheck runs the batch jobs over every tracked player: the live
// match check with its notifications, and the profile refresh.
package livecheck

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/vrsandeep/chesscom-helper/internal/core"
	"github.com/vrsandeep/chesscom-helper/internal/jobs"
	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/models"
	"github.com/vrsandeep/chesscom-helper/internal/notify"
	"github.com/vrsandeep/chesscom-helper/internal/store"
	"github.com/vrsandeep/chesscom-helper/internal/tracker"
)

// CheckError is one player-level failure recorded during a batch.
type CheckError struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// Report summarises one live match check.
type Report struct {
	RunID             string       `json:"run_id"`
	Message           string       `json:"message"`
	TotalUsersChecked int          `json:"total_users_checked"`
	NotificationsSent int          `json:"notifications_sent"`
	Errors            []CheckError `json:"errors"`
}

// RefreshReport summarises one profile refresh over every player.
type RefreshReport struct {
	Message string       `json:"message"`
	Updated int          `json:"updated"`
	Errors  []CheckError `json:"errors"`
}

// Service coordinates the tracker and the notifier.
type Service struct {
	st       *store.Store
	tracker  *tracker.Service
	notifier *notify.Notifier
}

// NewService builds a Service from the current application state. Status
// changes are published on the app's websocket hub.
func NewService(app *core.App) *Service {
	st := store.New(app.DB())
	return &Service{
		st:       st,
		tracker:  tracker.NewService(app.ChessCom(), st, app.WsHub()),
		notifier: notify.New(st, app.Mailer(), app.Config().Mail.From),
	}
}

// Tracker exposes the underlying tracker for single player operations.
func (s *Service) Tracker() *tracker.Service { return s.tracker }

// RunCheckAndNotify checks every stored player in turn and emails the
// subscribers of each player that just started playing. A failure for one
// player is recorded and the batch moves on. When ctx is cancelled the
// remaining players are recorded as skipped.
func (s *Service) RunCheckAndNotify(ctx context.Context) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Message: "Batch check completed",
		Errors:  []CheckError{},
	}

	players, err := s.st.ListPlayers()
	if err != nil {
		report.Errors = append(report.Errors, CheckError{Error: fmt.Sprintf("Error loading players: %v", err)})
		metrics.CheckErrors.Inc()
		log.Printf("[%s] Could not load players: %v", report.RunID, err)
		return report
	}
	log.Printf("[%s] Checking %d players for live matches", report.RunID, len(players))

	playing := 0
	for i, player := range players {
		if err := ctx.Err(); err != nil {
			for _, skipped := range players[i:] {
				report.Errors = append(report.Errors, CheckError{
					Username: skipped.Username,
					Error:    fmt.Sprintf("Skipped %s: %v", skipped.Username, err),
				})
			}
			report.Message = "Batch check cancelled"
			log.Printf("[%s] Cancelled with %d players left", report.RunID, len(players)-i)
			break
		}

		report.TotalUsersChecked++
		metrics.PlayersChecked.Inc()
		sent, nowPlaying, checkErr := s.checkPlayer(ctx, player)
		report.NotificationsSent += sent
		if nowPlaying {
			playing++
		}
		if checkErr != nil {
			report.Errors = append(report.Errors, CheckError{Username: player.Username, Error: checkErr.Error()})
			metrics.CheckErrors.Inc()
			log.Printf("[%s] %v", report.RunID, checkErr)
		}
	}
	metrics.PlayersPlaying.Set(float64(playing))

	log.Printf("[%s] Checked %d players, sent %d notifications, %d errors",
		report.RunID, report.TotalUsersChecked, report.NotificationsSent, len(report.Errors))
	return report
}

// checkPlayer processes a single player. A panic is turned into an error so
// the batch can continue.
func (s *Service) checkPlayer(ctx context.Context, player *models.Player) (sent int, nowPlaying bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Error processing %s: %v", player.Username, r)
		}
	}()

	update, err := s.tracker.UpdateStatus(ctx, player.Username)
	if err != nil {
		return 0, player.IsPlaying, err
	}
	if !update.StartedPlaying() {
		return 0, update.IsNowPlaying, nil
	}

	result, err := s.notifier.Notify(ctx, player, update.LiveGames)
	if err != nil {
		return 0, true, fmt.Errorf("Error processing %s: %w", player.Username, err)
	}
	return result.SuccessfulSends, true, nil
}

// RefreshAll re-fetches the profile of every stored player.
func (s *Service) RefreshAll(ctx context.Context) *RefreshReport {
	report := &RefreshReport{Errors: []CheckError{}}

	players, err := s.st.ListPlayers()
	if err != nil {
		report.Message = "Failed to load players"
		report.Errors = append(report.Errors, CheckError{Error: err.Error()})
		return report
	}

	for _, player := range players {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, CheckError{
				Username: player.Username,
				Error:    fmt.Sprintf("Skipped %s: %v", player.Username, err),
			})
			continue
		}
		if _, err := s.tracker.FetchProfile(ctx, player.Username); err != nil {
			report.Errors = append(report.Errors, CheckError{Username: player.Username, Error: err.Error()})
			continue
		}
		report.Updated++
	}

	report.Message = fmt.Sprintf("Refreshed %d of %d users.", report.Updated, len(players))
	log.Println(report.Message)
	return report
}

// RegisterJobs registers the batch jobs with the app's job manager. Each run
// builds a fresh Service so reloaded configuration is picked up.
func RegisterJobs(app *core.App) {
	app.JobManager().Register(jobs.LiveMatchCheckJobID, "Live Match Check", func(jobCtx jobs.JobContext) error {
		report := NewService(app).RunCheckAndNotify(context.Background())
		if len(report.Errors) > 0 && report.TotalUsersChecked > 0 && len(report.Errors) >= report.TotalUsersChecked {
			return fmt.Errorf("all %d player checks failed", report.TotalUsersChecked)
		}
		return nil
	})
	app.JobManager().Register(jobs.RefreshPlayersJobID, "Refresh Players", func(jobCtx jobs.JobContext) error {
		report := NewService(app).RefreshAll(context.Background())
		if len(report.Errors) > 0 && report.Updated == 0 {
			return fmt.Errorf("refresh failed for every player: %s", report.Errors[0].Error)
		}
		return nil
	})
}
