// Package tracker fetches player data from Chess.com and keeps the stored
// players and their playing flag up to date.
package tracker

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vrsandeep/chesscom-helper/internal/chesscom"
	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/models"
	"github.com/vrsandeep/chesscom-helper/internal/store"
)

// EventPlayerStatus is the websocket event sent when a player's playing flag flips.
const EventPlayerStatus = "player_status"

// Publisher receives status change events. *websocket.Hub implements it.
type Publisher interface {
	BroadcastJSON(eventType string, data interface{})
}

// Service holds the dependencies for fetching and updating players.
type Service struct {
	client    *chesscom.Client
	st        *store.Store
	publisher Publisher
}

// NewService creates a new tracker service. publisher may be nil.
func NewService(client *chesscom.Client, st *store.Store, publisher Publisher) *Service {
	return &Service{client: client, st: st, publisher: publisher}
}

// FetchProfile fetches a player's profile and upserts it keyed by the
// Chess.com player id. Upstream failures come back as *models.UpstreamError
// with Status 500.
func (s *Service) FetchProfile(ctx context.Context, username string) (*models.ProfileResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	profile, err := s.client.GetProfile(ctx, username)
	if err != nil {
		return nil, &models.UpstreamError{
			Message: fmt.Sprintf("Error fetching player data: %v", err),
			Status:  500,
			Cause:   err,
		}
	}
	if profile.PlayerID == 0 || profile.Username == "" {
		return nil, &models.UpstreamError{
			Message: "Error fetching player data: response has no player_id or username",
			Status:  500,
		}
	}

	player := playerFromProfile(profile)
	created, err := s.st.UpsertPlayer(player)
	if err != nil {
		return nil, fmt.Errorf("failed to save player %s: %w", username, err)
	}

	message := fmt.Sprintf("User '%s' updated.", username)
	if created {
		message = fmt.Sprintf("New user '%s' added.", username)
	}
	log.Println(message)
	return &models.ProfileResult{Message: message, Player: player, Created: created}, nil
}

// playerFromProfile maps the API profile onto the stored model. Absent
// optional fields keep their zero values: 0 followers, false flags and an
// empty platform list.
func playerFromProfile(p *chesscom.Profile) *models.Player {
	platforms := models.StreamingPlatforms{}
	platforms = append(platforms, p.StreamingPlatforms...)
	return &models.Player{
		PlayerID:           p.PlayerID,
		URL:                p.URL,
		Name:               p.Name,
		Username:           strings.ToLower(p.Username),
		Followers:          p.Followers,
		Country:            p.Country,
		Location:           p.Location,
		LastOnline:         p.LastOnline,
		Joined:             p.Joined,
		Status:             p.Status,
		IsStreamer:         p.IsStreamer,
		Verified:           p.Verified,
		League:             p.League,
		StreamingPlatforms: platforms,
	}
}

// FetchLiveGames checks whether a player has live games. A game counts as
// live only when both move_by and turn are present; TotalGames counts every
// game the API returned.
func (s *Service) FetchLiveGames(ctx context.Context, username string) (*models.LiveGamesResult, error) {
	resp, err := s.client.GetGamesToMove(ctx, username)
	if err != nil {
		return nil, &models.UpstreamError{
			Message: fmt.Sprintf("Error fetching games for %s: %v", username, err),
			Status:  500,
			Cause:   err,
		}
	}

	liveGames := []models.LiveGame{}
	for _, game := range resp.Games {
		if !game.IsLive() {
			continue
		}
		liveGames = append(liveGames, models.LiveGame{
			URL:         game.URL,
			Turn:        game.Turn,
			MoveBy:      game.MoveBy,
			TimeControl: game.TimeControl,
		})
	}

	return &models.LiveGamesResult{
		Username:   username,
		IsPlaying:  len(liveGames) > 0,
		LiveGames:  liveGames,
		TotalGames: len(resp.Games),
	}, nil
}

// UpdateStatus refreshes the stored playing flag of a player. The flag is
// written even when unchanged. Nothing is written when the live check fails.
func (s *Service) UpdateStatus(ctx context.Context, username string) (*models.StatusUpdate, error) {
	player, err := s.st.GetPlayerByUsername(username)
	if err != nil {
		return nil, err
	}

	games, err := s.FetchLiveGames(ctx, player.Username)
	if err != nil {
		return nil, err
	}

	wasPlaying := player.IsPlaying
	isNowPlaying := games.IsPlaying
	if err := s.st.SetPlayerPlaying(player.PlayerID, isNowPlaying); err != nil {
		return nil, fmt.Errorf("failed to save playing status for %s: %w", player.Username, err)
	}

	update := &models.StatusUpdate{
		Username:      username,
		WasPlaying:    wasPlaying,
		IsNowPlaying:  isNowPlaying,
		StatusChanged: wasPlaying != isNowPlaying,
		LiveGames:     games.LiveGames,
	}

	if update.StatusChanged {
		to := "not_playing"
		if isNowPlaying {
			to = "playing"
		}
		metrics.StatusTransitions.WithLabelValues(to).Inc()
		if s.publisher != nil {
			s.publisher.BroadcastJSON(EventPlayerStatus, update)
		}
	}
	return update, nil
}
