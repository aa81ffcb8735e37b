package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/models"
)

const playerColumns = `player_id, url, name, username, followers, country, location,
	last_online, joined, status, is_streamer, verified, league, streaming_platforms,
	is_playing, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var name, country, location, league sql.NullString
	err := row.Scan(&p.PlayerID, &p.URL, &name, &p.Username, &p.Followers, &country, &location,
		&p.LastOnline, &p.Joined, &p.Status, &p.IsStreamer, &p.Verified, &league, &p.StreamingPlatforms,
		&p.IsPlaying, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Name = name.String
	p.Country = country.String
	p.Location = location.String
	p.League = league.String
	return &p, nil
}

// UpsertPlayer inserts the player or updates the row with the same
// player_id in a single statement. The username is lower-cased and the
// stored is_playing flag is left untouched on update. It reports whether a
// new row was created.
func (s *Store) UpsertPlayer(p *models.Player) (bool, error) {
	p.Username = normalizeUsername(p.Username)
	if p.StreamingPlatforms == nil {
		p.StreamingPlatforms = models.StreamingPlatforms{}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE player_id = ?)", p.PlayerID).Scan(&exists); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO players (player_id, url, name, username, followers, country, location,
			last_online, joined, status, is_streamer, verified, league, streaming_platforms,
			is_playing, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			url = excluded.url,
			name = excluded.name,
			username = excluded.username,
			followers = excluded.followers,
			country = excluded.country,
			location = excluded.location,
			last_online = excluded.last_online,
			joined = excluded.joined,
			status = excluded.status,
			is_streamer = excluded.is_streamer,
			verified = excluded.verified,
			league = excluded.league,
			streaming_platforms = excluded.streaming_platforms,
			updated_at = excluded.updated_at;
	`
	_, err = tx.Exec(query, p.PlayerID, p.URL, nullString(p.Name), p.Username, p.Followers,
		nullString(p.Country), nullString(p.Location), p.LastOnline, p.Joined, p.Status,
		p.IsStreamer, p.Verified, nullString(p.League), p.StreamingPlatforms, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to upsert player %d: %w", p.PlayerID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return !exists, nil
}

// GetPlayerByUsername retrieves a player by username, ignoring case.
func (s *Store) GetPlayerByUsername(username string) (*models.Player, error) {
	username = normalizeUsername(username)
	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE username = ?", username)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "player", Key: username}
	}
	return p, err
}

// GetPlayerByID retrieves a player by its Chess.com id.
func (s *Store) GetPlayerByID(playerID int64) (*models.Player, error) {
	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE player_id = ?", playerID)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "player", Key: fmt.Sprint(playerID)}
	}
	return p, err
}

// ListPlayers retrieves every stored player, ordered by username.
func (s *Store) ListPlayers() ([]*models.Player, error) {
	rows, err := s.db.Query("SELECT " + playerColumns + " FROM players ORDER BY username ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountPlayers returns the number of tracked players.
func (s *Store) CountPlayers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count)
	return count, err
}

// SetPlayerPlaying stores the latest playing flag for a player.
func (s *Store) SetPlayerPlaying(playerID int64, playing bool) error {
	result, err := s.db.Exec("UPDATE players SET is_playing = ?, updated_at = ? WHERE player_id = ?",
		playing, time.Now().UTC(), playerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: "player", Key: fmt.Sprint(playerID)}
	}
	return nil
}

// DeletePlayerByUsername removes a player. Cascading deletes handle its
// subscriptions and their notification logs.
func (s *Store) DeletePlayerByUsername(username string) error {
	username = normalizeUsername(username)
	result, err := s.db.Exec("DELETE FROM players WHERE username = ?", username)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: "player", Key: username}
	}
	return nil
}
