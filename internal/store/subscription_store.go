package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/models"
)

// Subscribe registers email for notifications about a player. A row for the
// same (email, player) pair is never duplicated: an inactive one is switched
// back on and an active one is returned unchanged.
func (s *Store) Subscribe(email string, playerID int64) (*models.EmailSubscription, models.SubscribeOutcome, error) {
	email = normalizeEmail(email)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var sub models.EmailSubscription
	err = tx.QueryRow(`SELECT id, email, player_id, is_active, created_at
		FROM email_subscriptions WHERE email = ? AND player_id = ?`, email, playerID).
		Scan(&sub.ID, &sub.Email, &sub.PlayerID, &sub.IsActive, &sub.CreatedAt)

	var outcome models.SubscribeOutcome
	switch {
	case err == sql.ErrNoRows:
		now := time.Now().UTC()
		res, err := tx.Exec("INSERT INTO email_subscriptions (email, player_id, is_active, created_at) VALUES (?, ?, 1, ?)",
			email, playerID, now)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create subscription: %w", err)
		}
		sub.ID, _ = res.LastInsertId()
		sub.Email = email
		sub.PlayerID = playerID
		sub.IsActive = true
		sub.CreatedAt = now
		outcome = models.SubscriptionCreated
	case err != nil:
		return nil, 0, err
	case !sub.IsActive:
		if _, err := tx.Exec("UPDATE email_subscriptions SET is_active = 1 WHERE id = ?", sub.ID); err != nil {
			return nil, 0, fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		sub.IsActive = true
		outcome = models.SubscriptionReactivated
	default:
		outcome = models.SubscriptionAlreadyActive
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return &sub, outcome, nil
}

// Unsubscribe deactivates the subscription for (email, player). The row is
// kept so its notification history survives.
func (s *Store) Unsubscribe(email string, playerID int64) error {
	email = normalizeEmail(email)
	result, err := s.db.Exec("UPDATE email_subscriptions SET is_active = 0 WHERE email = ? AND player_id = ?", email, playerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: "subscription", Key: email}
	}
	return nil
}

// GetSubscription retrieves the subscription for (email, player), active or not.
func (s *Store) GetSubscription(email string, playerID int64) (*models.EmailSubscription, error) {
	email = normalizeEmail(email)
	var sub models.EmailSubscription
	err := s.db.QueryRow(`SELECT id, email, player_id, is_active, created_at
		FROM email_subscriptions WHERE email = ? AND player_id = ?`, email, playerID).
		Scan(&sub.ID, &sub.Email, &sub.PlayerID, &sub.IsActive, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "subscription", Key: email}
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListActiveSubscriptions returns the active subscriptions for a player,
// oldest first.
func (s *Store) ListActiveSubscriptions(playerID int64) ([]*models.EmailSubscription, error) {
	query := `
		SELECT es.id, es.email, es.player_id, p.username, es.is_active, es.created_at
		FROM email_subscriptions es
		JOIN players p ON p.player_id = es.player_id
		WHERE es.player_id = ? AND es.is_active = 1
		ORDER BY es.created_at ASC, es.id ASC
	`
	rows, err := s.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []*models.EmailSubscription{}
	for rows.Next() {
		var sub models.EmailSubscription
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.PlayerID, &sub.Username, &sub.IsActive, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
