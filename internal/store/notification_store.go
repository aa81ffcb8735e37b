package store

import (
	"database/sql"
	"time"

	"github.com/vrsandeep/chesscom-helper/internal/models"
)

// CreateNotificationLog appends one delivery attempt. errMessage is stored
// only for failed attempts.
func (s *Store) CreateNotificationLog(subscriptionID int64, notificationType string, success bool, errMessage string) (*models.NotificationLog, error) {
	now := time.Now().UTC()
	var errValue sql.NullString
	if !success {
		errValue = sql.NullString{String: errMessage, Valid: true}
	}
	res, err := s.db.Exec(`INSERT INTO notification_logs (subscription_id, sent_at, notification_type, success, error_message)
		VALUES (?, ?, ?, ?, ?)`, subscriptionID, now, notificationType, success, errValue)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()

	entry := &models.NotificationLog{
		ID:               id,
		SubscriptionID:   subscriptionID,
		SentAt:           now,
		NotificationType: notificationType,
		Success:          success,
	}
	if errValue.Valid {
		entry.ErrorMessage = &errValue.String
	}
	return entry, nil
}

// ListNotificationLogs returns every logged attempt for the player's
// subscriptions, newest first.
func (s *Store) ListNotificationLogs(playerID int64) ([]*models.NotificationLog, error) {
	query := `
		SELECT nl.id, nl.subscription_id, nl.sent_at, nl.notification_type, nl.success, nl.error_message
		FROM notification_logs nl
		JOIN email_subscriptions es ON es.id = nl.subscription_id
		WHERE es.player_id = ?
		ORDER BY nl.sent_at DESC, nl.id DESC
	`
	rows, err := s.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.NotificationLog{}
	for rows.Next() {
		var entry models.NotificationLog
		var errMessage sql.NullString
		if err := rows.Scan(&entry.ID, &entry.SubscriptionID, &entry.SentAt, &entry.NotificationType, &entry.Success, &errMessage); err != nil {
			return nil, err
		}
		if errMessage.Valid {
			entry.ErrorMessage = &errMessage.String
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
