package models

import "time"

// NotificationTypeLiveMatch labels every log row written by the live match notifier.
const NotificationTypeLiveMatch = "live_match"

// EmailSubscription registers an email address for notifications about one player.
type EmailSubscription struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	PlayerID  int64     `json:"player_id"`
	Username  string    `json:"username,omitempty"` // Filled by joins with players
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationLog records a single delivery attempt. Rows are never updated.
type NotificationLog struct {
	ID               int64     `json:"id"`
	SubscriptionID   int64     `json:"subscription_id"`
	SentAt           time.Time `json:"sent_at"`
	NotificationType string    `json:"notification_type"`
	Success          bool      `json:"success"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
}

// SubscribeOutcome tells the caller what Subscribe did.
type SubscribeOutcome int

const (
	SubscriptionCreated SubscribeOutcome = iota
	SubscriptionReactivated
	SubscriptionAlreadyActive
)
