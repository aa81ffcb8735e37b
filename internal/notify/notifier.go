package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/vrsandeep/chesscom-helper/internal/metrics"
	"github.com/vrsandeep/chesscom-helper/internal/models"
	"github.com/vrsandeep/chesscom-helper/internal/store"
)

// Attempt is the outcome of one delivery to one subscriber.
type Attempt struct {
	Subscription *models.EmailSubscription
	Err          error
}

// Result aggregates the attempts made by Notify.
type Result struct {
	Message            string    `json:"message"`
	SuccessfulSends    int       `json:"successful_sends"`
	FailedSends        int       `json:"failed_sends"`
	TotalSubscriptions int       `json:"total_subscriptions"`
	Attempts           []Attempt `json:"-"`
}

// Notifier emails the active subscribers of a player.
type Notifier struct {
	st     *store.Store
	mailer Mailer
	from   string
}

// New creates a Notifier sending mail from the given address.
func New(st *store.Store, mailer Mailer, from string) *Notifier {
	return &Notifier{st: st, mailer: mailer, from: from}
}

// Notify sends one email per active subscription of player. A failed send
// never stops the remaining ones; every attempt appends one notification
// log row. The returned error is only set when the subscriptions cannot be
// loaded.
func (n *Notifier) Notify(ctx context.Context, player *models.Player, liveGames []models.LiveGame) (*Result, error) {
	subs, err := n.st.ListActiveSubscriptions(player.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions for %s: %w", player.Username, err)
	}
	if len(subs) == 0 {
		return &Result{Message: fmt.Sprintf("No active subscriptions for %s", player.Username)}, nil
	}

	subject := LiveMatchSubject(player)
	body := LiveMatchBody(player, liveGames)

	result := &Result{
		Message:            fmt.Sprintf("Notifications processed for %s", player.Username),
		TotalSubscriptions: len(subs),
	}
	for _, sub := range subs {
		attempt := n.deliver(ctx, sub, subject, body)
		result.Attempts = append(result.Attempts, attempt)
		if attempt.Err != nil {
			result.FailedSends++
		} else {
			result.SuccessfulSends++
		}
	}
	return result, nil
}

// deliver sends to a single subscriber and records the outcome.
func (n *Notifier) deliver(ctx context.Context, sub *models.EmailSubscription, subject, body string) (attempt Attempt) {
	attempt.Subscription = sub
	defer func() {
		if r := recover(); r != nil {
			attempt.Err = &models.DeliveryError{Email: sub.Email, Cause: fmt.Errorf("mailer panicked: %v", r)}
		}
		n.record(sub, attempt.Err)
	}()

	err := n.mailer.Send(ctx, Email{
		Subject: subject,
		Body:    body,
		From:    n.from,
		To:      []string{sub.Email},
	})
	if err != nil {
		attempt.Err = &models.DeliveryError{Email: sub.Email, Cause: err}
	}
	return attempt
}

func (n *Notifier) record(sub *models.EmailSubscription, sendErr error) {
	success := sendErr == nil
	errMessage := ""
	if sendErr != nil {
		errMessage = sendErr.Error()
		log.Printf("Failed to send notification to %s: %v", sub.Email, sendErr)
	} else {
		log.Printf("Notification sent to %s for %s", sub.Email, sub.Username)
	}
	metrics.NotificationsSent.WithLabelValues(strconv.FormatBool(success)).Inc()

	if _, err := n.st.CreateNotificationLog(sub.ID, models.NotificationTypeLiveMatch, success, errMessage); err != nil {
		log.Printf("Warning: could not write notification log for subscription %d: %v", sub.ID, err)
	}
}
