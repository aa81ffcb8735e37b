package testutil

import (
	"context"
	"sync"

	"github.com/vrsandeep/chesscom-helper/internal/notify"
)

// FakeMailer records sent mail instead of delivering it. Recipients listed
// in Failures get the mapped error back.
type FakeMailer struct {
	mu       sync.Mutex
	sent     []notify.Email
	Failures map[string]error
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{Failures: make(map[string]error)}
}

func (m *FakeMailer) Send(ctx context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range email.To {
		if err, ok := m.Failures[to]; ok {
			return err
		}
	}
	m.sent = append(m.sent, email)
	return nil
}

// FailFor makes every send to recipient return err.
func (m *FakeMailer) FailFor(recipient string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[recipient] = err
}

// Sent returns the successfully sent emails.
func (m *FakeMailer) Sent() []notify.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Email(nil), m.sent...)
}
