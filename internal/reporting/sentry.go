// Package reporting forwards fatal errors to Sentry when a DSN is configured.
package reporting

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

var enabled atomic.Bool

// Init initializes Sentry for appName. It returns false and leaves
// reporting disabled when dsn is empty.
func Init(dsn, appName, release string) (bool, error) {
	if dsn == "" {
		return false, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Tags == nil {
				event.Tags = make(map[string]string)
			}
			event.Tags["app"] = appName
			return event
		},
	}); err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	enabled.Store(true)
	return true, nil
}

// Enabled reports whether Init configured a client.
func Enabled() bool {
	return enabled.Load()
}

// CaptureError sends err to Sentry with the given extra fields.
func CaptureError(err error, fields map[string]any) {
	if !Enabled() || err == nil {
		return
	}

	sentry.CurrentHub().WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		for k, v := range fields {
			scope.SetExtra(k, v)
		}
		sentry.CurrentHub().CaptureException(err)
	})
}

// Flush waits for pending events before the program exits.
func Flush() {
	if Enabled() {
		sentry.Flush(2 * time.Second)
	}
}
