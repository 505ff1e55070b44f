package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrWebhookNotConfigured is returned when a deadline check is asked for
	// before a webhook URL has been saved.
	ErrWebhookNotConfigured = errors.New("webhook url is not configured")
	// ErrSaturated means no worker took the request within the handoff
	// timeout.
	ErrSaturated = errors.New("notifier saturated")
	ErrClosed    = errors.New("notifier closed")
)

// NotifyError reports a webhook delivery that did not happen. It never
// affects board state.
type NotifyError struct {
	URL string
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.URL, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
