package push

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks a failed send that may succeed later.
	ErrTransport = errors.New("push transport failure")
	// ErrInvalidSubscription marks an endpoint the push service no longer knows.
	ErrInvalidSubscription = errors.New("push subscription no longer valid")
	// ErrConfigurationMissing is returned when VAPID keys are not configured.
	ErrConfigurationMissing = errors.New("push VAPID keys not configured")
)

// StatusError is a non-2xx answer from a push service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service responded %d", e.StatusCode)
	}
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

// Gone reports whether the status means the subscription was removed.
func (e *StatusError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

func (e *StatusError) Unwrap() error {
	if e.Gone() {
		return ErrInvalidSubscription
	}
	return ErrTransport
}

// IsGone reports whether err says the subscription should be deleted.
func IsGone(err error) bool {
	return errors.Is(err, ErrInvalidSubscription)
}
