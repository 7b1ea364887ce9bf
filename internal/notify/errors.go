package notify

import "errors"

var (
	// ErrAuthenticationRequired is returned to the UI layer when a request has no caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrPreferenceLookup wraps a failed preference read; the resolver treats it as allow.
	ErrPreferenceLookup = errors.New("notification preference lookup failed")
	// ErrPersistence wraps a failed notification batch insert; the batch is dropped.
	ErrPersistence = errors.New("notification persistence failed")
)
