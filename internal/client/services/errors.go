package services

import "errors"

var (
	// ErrAuthRequired is returned for intents that need a logged-in account
	// when there is none. Nothing is sent to the ledger.
	ErrAuthRequired = errors.New("login required")
	// ErrPostBusy is returned when a post already has a mutation in flight.
	ErrPostBusy = errors.New("post has a pending change")
)

// AlertError is a failed speculative change that has been rolled back.
// Message is meant to be shown to the user as is.
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string {
	return e.Message + " (" + e.Err.Error() + ")"
}

func (e *AlertError) Unwrap() error {
	return e.Err
}
