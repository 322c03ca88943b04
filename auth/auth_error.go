package auth

import (
	"errors"
	"fmt"
)

// Error is the error returned by the providers, the underlying Err contains
// the error returned by the identity platform.
type Error struct {
	Err error
	Msg string
}

func (ae *Error) Error() string {
	msg := ae.Msg
	if msg == "" {
		msg = ae.Err.Error()
	}
	return fmt.Sprintf("authentication error: %s", msg)
}

func (ae *Error) Unwrap() error {
	return ae.Err
}

func (ae *Error) Is(target error) bool {
	return target == ae.Err
}

var (
	// ErrTimeout is returned when the user did not complete the sign in
	// within the configured auth timeout.
	ErrTimeout = errors.New("timed out waiting for the sign in to complete")

	ErrNoClientID = errors.New("no client ID")
	ErrNoTenantID = errors.New("no tenant ID")
	ErrNoSecret   = errors.New("no client secret")
)
