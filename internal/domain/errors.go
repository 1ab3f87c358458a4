package domain

import "errors"

// Sentinel errors shared across services and repositories. Services wrap
// infrastructure errors with fmt.Errorf and pass these through unwrapped so
// controllers can match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrUnknownPermission = errors.New("unknown permission")
)
