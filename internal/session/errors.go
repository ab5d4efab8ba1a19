package session

import "errors"

var (
	// ErrInvalidCredentials means the backend rejected the email/password
	// pair. Shown to the user as-is; the store stays cleared.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken means registration hit an account that already exists.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrIncompleteResponse means the backend answered 2xx but without the
	// tokens or profile a live session needs.
	ErrIncompleteResponse = errors.New("incomplete authentication response")
)
