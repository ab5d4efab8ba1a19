package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSessionExpired is terminal for the current session: the stored
// credential has been cleared and the user must re-authenticate. Match with
// errors.Is.
var ErrSessionExpired = errors.New("session expired")

// errNoRefreshToken is returned by the refresh protocol when there is
// nothing to refresh with.
var errNoRefreshToken = errors.New("no refresh token")

// errRefreshSuperseded means a logout cleared the store while the refresh
// call was in flight; the issued tokens were discarded unused.
var errRefreshSuperseded = errors.New("refresh superseded by logout")

// NetworkError wraps a transport-level failure: no HTTP status was received.
// Always recoverable; it never clears the session.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a structured non-2xx server response.
type HTTPError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// newHTTPError extracts the server-provided message when the payload carries
// one, falling back to a generic description.
func newHTTPError(status int, body []byte) *HTTPError {
	msg := fmt.Sprintf("request failed with status %d", status)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &HTTPError{Status: status, Message: msg, Body: body}
}
