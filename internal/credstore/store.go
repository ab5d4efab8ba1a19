// Package credstore persists the authentication credential and the cached
// user profile. It is the single source of truth for session state: every
// mutation is a whole-record replace, and every successful Save or Clear
// fires the change notifier exactly once as its last step.
package credstore

import (
	"context"

	"github.com/mindtrap/client/internal/models"
)

// Keys under which auth data lives in the storage medium. Namespaced so the
// store can share a database with other application data.
const (
	keyAccessToken  = "mindtrap_access_token"
	keyRefreshToken = "mindtrap_refresh_token"
	keyUserID       = "mindtrap_user_id"
	keyUserProfile  = "mindtrap_user_profile"
)

// Store is the narrow persistence contract every component depends on.
// Nothing outside this package touches the storage medium directly.
//
// Read never fails: internal errors and corrupt records are logged, a corrupt
// cached profile is actively deleted, and the record is reported absent. A
// returned credential may be partial (e.g. refresh token only); it never
// authenticates a session unless Valid().
type Store interface {
	// Save replaces the stored credential and profile. A nil profile removes
	// the cached profile.
	Save(ctx context.Context, cred models.Credential, profile *models.Profile) error

	// Read returns the stored credential and profile, nil when absent.
	Read(ctx context.Context) (*models.Credential, *models.Profile)

	// Clear removes the credential and profile. Idempotent.
	Clear(ctx context.Context) error

	// Epoch increments on every Clear. Long-running operations (token
	// refresh) stamp themselves with the epoch at start and discard their
	// result if it changed, so a logout is never overwritten by a response
	// that resolves afterwards.
	Epoch() uint64
}
