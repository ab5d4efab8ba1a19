// Package models defines the client-side domain types shared across the
// MindTrap client core: credentials issued by the auth backend, the cached
// user profile, and the derived session view.
package models

// Credential holds the tokens issued by the authentication backend together
// with the id of the user they belong to. Tokens are opaque strings; the
// client never mints or verifies them.
type Credential struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Valid reports whether the credential is complete. A credential with any
// part missing never authenticates a session; callers treat it as absent.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && c.RefreshToken != "" && c.UserID != ""
}
