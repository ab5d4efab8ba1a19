package models

// Session is the derived, never-persisted view UI observers read. It is
// recomputed from the credential store on every change notification.
type Session struct {
	Credential *Credential
	Profile    *Profile

	// Resolved turns true after the first store read completes. Until then
	// consumers should show a neutral loading state instead of redirecting.
	Resolved bool
}

// Authenticated reports whether a complete credential is present.
func (s Session) Authenticated() bool {
	return s.Credential.Valid()
}

// ScreeningResult is the outcome of the initial screening step.
type ScreeningResult struct {
	Score     int    `json:"score"`
	Severity  string `json:"severity"`
	Diagnosis string `json:"diagnosis"`
}
