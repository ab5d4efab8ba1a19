package routegate

import "github.com/mindtrap/client/internal/models"

// SessionSource is the slice of the session controller the gate reads.
type SessionSource interface {
	Current() models.Session
}

// Gate is the thin reactive wrapper the navigation shell calls on every path
// change. The decision is computed fresh each time; nothing is cached.
type Gate struct {
	sessions SessionSource
}

func NewGate(sessions SessionSource) *Gate {
	return &Gate{sessions: sessions}
}

// Navigate evaluates the current session against the requested path.
func (g *Gate) Navigate(path string, navState any) Decision {
	return Evaluate(StateOf(g.sessions.Current()), path, navState)
}
