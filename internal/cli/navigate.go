package cli

import (
	"context"
	"fmt"

	"github.com/mindtrap/client/internal/routegate"
)

// Go asks the route gate whether path may be shown and follows redirects
// until a path renders. The final path becomes the prompt's current path.
func (a *App) Go(ctx context.Context, path string) error {
	for {
		decision := a.gate.Navigate(path, nil)

		switch decision.Kind {
		case routegate.Loading:
			fmt.Println("Session not resolved yet, try again")
			return nil
		case routegate.Render:
			a.currentPath = path
			fmt.Printf("Now on %s\n", path)
			return nil
		case routegate.Redirect:
			fmt.Printf("%s -> %s\n", path, decision.Target)
			if decision.ReturnTo != "" {
				fmt.Printf("(will return to %s)\n", decision.ReturnTo)
			}
			path = decision.Target
		}
	}
}

// WhoAmI prints the current session view without touching the network.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.sessions.Current()

	if !s.Resolved {
		fmt.Println("Session not resolved yet")
		return nil
	}
	if !s.Authenticated() {
		fmt.Println("Not signed in")
		return nil
	}

	fmt.Printf("Signed in as %s", s.Credential.UserID)
	if s.Profile != nil {
		fmt.Printf(" (%s)", s.Profile.Email)
	}
	fmt.Println()
	return nil
}

// landingDecision resolves where the landing path leads for the current
// session, so the prompt reflects where the user actually ends up after
// auth changes.
func (a *App) landingDecision() string {
	path := routegate.PathLanding
	for {
		decision := a.gate.Navigate(path, nil)
		if decision.Kind != routegate.Redirect {
			return path
		}
		path = decision.Target
	}
}
