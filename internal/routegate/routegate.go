// Package routegate decides, on every navigation, whether the requested
// screen may render or where to redirect instead. The onboarding funnel is
// expressed as an ordered rule list evaluated top to bottom, first match
// wins, which keeps the no-redirect-loop invariant auditable and testable in
// isolation from any rendering concern.
package routegate

import "github.com/mindtrap/client/internal/models"

// Well-known application paths.
const (
	PathLanding          = "/"
	PathAuth             = "/auth"
	PathDashboard        = "/dashboard"
	PathInitialScreening = "/initial-screening"
	PathCompleteProfile  = "/complete-profile"
)

// State is everything the decision depends on besides the requested path.
type State struct {
	// Resolved is false until the first credential store read completes.
	Resolved bool

	Authenticated     bool
	ScreeningComplete bool
	HasHomeAddress    bool
}

// StateOf derives the gate's input from a session view. Gating on profile
// flags only applies when a profile is actually cached; without one there is
// nothing to gate on and protected paths render.
func StateOf(s models.Session) State {
	st := State{
		Resolved:          s.Resolved,
		Authenticated:     s.Authenticated(),
		ScreeningComplete: true,
		HasHomeAddress:    true,
	}
	if s.Profile != nil {
		st.ScreeningComplete = s.Profile.InitialScreeningCompleted
		st.HasHomeAddress = s.Profile.HomeAddress != ""
	}
	return st
}

type Kind int

const (
	// Loading renders a neutral waiting state; auth is not yet resolved.
	Loading Kind = iota
	// Render shows the requested path.
	Render
	// Redirect navigates to Target instead.
	Redirect
)

// Decision is the outcome of evaluating one navigation.
type Decision struct {
	Kind   Kind
	Target string

	// ReturnTo carries the originally requested path (and its navigation
	// state) through a redirect, so the user lands where they were headed
	// once the gating step is satisfied.
	ReturnTo    string
	ReturnState any
}

func render() Decision                 { return Decision{Kind: Render} }
func redirect(target string) Decision { return Decision{Kind: Redirect, Target: target} }

func redirectBack(target, from string, navState any) Decision {
	return Decision{Kind: Redirect, Target: target, ReturnTo: from, ReturnState: navState}
}

// rule is one row of the decision table. match and decide are split so the
// table reads as a priority list.
type rule struct {
	name   string
	match  func(State, string) bool
	decide func(State, string, any) Decision
}

var rules = []rule{
	{
		name:  "unresolved auth renders loading",
		match: func(s State, _ string) bool { return !s.Resolved },
		decide: func(State, string, any) Decision {
			return Decision{Kind: Loading}
		},
	},
	{
		name: "anonymous on public pages renders",
		match: func(s State, path string) bool {
			return !s.Authenticated && (path == PathLanding || path == PathAuth)
		},
		decide: func(State, string, any) Decision { return render() },
	},
	{
		name:  "anonymous elsewhere goes to auth",
		match: func(s State, _ string) bool { return !s.Authenticated },
		decide: func(_ State, path string, navState any) Decision {
			return redirectBack(PathAuth, path, navState)
		},
	},
	{
		name:  "authenticated on auth page goes to next step",
		match: func(s State, path string) bool { return path == PathAuth },
		decide: func(s State, _ string, _ any) Decision {
			return redirect(nextOnboardingStep(s))
		},
	},
	{
		name: "screening incomplete gates everything",
		match: func(s State, path string) bool {
			return !s.ScreeningComplete && path != PathInitialScreening
		},
		decide: func(State, string, any) Decision {
			return redirect(PathInitialScreening)
		},
	},
	{
		name: "missing home address gates everything after screening",
		match: func(s State, path string) bool {
			return s.ScreeningComplete && !s.HasHomeAddress && path != PathCompleteProfile
		},
		decide: func(_ State, path string, navState any) Decision {
			return redirectBack(PathCompleteProfile, path, navState)
		},
	},
	{
		name:  "authenticated on landing goes to dashboard",
		match: func(s State, path string) bool { return path == PathLanding },
		decide: func(State, string, any) Decision {
			return redirect(PathDashboard)
		},
	},
	{
		name:   "default renders",
		match:  func(State, string) bool { return true },
		decide: func(State, string, any) Decision { return render() },
	},
}

// nextOnboardingStep picks where an already-authenticated user belongs
// instead of the auth page.
func nextOnboardingStep(s State) string {
	switch {
	case !s.ScreeningComplete:
		return PathInitialScreening
	case !s.HasHomeAddress:
		return PathCompleteProfile
	default:
		return PathDashboard
	}
}

// Evaluate runs the decision table for one navigation. navState is opaque
// navigation state carried through redirects that preserve the origin.
func Evaluate(s State, path string, navState any) Decision {
	for _, r := range rules {
		if r.match(s, path) {
			return r.decide(s, path, navState)
		}
	}
	// The last rule matches everything.
	return render()
}
