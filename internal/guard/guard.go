package guard

// Package guard decides whether a route renders for the current session.
// Decisions are pure functions over the session state; they never error,
// because a hard failure on a cosmetic routing decision would be worse
// than a sensible default.

import (
	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
)

// Decision is the outcome for a protected route.
type Decision int

const (
	// Render shows the requested page.
	Render Decision = iota
	// ShowLoading holds the page while the session is still initializing.
	ShowLoading
	// RedirectSignIn sends an unauthenticated session to the sign-in page.
	RedirectSignIn
	// RedirectUnauthorized sends a role-forbidden session to the access
	// denied page.
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case ShowLoading:
		return "show_loading"
	case RedirectSignIn:
		return "redirect_signin"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decide gates a role-restricted route. An empty allowed set admits any
// authenticated identity; role matching is case-insensitive.
func Decide(state domainauth.SessionState, allowedRoles []domainauth.Role) Decision {
	if state.IsInitializing {
		return ShowLoading
	}
	if !state.IsAuthenticated || state.Identity == nil {
		return RedirectSignIn
	}
	if !state.Identity.HasRole(allowedRoles) {
		return RedirectUnauthorized
	}
	return Render
}

// PublicDecision is the outcome for a public-only route such as sign-in.
type PublicDecision struct {
	Render     bool
	RedirectTo string
}

// DecidePublicOnly keeps authenticated sessions away from public-only
// pages, sending them to their role's landing path instead. Unrecognized
// or missing roles fall back to the default landing.
func DecidePublicOnly(state domainauth.SessionState) PublicDecision {
	if !state.IsAuthenticated {
		return PublicDecision{Render: true}
	}
	var role domainauth.Role
	if state.Identity != nil {
		role = state.Identity.Role
	}
	return PublicDecision{RedirectTo: domainauth.LandingPath(role)}
}
