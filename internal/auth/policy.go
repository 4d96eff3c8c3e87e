package auth

import "github.com/historisense/portal/internal/domain"

// Destinations used by the route policy.
const (
	PathLogin      = "/login"
	PathRoot       = "/"
	PathMuseumHome = "/museum-home"
	PathUserHome   = "/user-home"
)

// Decision is the outcome of a route authorization check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectRoot
)

// Resolve maps a session and an optional required role to a route decision.
// Anonymous and expired sessions always go to login. An authenticated session
// with an unknown role is a policy violation and also goes to login rather
// than guessing a destination.
func Resolve(sess domain.Session, required domain.Role) Decision {
	if !sess.Authenticated() {
		return RedirectLogin
	}
	if !sess.Role().Valid() {
		return RedirectLogin
	}
	if required == "" || sess.Role() == required {
		return Allow
	}
	return RedirectRoot
}

// ResolveRoot maps a session to the destination of the root path.
func ResolveRoot(sess domain.Session) string {
	if !sess.Authenticated() {
		return PathLogin
	}
	switch sess.Role() {
	case domain.RoleMuseum:
		return PathMuseumHome
	case domain.RoleIndividual:
		return PathUserHome
	}
	return PathLogin
}

// RedirectPath translates a non-Allow decision to its destination.
func RedirectPath(d Decision) string {
	if d == RedirectRoot {
		return PathRoot
	}
	return PathLogin
}
