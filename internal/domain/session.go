package domain

// SessionState enumerates the logical authentication states.
type SessionState string

const (
	SessionAnonymous     SessionState = "ANONYMOUS"
	SessionAuthenticated SessionState = "AUTHENTICATED"
	SessionExpired       SessionState = "EXPIRED"
)

// Session is the authentication state derived from the stored credential at a
// point in time. It is always recomputed from the store and validator, never
// cached beyond a single check.
type Session struct {
	State   SessionState
	Profile Profile
}

// Authenticated reports whether the session holds a live credential.
func (s Session) Authenticated() bool {
	return s.State == SessionAuthenticated
}

// Role returns the session role, empty unless authenticated.
func (s Session) Role() Role {
	if s.State != SessionAuthenticated {
		return ""
	}
	return s.Profile.Role
}
