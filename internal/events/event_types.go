package events

import (
	"time"

	"github.com/historisense/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded     EventType = "login_succeeded"
	EventSessionExpired     EventType = "session_expired"
	EventCredentialRejected EventType = "credential_rejected"
	EventLoggedOut          EventType = "logged_out"
	EventTestimonyAnalyzed  EventType = "testimony_analyzed"
)

// Event represents a session lifecycle event emitted by the guard and services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// SessionEndedPayload payload for expiry, rejection, and logout events.
type SessionEndedPayload struct {
	Reason string `json:"reason"`
}

// TestimonyAnalyzedPayload payload.
type TestimonyAnalyzedPayload struct {
	Files     int `json:"files"`
	Locations int `json:"locations"`
	Geocoded  int `json:"geocoded"`
}
