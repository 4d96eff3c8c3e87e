package dto

import "github.com/historisense/portal/internal/domain"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse standard response for a successful login.
type LoginResponse struct {
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	RedirectTo string      `json:"redirect_to"`
}

// SignupRequest payload for new accounts.
type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	UserType        string `json:"userType"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// MessageResponse generic confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionResponse describes the caller's current session.
type SessionResponse struct {
	State   domain.SessionState `json:"state"`
	Profile *domain.Profile     `json:"profile,omitempty"`
}
