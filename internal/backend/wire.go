package backend

import "github.com/historisense/portal/internal/domain"

// LoginResult is the backend's answer to a login attempt.
type LoginResult struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Error       string `json:"error"`
}

// SignupRequest is the payload forwarded to the backend signup endpoint.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type signupResponse struct {
	Message string `json:"message"`
}

type analyzeResponse struct {
	Analysis *domain.Analysis `json:"analysis"`
	Message  string           `json:"message"`
	Error    string           `json:"error"`
}

type testimoniesResponse struct {
	Testimonies []domain.TestimonySummary `json:"testimonies"`
}

type testimonyResponse struct {
	Testimony domain.Testimony `json:"testimony"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// UploadFile is one testimony file sent for analysis, with its per-file
// title and description fields.
type UploadFile struct {
	Name        string
	Title       string
	Description string
	Content     []byte
}
