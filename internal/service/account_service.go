package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/backend"
	"github.com/historisense/portal/internal/credstore"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/session"
	apperrors "github.com/historisense/portal/pkg/util"
)

// AccountService coordinates login, signup, and logout flows between the
// backend API, the credential store, and the session guard.
type AccountService struct {
	backend     *backend.Client
	store       credstore.Store
	validator   *auth.Validator
	guard       *session.Guard
	dispatcher  events.Dispatcher
	fallbackTTL time.Duration
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	Backend    *backend.Client
	Store      credstore.Store
	Validator  *auth.Validator
	Guard      *session.Guard
	Dispatcher events.Dispatcher
}

// NewAccountService builds the service. fallbackTTL bounds the stored
// credential's lifetime when the token carries no decodable expiry.
func NewAccountService(deps AccountDependencies, fallbackTTL time.Duration) *AccountService {
	if fallbackTTL <= 0 {
		fallbackTTL = 24 * time.Hour
	}
	return &AccountService{
		backend:     deps.Backend,
		store:       deps.Store,
		validator:   deps.Validator,
		guard:       deps.Guard,
		dispatcher:  deps.Dispatcher,
		fallbackTTL: fallbackTTL,
	}
}

// LoginOutcome describes an established session.
type LoginOutcome struct {
	SessionID  string
	Profile    domain.Profile
	RedirectTo string
}

// Login authenticates against the backend and, on success, establishes the
// session: credential stored, watcher started, role home resolved. A login
// response carrying an unknown role stores nothing (fail closed).
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return LoginOutcome{}, err
	}

	role, ok := domain.ParseRole(result.Role)
	if !ok {
		return LoginOutcome{}, apperrors.NewBackendError(http.StatusUnauthorized, "invalid user role received")
	}

	name := result.Name
	if name == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}

	ttl := s.fallbackTTL
	if claims, err := s.validator.Claims(result.AccessToken); err == nil {
		until := time.Until(time.Unix(claims.ExpiresAt, 0))
		if until <= 0 {
			return LoginOutcome{}, apperrors.NewUnauthenticated("received an already-expired token")
		}
		ttl = until
	}

	cred := domain.Credential{
		Token:   result.AccessToken,
		Profile: domain.Profile{Name: name, Role: role},
	}
	sessionID := uuid.NewString()
	if err := s.store.Save(ctx, sessionID, cred, ttl); err != nil {
		return LoginOutcome{}, apperrors.NewInternalError(err)
	}
	s.guard.StartWatcher(sessionID)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLoginSucceeded,
			SessionID: sessionID,
			Timestamp: time.Now(),
			Payload:   events.LoginSucceededPayload{Name: name, Role: role},
		})
	}

	sess := domain.Session{State: domain.SessionAuthenticated, Profile: cred.Profile}
	return LoginOutcome{
		SessionID:  sessionID,
		Profile:    cred.Profile,
		RedirectTo: auth.ResolveRoot(sess),
	}, nil
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        string
	AgreeToTerms    bool
}

// Signup validates the form locally and forwards it to the backend.
// Validation failures never reach the network.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) error {
	details := map[string]any{}
	if !auth.ValidateFullName(in.FullName) {
		details["fullName"] = "full name must contain at least two words"
	}
	if !auth.ValidateEmail(in.Email) {
		details["email"] = "invalid email address"
	}
	if !auth.ValidatePassword(in.Password) {
		details["password"] = "password must be at least 8 characters with upper, lower, digit, and special characters"
	}
	if !auth.ConfirmPasswordMatch(in.Password, in.ConfirmPassword) {
		details["confirmPassword"] = "passwords do not match"
	}
	if !auth.ValidateUserType(in.UserType) {
		details["userType"] = "user type must be museum or individual"
	}
	if !auth.ValidateTerms(in.AgreeToTerms) {
		details["agreeToTerms"] = "terms must be accepted"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("signup form is invalid", details)
	}

	return s.backend.Signup(ctx, backend.SignupRequest{
		FullName: in.FullName,
		Email:    in.Email,
		Password: in.Password,
		UserType: in.UserType,
	})
}

// Logout tears the session down: watcher cancelled, credential cleared.
func (s *AccountService) Logout(ctx context.Context, sessionID string) {
	s.guard.StopWatcher(sessionID)
	s.guard.Invalidate(ctx, sessionID, events.EventLoggedOut, "user logged out")
}
