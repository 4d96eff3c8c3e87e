package session

import (
	"github.com/gofiber/fiber/v2"

	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/domain"
	apperrors "github.com/historisense/portal/pkg/util"
)

const (
	sessionKey   = "session_state"
	sessionIDKey = "session_id"
)

// Middleware applies the guard and route policy to incoming requests.
type Middleware struct {
	guard      *Guard
	cookieName string
}

// NewMiddleware constructs middleware bound to the session cookie.
func NewMiddleware(guard *Guard, cookieName string) *Middleware {
	return &Middleware{guard: guard, cookieName: cookieName}
}

// RequireScreen guards a browser-navigated screen route. Policy violations
// answer with a redirect, mirroring screen navigation.
func (m *Middleware) RequireScreen(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.check(c)
		if err != nil {
			return err
		}
		switch auth.Resolve(sess, required) {
		case auth.Allow:
			bind(c, sess)
			return c.Next()
		case auth.RedirectRoot:
			return c.Redirect(auth.PathRoot, fiber.StatusSeeOther)
		default:
			return c.Redirect(auth.PathLogin, fiber.StatusSeeOther)
		}
	}
}

// RequireAPI guards a JSON API route. Policy violations answer with an error
// payload instead of a redirect.
func (m *Middleware) RequireAPI(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.check(c)
		if err != nil {
			return err
		}
		switch auth.Resolve(sess, required) {
		case auth.Allow:
			bind(c, sess)
			return c.Next()
		case auth.RedirectRoot:
			return apperrors.NewForbidden("insufficient role")
		default:
			return apperrors.NewUnauthenticated("session expired or not authenticated")
		}
	}
}

func (m *Middleware) check(c *fiber.Ctx) (domain.Session, error) {
	sessionID := c.Cookies(m.cookieName)
	sess, err := m.guard.Check(c.Context(), sessionID)
	if err != nil {
		return domain.Session{}, apperrors.NewDomainError(
			apperrors.CodeInternalError, "storage unavailable", fiber.StatusInternalServerError, nil)
	}
	c.Locals(sessionIDKey, sessionID)
	return sess, nil
}

func bind(c *fiber.Ctx, sess domain.Session) {
	c.Locals(sessionKey, sess)
}

// FromContext retrieves the session bound by the middleware.
func FromContext(c *fiber.Ctx) (domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return domain.Session{}, false
	}
	sess, ok := val.(domain.Session)
	return sess, ok
}

// IDFromContext retrieves the browser session ID.
func IDFromContext(c *fiber.Ctx) string {
	if val, ok := c.Locals(sessionIDKey).(string); ok {
		return val
	}
	return ""
}
