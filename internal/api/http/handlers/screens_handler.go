package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/historisense/portal/internal/api/dto"
	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/service"
	"github.com/historisense/portal/internal/session"
)

// ScreensHandler serves the screen-level routes of the portal.
type ScreensHandler struct {
	guard       *session.Guard
	cookieName  string
	testimonies *service.TestimonyService
	logger      *zap.Logger
}

// NewScreensHandler constructs handler.
func NewScreensHandler(guard *session.Guard, cookieName string, testimonies *service.TestimonyService, logger *zap.Logger) *ScreensHandler {
	return &ScreensHandler{
		guard:       guard,
		cookieName:  cookieName,
		testimonies: testimonies,
		logger:      logger,
	}
}

// Root handles GET /. Anonymous and expired sessions land on login,
// authenticated sessions on their role home.
func (h *ScreensHandler) Root(c *fiber.Ctx) error {
	sess, err := h.guard.Check(c.Context(), c.Cookies(h.cookieName))
	if err != nil {
		h.logger.Warn("session check failed on root", zap.Error(err))
		return c.Redirect(auth.PathLogin, fiber.StatusSeeOther)
	}
	return c.Redirect(auth.ResolveRoot(sess), fiber.StatusSeeOther)
}

// Login handles GET /login, the only screen reachable without a session.
func (h *ScreensHandler) Login(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"screen": "login"})
}

// MuseumHome handles GET /museum-home for museum accounts. The screen carries
// the uploaded testimonies so the list renders without a second round trip.
func (h *ScreensHandler) MuseumHome(c *fiber.Ctx) error {
	sess, _ := session.FromContext(c)

	testimonies, err := h.testimonies.List(c.Context(), session.IDFromContext(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"screen":      "museum-home",
		"profile":     sess.Profile,
		"testimonies": testimonies,
	})
}

// UserHome handles GET /user-home for individual accounts.
func (h *ScreensHandler) UserHome(c *fiber.Ctx) error {
	sess, _ := session.FromContext(c)
	return c.JSON(fiber.Map{
		"screen":  "user-home",
		"profile": sess.Profile,
	})
}

// Session handles GET /api/session, reporting the current session state
// without redirecting.
func (h *ScreensHandler) Session(c *fiber.Ctx) error {
	sess, err := h.guard.Check(c.Context(), c.Cookies(h.cookieName))
	if err != nil {
		return err
	}

	resp := dto.SessionResponse{State: sess.State}
	if sess.Authenticated() {
		profile := sess.Profile
		resp.Profile = &profile
	}
	return c.JSON(fiber.Map{"data": resp})
}
