package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/historisense/portal/internal/api/dto"
	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/service"
	apperrors "github.com/historisense/portal/pkg/util"
)

// AuthHandler exposes login, signup, and logout endpoints.
type AuthHandler struct {
	accounts   *service.AccountService
	cookieName string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService, cookieName string) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookieName: cookieName}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	outcome, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, outcome.SessionID)
	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Name:       outcome.Profile.Name,
			Role:       outcome.Profile.Role,
			RedirectTo: outcome.RedirectTo,
		},
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	err := h.accounts.Signup(c.Context(), service.SignupInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        req.UserType,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.MessageResponse{Message: "account created, please log in"},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sessionID := c.Cookies(h.cookieName); sessionID != "" {
		h.accounts.Logout(c.Context(), sessionID)
	}
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"data":        dto.MessageResponse{Message: "logged out"},
		"redirect_to": auth.PathLogin,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
