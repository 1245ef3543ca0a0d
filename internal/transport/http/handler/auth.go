package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{secureCookies: secureCookies, logger: logger}
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, middleware.CurrentUser(c))
}

// Logout overwrites the session cookie with a short-lived placeholder. Tokens
// themselves are issued and revoked by the identity provider.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	mylogger.Debug(c.UserContext(), h.logger, "session cookie cleared")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}
