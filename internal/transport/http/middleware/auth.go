package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

const (
	userKey     = "user"
	TokenCookie = "jwt"
)

var (
	ErrNotLoggedIn  = domain.Errorf(domain.ErrUnauthorized, "You are not logged in! Please log in to get access.")
	ErrNoPermission = domain.Errorf(domain.ErrForbidden, "You do not have permission to perform this action")
)

type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

type UserSyncer interface {
	SyncPrincipal(ctx context.Context, principal domain.Principal) (*domain.User, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserSyncer
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, users UserSyncer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users, logger: logger}
}

func bearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func cookieToken(c *fiber.Ctx) string {
	return c.Cookies(TokenCookie)
}

// IsLoggedIn attaches the current user when the request carries a usable
// token and continues either way.
func (m *AuthMiddleware) IsLoggedIn(c *fiber.Ctx) error {
	token := cookieToken(c)
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return c.Next()
	}

	ctx := c.UserContext()
	user, err := m.resolve(ctx, token)
	if err != nil {
		mylogger.Debug(ctx, m.logger, "Ignoring unusable token", zap.Error(err))
		return c.Next()
	}

	c.Locals(userKey, user)
	return c.Next()
}

// Protect rejects requests without a valid token with 401.
func (m *AuthMiddleware) Protect(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		token = cookieToken(c)
	}
	if token == "" {
		return ErrNotLoggedIn
	}

	ctx := c.UserContext()
	user, err := m.resolve(ctx, token)
	if err != nil {
		mylogger.Warn(ctx, m.logger, "Rejected token", zap.String("path", c.Path()), zap.Error(err))
		return err
	}

	c.Locals(userKey, user)
	return c.Next()
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (*domain.User, error) {
	principal, err := m.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	return m.users.SyncPrincipal(ctx, *principal)
}

// RestrictTo allows the request through only when the current user holds one
// of roles. It must run after Protect or IsLoggedIn.
func RestrictTo(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return ErrNotLoggedIn
		}

		if !slices.Contains(roles, user.Role) {
			return ErrNoPermission
		}

		return c.Next()
	}
}

// CurrentUser returns the user attached by IsLoggedIn or Protect, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userKey).(*domain.User)
	return user
}
