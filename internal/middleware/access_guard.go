package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"restosearch/internal/models"
	"restosearch/internal/repositories"
	"restosearch/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "authenticated_user"

// Policy is the set of roles allowed on a route. An empty policy admits any
// active user.
type Policy []string

// Roles builds a Policy from role names.
func Roles(roles ...string) Policy {
	return Policy(roles)
}

// Allows reports whether a user with the given roles satisfies the policy.
func (p Policy) Allows(user *models.User) bool {
	if len(p) == 0 {
		return true
	}
	return user.HasAnyRole(p...)
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// UserLookup loads a user by id.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AccessGuard authenticates requests against issued tokens and the current
// state of the user record.
type AccessGuard struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewAccessGuard creates a new AccessGuard.
func NewAccessGuard(tokens TokenVerifier, users UserLookup) *AccessGuard {
	return &AccessGuard{tokens: tokens, users: users}
}

// Authorize resolves the user behind authHeader and checks it against policy.
// It returns an error wrapping services.ErrUnauthorized or
// services.ErrForbidden.
func (g *AccessGuard) Authorize(ctx context.Context, authHeader string, policy Policy) (*models.User, error) {
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("%w: missing or malformed authorization header", services.ErrUnauthorized)
	}

	claims, err := g.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrUnauthorized, err)
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", services.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is logged out", services.ErrUnauthorized)
	}
	if !policy.Allows(user) {
		return nil, fmt.Errorf("%w: insufficient role", services.ErrForbidden)
	}
	return user, nil
}

// Require is a Fiber middleware that admits only requests whose user
// satisfies policy. The user is stored for handlers to read with CurrentUser.
func (g *AccessGuard) Require(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := g.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), policy)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrForbidden):
			slog.InfoContext(c.UserContext(), "access denied", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden resource",
			})
		case errors.Is(err, services.ErrUnauthorized):
			slog.InfoContext(c.UserContext(), "authentication failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		default:
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Require, if any.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	return user, ok && user != nil
}
