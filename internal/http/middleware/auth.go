package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/auth"
	"adaptagent/internal/model"
	"adaptagent/internal/service"
)

const (
	// UserIDLocalKey holds the authenticated user's ID.
	UserIDLocalKey = "user_id"
	// UsernameLocalKey holds the authenticated user's name.
	UsernameLocalKey = "username"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccountLookup loads the account a token was issued to.
type AccountLookup func(ctx context.Context, userID string) (*model.User, error)

// AuthRequired rejects requests without a valid "Authorization: Bearer <jwt>"
// header. On success the subject and username are stored in locals.
// With a non-nil lookup the account is reloaded on every request, so deleted
// accounts get 401 and disabled ones 403 before their token expires.
func AuthRequired(v TokenVerifier, lookup AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return unauthorized(c, "invalid authorization header format")
		}

		claims, err := v.Verify(token)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		if lookup != nil {
			u, err := lookup(c.UserContext(), claims.Subject)
			switch {
			case errors.Is(err, service.ErrNotFound):
				return unauthorized(c, "invalid or expired token")
			case err != nil:
				return err
			case u.Disabled:
				return writeAuthError(c, fiber.StatusForbidden, "USER_DISABLED", "user account is disabled")
			}
		}

		c.Locals(UserIDLocalKey, claims.Subject)
		c.Locals(UsernameLocalKey, claims.Username)
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return writeAuthError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", msg)
}

func writeAuthError(c *fiber.Ctx, status int, code, msg string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(status).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}
