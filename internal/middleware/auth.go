// Package middleware provides request authentication for the HTTP surface.
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware guards the trigger and admin routes with a static bearer
// token. There is no interactive login surface: the only callers are the
// external cron and operators' scripts.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates an auth middleware. An empty token disables
// the check, which is only sensible in development.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: token}
}

// RequireToken rejects requests without the configured bearer token.
func (m *AuthMiddleware) RequireToken(c fiber.Ctx) error {
	if m.token == "" {
		return c.Next()
	}

	header := c.Get("Authorization")
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(m.token)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	return c.Next()
}
