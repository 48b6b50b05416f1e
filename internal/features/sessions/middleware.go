package sessions

import (
	"net/http"
	"strings"

	"sales-manager/internal/core/server"

	"github.com/gofiber/fiber/v2"
)

const localsKey = "session"

// Middleware resolves the bearer token to a live session and stores it on
// the request. Requests without one are rejected with 401.
func (r *Registry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
		}

		s, ok := r.Get(token)
		if !ok {
			return server.Fail(c, http.StatusUnauthorized, "Sessão expirada ou inválida")
		}

		c.Locals(localsKey, s)
		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// FromCtx returns the session stored by Middleware.
func FromCtx(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(localsKey).(*Session)
	return s, ok
}
