package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/alexxvives/akademo-access/internal/service"
)

// AuthMiddleware resolves the session token into a principal. The
// Authorization header takes precedence over the session cookie when
// both are present. Every failure mode gets the same response body so
// a caller cannot probe whether an account exists or a device session
// was merely superseded.
func AuthMiddleware(authService *service.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := tokenFromRequest(c, cookieName)
		if raw == "" {
			return unauthorized(c)
		}

		user, ok := authService.Resolve(c.Context(), raw)
		if !ok {
			return unauthorized(c)
		}

		// Store the principal in fiber.Locals for downstream handlers
		c.Locals("user", user)
		c.Locals("user_id", user.ID)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// tokenFromRequest extracts the raw token. A Bearer header wins; any
// other Authorization scheme is ignored and the session cookie is
// tried instead.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return c.Cookies(cookieName)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}
