package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexxvives/akademo-access/internal/domain"
)

// RequireRole verifies that the resolved principal holds one of the
// given roles. Must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*domain.User)
		if !ok {
			return unauthorized(c)
		}

		if !user.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permissions",
			})
		}

		return c.Next()
	}
}

// RequireStudent restricts a route to students
func RequireStudent() fiber.Handler {
	return RequireRole(domain.RoleStudent)
}

// RequireAdmin restricts a route to platform admins
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
