package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSMiddleware configures and returns CORS middleware. Credentials
// are allowed so the session cookie can travel between the academy
// frontends and this service, but only when a concrete origin is
// configured: fiber refuses credentials with a wildcard origin, so a
// wildcard deployment serves header-authenticated callers only.
func CORSMiddleware(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: allowOrigins != "*",
	})
}
