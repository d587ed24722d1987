package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexxvives/akademo-access/internal/config"
)

// setSessionCookie attaches the signed token to the response. The
// cookie is HttpOnly and SameSite=Lax; token expiry is enforced by the
// cookie lifetime, the token body carries none.
func setSessionCookie(c *fiber.Ctx, cfg *config.AuthConfig, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Domain:   cfg.CookieDomain,
		Expires:  time.Now().Add(cfg.CookieMaxAge),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately
func clearSessionCookie(c *fiber.Ctx, cfg *config.AuthConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Domain:   cfg.CookieDomain,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
