package middleware

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/alexxvives/akademo-access/pkg/ratelimit"
)

// KeyFunc derives the bucket key for a request. The default keys by
// caller network address.
type KeyFunc func(c *fiber.Ctx) string

// RateLimit guards a route with the given limiter. Rejected requests
// get a 429 with a Retry-After header in seconds. A limiter backend
// failure lets the request through: the limiter dampens abuse, it is
// not allowed to take the route down with it.
func RateLimit(limiter ratelimit.Limiter, keyFn KeyFunc) fiber.Handler {
	if keyFn == nil {
		keyFn = func(c *fiber.Ctx) string { return c.IP() }
	}

	return func(c *fiber.Ctx) error {
		decision, err := limiter.Allow(c.Context(), keyFn(c))
		if err != nil {
			log.Printf("[RATELIMIT] Check failed for %s %s: %v", c.Method(), c.Path(), err)
			return c.Next()
		}

		if !decision.Allowed {
			retryAfter := ratelimit.RetryAfterSeconds(decision.RetryAfter)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":               "too many requests",
				"retry_after_seconds": retryAfter,
			})
		}

		return c.Next()
	}
}
