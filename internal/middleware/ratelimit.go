package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter creates a rate limiting middleware keyed by user when
// authenticated, by IP otherwise.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := c.Locals("userID")
			if userID != nil {
				return userID.(string)
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		},
	})
}

// StrictRateLimiter for the login flow.
func StrictRateLimiter() fiber.Handler {
	return RateLimiter(10, 15*time.Minute)
}

// ModerateRateLimiter for regular API calls.
func ModerateRateLimiter() fiber.Handler {
	return RateLimiter(60, 1*time.Minute)
}
