package middlewares

import (
	"time"

	"teamdesk/cmd/server/handlers/httperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// BuildRateLimiter returns an IP-keyed limiter for the auth group. All
// requests passing through it share one bucket per client IP, so a
// register and a login from the same address count against the same
// budget. A max of zero or below disables the limiter entirely and the
// returned handler just falls through.
func BuildRateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return httperr.Fail(httperr.ErrTooManyRequests)
		},
	})
}
