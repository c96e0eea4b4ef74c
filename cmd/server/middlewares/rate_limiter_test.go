package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"teamdesk/cmd/server/handlers/httperr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(max int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	app.Use(BuildRateLimiter(max, time.Minute))
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestBuildRateLimiterEnforcesBudget(t *testing.T) {
	app := newLimitedApp(2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, "request %d within budget", i+1)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestBuildRateLimiterDisabled(t *testing.T) {
	app := newLimitedApp(0)

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
}
