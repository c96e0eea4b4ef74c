package middlewares

import (
	"context"

	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// RoleSource looks up a user's current role.
type RoleSource interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error)
}

// RequireAdmin gates a route group to admin accounts. The role is
// re-read from the store on every request, so a demotion takes effect
// immediately instead of at token expiry.
func RequireAdmin(users RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr, ok := c.Locals("userID").(string)
		if !ok || userIDStr == "" {
			return httperr.Fail(httperr.ErrUnauthorized)
		}

		userID, err := bson.ObjectIDFromHex(userIDStr)
		if err != nil {
			return httperr.Fail(httperr.ErrUnauthorized)
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			return httperr.Fail(httperr.ErrForbidden)
		}
		if user.Role != auth.RoleAdmin {
			return httperr.Fail(httperr.ErrForbidden)
		}

		return c.Next()
	}
}
