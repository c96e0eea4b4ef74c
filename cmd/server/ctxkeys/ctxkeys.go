// Package ctxkeys holds the Locals keys shared between middlewares and
// handlers so the string constants live in one place.
package ctxkeys

const (
	// UserIDKey is the Locals key carrying the authenticated user id.
	UserIDKey = "userID"

	// UserRoleKey is the Locals key carrying the authenticated role.
	UserRoleKey = "userRole"

	// ParentCtxKey carries the request-bound context across the
	// websocket upgrade boundary.
	ParentCtxKey = "parentCtx"
)
