// Package httperr defines the error envelope every handler returns.
// Handlers hand an E to Fiber's error handler; the client always sees
// {"error": "..."} with the matching status code.
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// E is an HTTP error with a status code and a client-facing message.
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"error" example:"Bad Request"`
}

func (e E) Error() string {
	return e.Message
}

// JSON writes the error envelope to the response.
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail returns the error for Fiber's global error handler to process.
func Fail(err E) error {
	return err
}

// InvalidInput wraps a validation error into a 400 envelope. Validator
// messages name only field and rule, so exposing them is safe.
func InvalidInput(err error) error {
	return Fail(E{
		Status:  fiber.StatusBadRequest,
		Message: "Invalid input: " + err.Error(),
	})
}

// InternalError builds a 500 with the given message.
func InternalError(message string) E {
	return E{Status: fiber.StatusInternalServerError, Message: message}
}

// Shared errors for the common cases. Handlers build their own E when
// the message carries detail (which id was not found, what conflicted).
var (
	ErrBadRequest      = E{Status: fiber.StatusBadRequest, Message: "Bad Request"}
	ErrUnauthorized    = E{Status: fiber.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden       = E{Status: fiber.StatusForbidden, Message: "Forbidden"}
	ErrTooManyRequests = E{Status: fiber.StatusTooManyRequests, Message: "Too Many Requests"}
	ErrInternal        = InternalError("Internal Server Error")
)

// Handler is the app-wide Fiber error handler. It understands E and
// *fiber.Error; anything else is masked as a plain 500 so internal
// error text never leaks to clients.
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(E{
			Status:  fiberError.Code,
			Message: fiberError.Message,
		})
	}

	return ErrInternal.JSON(c)
}
