package messages

import (
	"context"
	"errors"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/logger"
	"teamdesk/internal/services/messages"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the messages service
type Service interface {
	Send(ctx context.Context, senderID bson.ObjectID, roomID string, req messages.SendMessageRequest) (*messages.MessageResponse, error)
	List(ctx context.Context, roomID string) (*messages.ListMessagesResponse, error)
	Clear(ctx context.Context, roomID string) (*messages.ClearRoomResponse, error)
}

// SendRequest is the REST send body.
type SendRequest struct {
	RoomID string `json:"room_id" validate:"required,min=1,max=128" example:"standup"`
	Text   string `json:"text" validate:"required,min=1,max=2000" example:"morning all"`
}

// Handlers contains the messages HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new messages handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Send posts a message to a room over REST
// @Summary Send a message to a room
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SendRequest true "Send message request"
// @Success 201 {object} messages.MessageResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /messages [post]
func (h *Handlers) Send(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req SendRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Send"); err != nil {
		return err
	}

	resp, err := h.service.Send(c.Context(), userID, req.RoomID, messages.SendMessageRequest{Text: req.Text})
	if err != nil {
		if errors.Is(err, messages.ErrEmptyMessage) {
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		logger.L().Error("send message failed", "handler", "Send", "userID", userID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.Status(201).JSON(resp)
}

// List returns a room's message history
// @Summary Room message history
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param roomId path string true "Room ID"
// @Success 200 {object} messages.ListMessagesResponse
// @Failure 401 {object} httperr.E
// @Router /messages/room/{roomId} [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	if _, err := handlerutil.GetUserID(c); err != nil {
		return err
	}

	resp, err := h.service.List(c.Context(), c.Params("roomId"))
	if err != nil {
		logger.L().Error("list messages failed", "handler", "List", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// Clear wipes a room's message history
// @Summary Clear room history
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param roomId path string true "Room ID"
// @Success 200 {object} messages.ClearRoomResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /messages/room/{roomId} [delete]
func (h *Handlers) Clear(c *fiber.Ctx) error {
	if _, err := handlerutil.GetUserID(c); err != nil {
		return err
	}

	resp, err := h.service.Clear(c.Context(), c.Params("roomId"))
	if err != nil {
		if errors.Is(err, messages.ErrRoomNotFound) {
			return handlerutil.NotFoundError(messages.ErrRoomNotFound)
		}
		logger.L().Error("clear room failed", "handler", "Clear", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}
