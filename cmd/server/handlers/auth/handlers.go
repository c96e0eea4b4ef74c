package auth

import (
	"context"
	"errors"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/logger"
	"teamdesk/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the auth service
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	Refresh(ctx context.Context, rawToken string) (*auth.LoginResponse, error)
	Logout(ctx context.Context, userID bson.ObjectID) error
}

// Handlers contains the auth HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new auth handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Register request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /auth/register [post]
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.L().Warn("failed to parse register request body", "handler", "Register", "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := h.validator.Struct(req); err != nil {
		logger.L().Warn("register request validation failed", "handler", "Register", "error", err)
		return httperr.InvalidInput(err)
	}

	if _, err := h.service.Register(c.Context(), req); err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			logger.L().Info("duplicate registration", "handler", "Register", "email", req.Email)
			return httperr.Fail(httperr.E{Status: 409, Message: auth.ErrDuplicate.Error()})
		}
		logger.L().Error("register service failed", "handler", "Register", "email", req.Email, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.Status(201).JSON(map[string]string{"message": "User registered successfully"})
}

// Login handles user authentication
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login request"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /auth/login [post]
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.L().Warn("failed to parse login request body", "handler", "Login", "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := h.validator.Struct(req); err != nil {
		logger.L().Warn("login request validation failed", "handler", "Login", "error", err)
		return httperr.InvalidInput(err)
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		logger.L().Info("login failed", "handler", "Login", "email", req.Email)
		return httperr.Fail(httperr.E{
			Status:  401,
			Message: auth.ErrInvalidCredentials.Error(),
		})
	}

	return c.JSON(resp)
}

// Refresh handles token refresh requests
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RefreshRequest true "Refresh token request"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /auth/refresh [post]
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req auth.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		logger.L().Warn("failed to parse refresh request body", "handler", "Refresh", "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.L().Warn("refresh request validation failed", "handler", "Refresh", "error", err)
		return httperr.InvalidInput(err)
	}

	resp, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			logger.L().Info("invalid refresh token presented", "remote", c.IP())
			return httperr.Fail(httperr.ErrUnauthorized)
		}
		logger.L().Error("refresh service failed", "handler", "Refresh", "error", err)
		return httperr.Fail(httperr.ErrUnauthorized)
	}

	return c.JSON(resp)
}

// Logout revokes every session of the authenticated user
// @Summary Sign out everywhere
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 401 {object} httperr.E
// @Router /auth/logout [post]
func (h *Handlers) Logout(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Logout(c.Context(), userID); err != nil {
		logger.L().Error("logout service failed", "handler", "Logout", "userID", userID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(map[string]string{"message": "Signed out"})
}
