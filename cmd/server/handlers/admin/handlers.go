package admin

import (
	"context"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/logger"
	"teamdesk/internal/services/admin"
	"teamdesk/internal/utils/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Service defines the interface for the admin service
type Service interface {
	ListUsers(ctx context.Context, req pagination.Request) (*admin.ListUsersResponse, error)
	ListNotes(ctx context.Context, req pagination.Request) (*admin.ListNotesResponse, error)
	ListTasks(ctx context.Context, req pagination.Request) (*admin.ListTasksResponse, error)
	ListFiles(ctx context.Context, req pagination.Request) (*admin.ListFilesResponse, error)
	Stats(ctx context.Context) (*admin.StatsResponse, error)
}

// Handlers contains the admin HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new admin handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

func (h *Handlers) parsePage(c *fiber.Ctx, handlerName string) (pagination.Request, error) {
	var req pagination.Request
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, handlerName); err != nil {
		return req, err
	}
	return req, nil
}

// ListUsers lists every registered user
// @Summary List all users
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} admin.ListUsersResponse
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /admin/users [get]
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	req, err := h.parsePage(c, "ListUsers")
	if err != nil {
		return err
	}

	resp, err := h.service.ListUsers(c.Context(), req)
	if err != nil {
		logger.L().Error("admin list users failed", "handler", "ListUsers", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// ListNotes lists every note with its owner
// @Summary List all notes
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} admin.ListNotesResponse
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /admin/notes [get]
func (h *Handlers) ListNotes(c *fiber.Ctx) error {
	req, err := h.parsePage(c, "ListNotes")
	if err != nil {
		return err
	}

	resp, err := h.service.ListNotes(c.Context(), req)
	if err != nil {
		logger.L().Error("admin list notes failed", "handler", "ListNotes", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// ListTasks lists every task with its owner
// @Summary List all tasks
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} admin.ListTasksResponse
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /admin/tasks [get]
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	req, err := h.parsePage(c, "ListTasks")
	if err != nil {
		return err
	}

	resp, err := h.service.ListTasks(c.Context(), req)
	if err != nil {
		logger.L().Error("admin list tasks failed", "handler", "ListTasks", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// ListFiles lists every file record with its owner
// @Summary List all files
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} admin.ListFilesResponse
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /admin/files [get]
func (h *Handlers) ListFiles(c *fiber.Ctx) error {
	req, err := h.parsePage(c, "ListFiles")
	if err != nil {
		return err
	}

	resp, err := h.service.ListFiles(c.Context(), req)
	if err != nil {
		logger.L().Error("admin list files failed", "handler", "ListFiles", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// Stats reports tenant-wide collection counts
// @Summary Collection counts
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} admin.StatsResponse
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Router /admin/stats [get]
func (h *Handlers) Stats(c *fiber.Ctx) error {
	resp, err := h.service.Stats(c.Context())
	if err != nil {
		logger.L().Error("admin stats failed", "handler", "Stats", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}
