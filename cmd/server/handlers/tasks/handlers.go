package tasks

import (
	"context"
	"errors"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/internal/services/tasks"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the tasks service
type Service interface {
	Create(ctx context.Context, ownerID bson.ObjectID, req tasks.CreateTaskRequest) (*tasks.TaskResponse, error)
	List(ctx context.Context, userID bson.ObjectID, req tasks.ListTasksRequest) (*tasks.ListTasksResponse, error)
	Get(ctx context.Context, userID, taskID bson.ObjectID) (*tasks.TaskResponse, error)
	Update(ctx context.Context, ownerID, taskID bson.ObjectID, patch tasks.UpdateTask) (*tasks.TaskResponse, error)
	Complete(ctx context.Context, userID, taskID bson.ObjectID) (*tasks.TaskResponse, error)
	Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error
}

// Handlers contains the tasks HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new tasks handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// assigneeAware maps ErrAssigneeNotFound to 404 before falling back to
// the shared service-error mapping.
func assigneeAware(err error, handlerName string, userID bson.ObjectID, taskID *bson.ObjectID) error {
	if errors.Is(err, tasks.ErrAssigneeNotFound) {
		return handlerutil.NotFoundError(tasks.ErrAssigneeNotFound)
	}
	return handlerutil.HandleServiceError(err, handlerName, userID, taskID, tasks.ErrTaskNotFound)
}

// Create handles task creation
// @Summary Create a new task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body tasks.CreateTaskRequest true "Create task request"
// @Success 201 {object} tasks.TaskResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req tasks.CreateTaskRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return assigneeAware(err, "Create", userID, nil)
	}

	return c.Status(201).JSON(resp)
}

// List handles task listing with pagination
// @Summary List tasks visible to the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Param completed query bool false "Filter by completion state"
// @Success 200 {object} tasks.ListTasksResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /tasks [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req tasks.ListTasksRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", userID, nil, tasks.ErrTaskNotFound)
	}

	return c.JSON(resp)
}

// Get handles single task fetch
// @Summary Get a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} tasks.TaskResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractObjectID(c, userID, "Get", tasks.ErrTaskNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), userID, taskID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", userID, &taskID, tasks.ErrTaskNotFound)
	}

	return c.JSON(resp)
}

// Update handles task updates
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Param request body tasks.UpdateTask true "Update task request"
// @Success 200 {object} tasks.TaskResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractObjectID(c, userID, "Update", tasks.ErrTaskNotFound)
	if err != nil {
		return err
	}

	var patch tasks.UpdateTask
	if err := handlerutil.ParseAndValidateBody(c, &patch, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.service.Update(c.Context(), userID, taskID, patch)
	if err != nil {
		return assigneeAware(err, "Update", userID, &taskID)
	}

	return c.JSON(resp)
}

// Complete marks a task as completed
// @Summary Mark a task completed
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} tasks.TaskResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id}/complete [patch]
func (h *Handlers) Complete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractObjectID(c, userID, "Complete", tasks.ErrTaskNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.Complete(c.Context(), userID, taskID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Complete", userID, &taskID, tasks.ErrTaskNotFound)
	}

	return c.JSON(resp)
}

// Delete handles task deletion
// @Summary Delete a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 204
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /tasks/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	taskID, err := handlerutil.ExtractObjectID(c, userID, "Delete", tasks.ErrTaskNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, taskID); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", userID, &taskID, tasks.ErrTaskNotFound)
	}

	return c.SendStatus(204)
}
