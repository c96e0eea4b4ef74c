package notes

import (
	"context"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the notes service
type Service interface {
	Create(ctx context.Context, ownerID bson.ObjectID, req notes.CreateNoteRequest) (*notes.NoteResponse, error)
	List(ctx context.Context, ownerID bson.ObjectID, req notes.ListNotesRequest) (*notes.ListNotesResponse, error)
	Get(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.NoteResponse, error)
	Update(ctx context.Context, ownerID, noteID bson.ObjectID, patch notes.UpdateNote) (*notes.NoteResponse, error)
	Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error
}

// Handlers contains the notes HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new notes handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Create handles note creation
// @Summary Create a new note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.CreateNoteRequest true "Create note request"
// @Success 201 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.CreateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Create", userID, nil, notes.ErrNoteNotFound)
	}

	return c.Status(201).JSON(resp)
}

// List handles notes listing with pagination
// @Summary List notes with page/limit pagination and tag filter
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Param tag query string false "Only notes carrying this tag"
// @Success 200 {object} notes.ListNotesResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.ListNotesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", userID, nil, notes.ErrNoteNotFound)
	}

	return c.JSON(resp)
}

// Get handles single note fetch
// @Summary Get a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} notes.NoteResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractObjectID(c, userID, "Get", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), userID, noteID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", userID, &noteID, notes.ErrNoteNotFound)
	}

	return c.JSON(resp)
}

// Update handles note updates
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param request body notes.UpdateNote true "Update note request"
// @Success 200 {object} notes.NoteResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [put]
func (h *Handlers) Update(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractObjectID(c, userID, "Update", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	var patch notes.UpdateNote
	if err := handlerutil.ParseAndValidateBody(c, &patch, h.validator, "Update"); err != nil {
		return err
	}

	resp, err := h.service.Update(c.Context(), userID, noteID, patch)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Update", userID, &noteID, notes.ErrNoteNotFound)
	}

	return c.JSON(resp)
}

// Delete handles note deletion
// @Summary Delete a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 204
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractObjectID(c, userID, "Delete", notes.ErrNoteNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, noteID); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", userID, &noteID, notes.ErrNoteNotFound)
	}

	return c.SendStatus(204)
}
