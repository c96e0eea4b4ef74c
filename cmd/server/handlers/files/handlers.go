package files

import (
	"context"
	"errors"

	"teamdesk/cmd/server/handlers/handlerutil"
	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/logger"
	"teamdesk/internal/services/files"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for the files service
type Service interface {
	Upload(ctx context.Context, ownerID bson.ObjectID, req files.UploadRequest) (*files.FileResponse, error)
	List(ctx context.Context, ownerID bson.ObjectID, req files.ListFilesRequest) (*files.ListFilesResponse, error)
	Get(ctx context.Context, ownerID, fileID bson.ObjectID) (*files.FileResponse, error)
	Delete(ctx context.Context, ownerID, fileID bson.ObjectID) error
}

// Handlers contains the files HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
	maxBytes  int64
}

// NewHandlers creates new files handlers
func NewHandlers(service Service, validator *validator.Validate, maxBytes int64) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
		maxBytes:  maxBytes,
	}
}

// Upload handles multipart file upload
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "File to upload"
// @Success 201 {object} files.FileResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /files [post]
func (h *Handlers) Upload(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		logger.L().Warn("missing file part", "handler", "Upload", "userID", userID.Hex(), "error", err)
		return httperr.Fail(httperr.E{Status: 400, Message: files.ErrNoFile.Error()})
	}

	// Reject oversized uploads before opening the part. Size cap
	// violations are validation failures, same class as a missing part.
	if header.Size > h.maxBytes {
		logger.L().Info("upload exceeds size cap", "handler", "Upload", "userID", userID.Hex(), "size", header.Size)
		return httperr.Fail(httperr.E{Status: 400, Message: files.ErrFileTooLarge.Error()})
	}

	f, err := header.Open()
	if err != nil {
		logger.L().Error("failed to open uploaded file", "handler", "Upload", "userID", userID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}
	defer f.Close()

	resp, err := h.service.Upload(c.Context(), userID, files.UploadRequest{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		Content:      f,
	})
	if err != nil {
		switch {
		case errors.Is(err, files.ErrNoFile), errors.Is(err, files.ErrFileTooLarge):
			return httperr.Fail(httperr.E{Status: 400, Message: err.Error()})
		}
		return handlerutil.HandleServiceError(err, "Upload", userID, nil, files.ErrFileNotFound)
	}

	return c.Status(201).JSON(resp)
}

// List handles file listing with pagination
// @Summary List uploaded files
// @Tags files
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "Page (default: 1)" minimum(1)
// @Param limit query int false "Limit (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} files.ListFilesResponse
// @Failure 401 {object} httperr.E
// @Router /files [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req files.ListFilesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	resp, err := h.service.List(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "List", userID, nil, files.ErrFileNotFound)
	}

	return c.JSON(resp)
}

// Get handles single file metadata fetch
// @Summary Get file metadata
// @Tags files
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "File ID"
// @Success 200 {object} files.FileResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /files/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := handlerutil.ExtractObjectID(c, userID, "Get", files.ErrFileNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.Get(c.Context(), userID, fileID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Get", userID, &fileID, files.ErrFileNotFound)
	}

	return c.JSON(resp)
}

// Delete handles file deletion
// @Summary Delete a file
// @Tags files
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "File ID"
// @Success 204
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /files/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := handlerutil.ExtractObjectID(c, userID, "Delete", files.ErrFileNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, fileID); err != nil {
		return handlerutil.HandleServiceError(err, "Delete", userID, &fileID, files.ErrFileNotFound)
	}

	return c.SendStatus(204)
}
