package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"teamdesk/internal/utils/pagination"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles file upload business logic.
type Service struct {
	repo     Repository
	storage  Storage
	maxBytes int64
	log      *slog.Logger
}

// NewService creates a new files service.
func NewService(repo Repository, storage Storage, maxBytes int64, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		maxBytes: maxBytes,
		log:      log,
	}
}

// UploadRequest carries the metadata of an incoming multipart file.
type UploadRequest struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Content      io.Reader
}

// FileResponse represents a single file response.
type FileResponse struct {
	Success bool        `json:"success" example:"true"`
	File    *FileRecord `json:"file"`
	Message string      `json:"message,omitempty" example:"File uploaded"`
}

// ListFilesResponse represents a paginated list of files.
type ListFilesResponse struct {
	Success    bool            `json:"success" example:"true"`
	Files      []*FileRecord   `json:"files"`
	Pagination pagination.Meta `json:"pagination"`
}

// Upload streams the content to the object store, then persists the
// metadata record. The size cap is checked before any bytes leave the
// process.
func (s *Service) Upload(ctx context.Context, ownerID bson.ObjectID, req UploadRequest) (*FileResponse, error) {
	if req.Content == nil || req.OriginalName == "" {
		return nil, ErrNoFile
	}
	if req.SizeBytes > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	key := fmt.Sprintf("%s%s", ulid.Make().String(), filepath.Ext(req.OriginalName))

	url, objectID, err := s.storage.Put(ctx, key, req.Content, req.SizeBytes, req.MimeType)
	if err != nil {
		s.log.Error(ErrUploadFile.Error(), "error", err, "owner_id", ownerID.Hex(), "key", key)
		return nil, ErrUploadFile
	}

	rec := &FileRecord{
		ID:             bson.NewObjectID(),
		OwnerID:        ownerID,
		StorageKey:     key,
		OriginalName:   req.OriginalName,
		RemoteURL:      url,
		RemoteObjectID: objectID,
		MimeType:       req.MimeType,
		SizeBytes:      req.SizeBytes,
		UploadedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		// The object is already remote; remove it so the store does
		// not accumulate orphans no record points at.
		if rmErr := s.storage.Remove(ctx, objectID); rmErr != nil {
			s.log.Error("failed to roll back orphaned object", "error", rmErr, "object_id", objectID)
		}
		s.log.Error(ErrUploadFile.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrUploadFile
	}

	return &FileResponse{Success: true, File: rec, Message: "File uploaded"}, nil
}

// List returns one page of the caller's files, newest first.
func (s *Service) List(ctx context.Context, ownerID bson.ObjectID, req ListFilesRequest) (*ListFilesResponse, error) {
	req.Normalize()

	items, total, err := s.repo.List(ctx, ownerID, req)
	if err != nil {
		s.log.Error(ErrListFiles.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrListFiles
	}
	if items == nil {
		items = []*FileRecord{}
	}

	return &ListFilesResponse{
		Success:    true,
		Files:      items,
		Pagination: pagination.NewMeta(req.Request, total),
	}, nil
}

// Get returns an owned file record.
func (s *Service) Get(ctx context.Context, ownerID, fileID bson.ObjectID) (*FileResponse, error) {
	rec, err := s.repo.FindByID(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		s.log.Error("failed to fetch file", "error", err, "owner_id", ownerID.Hex(), "file_id", fileID.Hex())
		return nil, ErrListFiles
	}
	return &FileResponse{Success: true, File: rec}, nil
}

// Delete removes the remote object first, then the record. A record
// without its object would hand out dead links; an object without its
// record is merely unreferenced.
func (s *Service) Delete(ctx context.Context, ownerID, fileID bson.ObjectID) error {
	rec, err := s.repo.FindByID(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			s.log.Info("file not found for delete", "owner_id", ownerID.Hex(), "file_id", fileID.Hex())
			return ErrFileNotFound
		}
		s.log.Error(ErrDeleteFile.Error(), "error", err, "owner_id", ownerID.Hex(), "file_id", fileID.Hex())
		return ErrDeleteFile
	}

	if err := s.storage.Remove(ctx, rec.RemoteObjectID); err != nil {
		s.log.Error(ErrDeleteFile.Error(), "error", err, "object_id", rec.RemoteObjectID)
		return ErrDeleteFile
	}

	if err := s.repo.Delete(ctx, ownerID, fileID); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return ErrFileNotFound
		}
		s.log.Error(ErrDeleteFile.Error(), "error", err, "owner_id", ownerID.Hex(), "file_id", fileID.Hex())
		return ErrDeleteFile
	}
	return nil
}
