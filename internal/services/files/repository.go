package files

import (
	"context"
	"io"

	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the file metadata persistence operations,
// owner-scoped throughout.
type Repository interface {
	Create(ctx context.Context, f *FileRecord) error
	List(ctx context.Context, ownerID bson.ObjectID, req ListFilesRequest) ([]*FileRecord, int64, error)
	FindByID(ctx context.Context, ownerID, fileID bson.ObjectID) (*FileRecord, error)
	Delete(ctx context.Context, ownerID, fileID bson.ObjectID) error
}

// Storage is the external object store holding the binary content.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url, objectID string, err error)
	Remove(ctx context.Context, objectID string) error
}

// ListFilesRequest carries the list query parameters.
type ListFilesRequest struct {
	pagination.Request
}
