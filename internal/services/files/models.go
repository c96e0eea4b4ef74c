package files

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FileRecord is metadata only; the binary content lives in the
// external object store and is addressed by RemoteObjectID.
type FileRecord struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	OwnerID        bson.ObjectID `bson:"owner_id" json:"owner_id" example:"683cdb8aa96ad71e8e075bd0"`
	StorageKey     string        `bson:"storage_key" json:"storage_key" example:"01JWV9GJ4R8Z3TQD3E3F8H2K5M.pdf"`
	OriginalName   string        `bson:"original_name" json:"original_name" example:"report.pdf"`
	RemoteURL      string        `bson:"remote_url" json:"remote_url" example:"https://storage.example.com/teamdesk/01JWV9GJ4R.pdf"`
	RemoteObjectID string        `bson:"remote_object_id" json:"remote_object_id" example:"01JWV9GJ4R8Z3TQD3E3F8H2K5M.pdf"`
	MimeType       string        `bson:"mime_type" json:"mime_type" example:"application/pdf"`
	SizeBytes      int64         `bson:"size_bytes" json:"size_bytes" example:"48213"`
	UploadedAt     time.Time     `bson:"uploaded_at" json:"uploaded_at" example:"2025-06-01T23:00:26.005703677Z"`
}
