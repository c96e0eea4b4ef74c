package notes

import (
	"context"

	"teamdesk/internal/services/realtime"
	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for notes repository operations.
// Every method applies the owner scope inside the query filter, not as
// a post-check.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	List(ctx context.Context, ownerID bson.ObjectID, req ListNotesRequest) ([]*Note, int64, error)
	FindByID(ctx context.Context, ownerID, noteID bson.ObjectID) (*Note, error)
	Update(ctx context.Context, ownerID, noteID bson.ObjectID, patch UpdateNote) (*Note, error)
	Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error
}

// Bus is the hub-facing side of the service: domain events published
// here fan out to subscribed socket connections.
type Bus interface {
	Publish(ctx context.Context, n realtime.Notification)
}

// ListNotesRequest carries the list query parameters.
type ListNotesRequest struct {
	pagination.Request
	Tag string `query:"tag" validate:"omitempty,min=1,max=64" example:"work"`
}
