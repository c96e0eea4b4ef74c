package tasks

import (
	"context"

	"teamdesk/internal/services/realtime"
	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the task persistence operations. Read methods
// scope to owner-or-assignee, write methods to owner only; the scope
// lives in the query filter so an unauthorized id behaves exactly like
// a missing one.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	List(ctx context.Context, userID bson.ObjectID, req ListTasksRequest) ([]*Task, int64, error)
	FindVisible(ctx context.Context, userID, taskID bson.ObjectID) (*Task, error)
	Update(ctx context.Context, ownerID, taskID bson.ObjectID, patch UpdateTask) (*Task, error)
	Complete(ctx context.Context, userID, taskID bson.ObjectID) (*Task, error)
	Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error
}

// Directory resolves user references when validating assignees.
type Directory interface {
	Exists(ctx context.Context, id bson.ObjectID) (bool, error)
}

// Bus publishes task domain events to the realtime hub.
type Bus interface {
	Publish(ctx context.Context, n realtime.Notification)
}

// ListTasksRequest carries the list query parameters.
type ListTasksRequest struct {
	pagination.Request
	Completed *bool `query:"completed" example:"false"`
}
