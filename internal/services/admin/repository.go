package admin

import (
	"context"

	"teamdesk/internal/services/auth"
	"teamdesk/internal/services/files"
	"teamdesk/internal/services/notes"
	"teamdesk/internal/services/tasks"
	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the cross-tenant read operations available to
// administrators. Listings are unscoped on purpose.
type Repository interface {
	ListUsers(ctx context.Context, req pagination.Request) ([]*auth.User, int64, error)
	ListNotes(ctx context.Context, req pagination.Request) ([]*notes.Note, int64, error)
	ListTasks(ctx context.Context, req pagination.Request) ([]*tasks.Task, int64, error)
	ListFiles(ctx context.Context, req pagination.Request) ([]*files.FileRecord, int64, error)
	UsersByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*auth.User, error)
	Counts(ctx context.Context) (Stats, error)
}
