package mongo

import (
	"context"

	"teamdesk/internal/logger"
	"teamdesk/internal/services/admin"
	"teamdesk/internal/services/auth"
	"teamdesk/internal/services/files"
	"teamdesk/internal/services/notes"
	"teamdesk/internal/services/tasks"
	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AdminRepo implements the admin.Repository interface for MongoDB.
// Unlike the per-service repos it reads across owners.
type AdminRepo struct {
	users *mongo.Collection
	notes *mongo.Collection
	tasks *mongo.Collection
	files *mongo.Collection
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(db *mongo.Database) *AdminRepo {
	return &AdminRepo{
		users: db.Collection("users"),
		notes: db.Collection("notes"),
		tasks: db.Collection("tasks"),
		files: db.Collection("files"),
	}
}

// page runs an unscoped count plus a skip/limit find against coll and
// decodes the result into out.
func page(ctx context.Context, coll *mongo.Collection, req pagination.Request, sortKey string, out any) (int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortKey, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(req.Skip())).
		SetLimit(int64(req.Limit))

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return total, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return total, err
	}

	return total, nil
}

// ListUsers returns one page of all users, newest first
func (r *AdminRepo) ListUsers(ctx context.Context, req pagination.Request) ([]*auth.User, int64, error) {
	var list []*auth.User
	total, err := page(ctx, r.users, req, "created_at", &list)
	return list, total, err
}

// ListNotes returns one page of all notes, newest first
func (r *AdminRepo) ListNotes(ctx context.Context, req pagination.Request) ([]*notes.Note, int64, error) {
	var list []*notes.Note
	total, err := page(ctx, r.notes, req, "created_at", &list)
	return list, total, err
}

// ListTasks returns one page of all tasks, newest first
func (r *AdminRepo) ListTasks(ctx context.Context, req pagination.Request) ([]*tasks.Task, int64, error) {
	var list []*tasks.Task
	total, err := page(ctx, r.tasks, req, "created_at", &list)
	return list, total, err
}

// ListFiles returns one page of all file records, newest first
func (r *AdminRepo) ListFiles(ctx context.Context, req pagination.Request) ([]*files.FileRecord, int64, error) {
	var list []*files.FileRecord
	total, err := page(ctx, r.files, req, "uploaded_at", &list)
	return list, total, err
}

// UsersByIDs loads the given users keyed by id. Missing ids are simply
// absent from the result.
func (r *AdminRepo) UsersByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var list []*auth.User
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	out := make(map[bson.ObjectID]*auth.User, len(list))
	for _, u := range list {
		out[u.ID] = u
	}
	return out, nil
}

// Counts returns document counts across all four collections.
func (r *AdminRepo) Counts(ctx context.Context) (admin.Stats, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var stats admin.Stats
	var err error

	if stats.Users, err = r.users.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	if stats.Notes, err = r.notes.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	if stats.Tasks, err = r.tasks.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	if stats.Files, err = r.files.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}

	return stats, nil
}
