package mongo

import (
	"context"
	"errors"

	"teamdesk/internal/logger"
	"teamdesk/internal/services/files"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FilesRepo implements the files.Repository interface for MongoDB
type FilesRepo struct {
	collection *mongo.Collection
}

// translateFileNotFound maps the driver ErrNoDocuments to the domain-level ErrFileNotFound.
func translateFileNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return files.ErrFileNotFound
	}
	return err
}

// NewFilesRepo creates a new files repository
func NewFilesRepo(parentCtx context.Context, db *mongo.Database) (*FilesRepo, error) {
	collection := db.Collection("files")

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "uploaded_at", Value: -1},
			{Key: "_id", Value: -1},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "files")
		} else {
			logger.L().Error("failed to create index", "collection", "files", "error", err)
			return nil, files.ErrCreateFilesRepo
		}
	}

	return &FilesRepo{
		collection: collection,
	}, nil
}

// Create creates a new file record in the database
func (r *FilesRepo) Create(ctx context.Context, f *files.FileRecord) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, f)
	return err
}

// List retrieves one page of a user's file records, newest first.
func (r *FilesRepo) List(ctx context.Context, ownerID bson.ObjectID, req files.ListFilesRequest) ([]*files.FileRecord, int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"owner_id": ownerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(req.Skip())).
		SetLimit(int64(req.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, total, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	var records []*files.FileRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, total, err
	}

	return records, total, nil
}

// FindByID finds a file record belonging to the specified user
func (r *FilesRepo) FindByID(ctx context.Context, ownerID, fileID bson.ObjectID) (*files.FileRecord, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      fileID,
		"owner_id": ownerID,
	}

	var rec files.FileRecord
	if err := r.collection.FindOne(ctx, filter).Decode(&rec); err != nil {
		return nil, translateFileNotFound(err)
	}

	return &rec, nil
}

// Delete deletes a file record belonging to the specified user
func (r *FilesRepo) Delete(ctx context.Context, ownerID, fileID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      fileID,
		"owner_id": ownerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return files.ErrFileNotFound
	}

	return nil
}
