package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamdesk/internal/logger"
	"teamdesk/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NotesRepo implements the notes.Repository interface for MongoDB
type NotesRepo struct {
	collection *mongo.Collection
}

// translateNoteNotFound maps the driver ErrNoDocuments to the domain-level ErrNoteNotFound.
func translateNoteNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notes.ErrNoteNotFound
	}
	return err
}

// NewNotesRepo creates a new notes repository
func NewNotesRepo(parentCtx context.Context, db *mongo.Database) (*NotesRepo, error) {
	collection := db.Collection("notes")

	indexes := []mongo.IndexModel{
		// List pagination: newest first within an owner
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
		// Tag filter within an owner
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "tags", Value: 1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		_, err := collection.Indexes().CreateOne(ctx, indexModel)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "notes")
			} else {
				logger.L().Error("failed to create index", "collection", "notes", "error", err)
				return nil, fmt.Errorf("failed to create notes collection index: %w", err)
			}
		}
	}

	return &NotesRepo{
		collection: collection,
	}, nil
}

// Create creates a new note in the database
func (r *NotesRepo) Create(ctx context.Context, note *notes.Note) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, note)
	return err
}

// List retrieves one page of a user's notes, newest first, optionally
// filtered by tag.
func (r *NotesRepo) List(ctx context.Context, ownerID bson.ObjectID, req notes.ListNotesRequest) ([]*notes.Note, int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"owner_id": ownerID}
	if req.Tag != "" {
		filter["tags"] = req.Tag
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
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

	var notesList []*notes.Note
	if err := cursor.All(ctx, &notesList); err != nil {
		return nil, total, err
	}

	return notesList, total, nil
}

// FindByID finds a note belonging to the specified user
func (r *NotesRepo) FindByID(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      noteID,
		"owner_id": ownerID,
	}

	var note notes.Note
	if err := r.collection.FindOne(ctx, filter).Decode(&note); err != nil {
		return nil, translateNoteNotFound(err)
	}

	return &note, nil
}

// Update updates a note belonging to the specified user
func (r *NotesRepo) Update(ctx context.Context, ownerID, noteID bson.ObjectID, patch notes.UpdateNote) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      noteID,
		"owner_id": ownerID,
	}

	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	// Only update fields that are provided
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}

	// Skip update if only updated_at would be set
	if len(set) == 1 {
		var existingNote notes.Note
		if err := r.collection.FindOne(ctx, filter).Decode(&existingNote); err != nil {
			return nil, translateNoteNotFound(err)
		}
		return &existingNote, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updatedNote notes.Note
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updatedNote); err != nil {
		return nil, translateNoteNotFound(err)
	}

	return &updatedNote, nil
}

// Delete deletes a note belonging to the specified user
func (r *NotesRepo) Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      noteID,
		"owner_id": ownerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return notes.ErrNoteNotFound
	}

	return nil
}
