package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamdesk/internal/logger"
	"teamdesk/internal/services/tasks"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// TasksRepo implements the tasks.Repository interface for MongoDB
type TasksRepo struct {
	collection *mongo.Collection
}

// translateTaskNotFound maps the driver ErrNoDocuments to the domain-level ErrTaskNotFound.
func translateTaskNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tasks.ErrTaskNotFound
	}
	return err
}

// visibleFilter matches tasks the user owns or is assigned to.
func visibleFilter(userID bson.ObjectID) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"owner_id": userID},
			bson.M{"assignee_id": userID},
		},
	}
}

// NewTasksRepo creates a new tasks repository
func NewTasksRepo(parentCtx context.Context, db *mongo.Database) (*TasksRepo, error) {
	collection := db.Collection("tasks")

	indexes := []mongo.IndexModel{
		// List pagination: newest first within an owner
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
		// Assignee-side visibility
		{
			Keys: bson.D{
				{Key: "assignee_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		_, err := collection.Indexes().CreateOne(ctx, indexModel)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "tasks")
			} else {
				logger.L().Error("failed to create index", "collection", "tasks", "error", err)
				return nil, fmt.Errorf("failed to create tasks collection index: %w", err)
			}
		}
	}

	return &TasksRepo{
		collection: collection,
	}, nil
}

// Create creates a new task in the database
func (r *TasksRepo) Create(ctx context.Context, task *tasks.Task) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// List retrieves one page of tasks visible to the user, newest first,
// optionally filtered by completion state.
func (r *TasksRepo) List(ctx context.Context, userID bson.ObjectID, req tasks.ListTasksRequest) ([]*tasks.Task, int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := visibleFilter(userID)
	if req.Completed != nil {
		filter["completed"] = *req.Completed
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

	var taskList []*tasks.Task
	if err := cursor.All(ctx, &taskList); err != nil {
		return nil, total, err
	}

	return taskList, total, nil
}

// FindVisible finds a task the user owns or is assigned to
func (r *TasksRepo) FindVisible(ctx context.Context, userID, taskID bson.ObjectID) (*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := visibleFilter(userID)
	filter["_id"] = taskID

	var task tasks.Task
	if err := r.collection.FindOne(ctx, filter).Decode(&task); err != nil {
		return nil, translateTaskNotFound(err)
	}

	return &task, nil
}

// Update applies a partial patch to a task the user owns. Cleared
// nullable fields are removed from the document rather than zeroed.
func (r *TasksRepo) Update(ctx context.Context, ownerID, taskID bson.ObjectID, patch tasks.UpdateTask) (*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      taskID,
		"owner_id": ownerID,
	}

	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.DueDate.Set {
		if patch.DueDate.Valid {
			set["due_date"] = patch.DueDate.Value
		} else {
			unset["due_date"] = ""
		}
	}
	if patch.AssigneeID.Set {
		if patch.AssigneeID.Valid {
			id, err := bson.ObjectIDFromHex(patch.AssigneeID.Value)
			if err != nil {
				return nil, tasks.ErrAssigneeNotFound
			}
			set["assignee_id"] = id
		} else {
			unset["assignee_id"] = ""
		}
	}

	// Skip update if only updated_at would be set
	if len(set) == 1 && len(unset) == 0 {
		var existingTask tasks.Task
		if err := r.collection.FindOne(ctx, filter).Decode(&existingTask); err != nil {
			return nil, translateTaskNotFound(err)
		}
		return &existingTask, nil
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updatedTask tasks.Task
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updatedTask); err != nil {
		return nil, translateTaskNotFound(err)
	}

	return &updatedTask, nil
}

// Complete marks a visible task completed. Re-completing an already
// completed task matches the same filter, so the call stays idempotent.
func (r *TasksRepo) Complete(ctx context.Context, userID, taskID bson.ObjectID) (*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := visibleFilter(userID)
	filter["_id"] = taskID

	update := bson.M{
		"$set": bson.M{
			"completed":  true,
			"updated_at": time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task tasks.Task
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&task); err != nil {
		return nil, translateTaskNotFound(err)
	}

	return &task, nil
}

// Delete deletes a task belonging to the specified user
func (r *TasksRepo) Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":      taskID,
		"owner_id": ownerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return tasks.ErrTaskNotFound
	}

	return nil
}
