package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamdesk/internal/services/realtime"
	"teamdesk/internal/utils/pagination"
	"teamdesk/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles tasks business logic.
type Service struct {
	repo  Repository
	users Directory
	bus   Bus
	log   *slog.Logger
}

// NewService creates a new tasks service.
func NewService(repo Repository, users Directory, bus Bus, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		bus:   bus,
		log:   log,
	}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1" example:"Ship the quarterly report"`
	Description string     `json:"description" example:"Numbers from finance, narrative from us"`
	DueDate     *time.Time `json:"due_date,omitempty" example:"2025-07-01T12:00:00Z"`
	AssigneeID  string     `json:"assignee_id,omitempty" validate:"omitempty,len=24,hexadecimal" example:"683cdb8aa96ad71e8e075bd2"`
}

// TaskResponse represents a single task response.
type TaskResponse struct {
	Success bool   `json:"success" example:"true"`
	Task    *Task  `json:"task"`
	Message string `json:"message,omitempty" example:"Task created"`
}

// ListTasksResponse represents a paginated list of tasks.
type ListTasksResponse struct {
	Success    bool            `json:"success" example:"true"`
	Tasks      []*Task         `json:"tasks"`
	Pagination pagination.Meta `json:"pagination"`
}

// Create persists a task owned by the caller. An assignee, when given,
// must reference an existing user; a dangling reference reads as
// "user not found" to avoid confirming foreign ids.
func (s *Service) Create(ctx context.Context, ownerID bson.ObjectID, req CreateTaskRequest) (*TaskResponse, error) {
	assigneeID, err := s.resolveAssignee(ctx, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          bson.NewObjectID(),
		OwnerID:     ownerID,
		AssigneeID:  assigneeID,
		Title:       sanitize.Clean(req.Title),
		Description: sanitize.Clean(req.Description),
		Completed:   false,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.log.Error(ErrCreateTask.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrCreateTask
	}

	s.bus.Publish(ctx, realtime.Notification{
		Kind:    realtime.KindTaskCreated,
		Message: fmt.Sprintf("New task created: %q", task.Title),
		Data: map[string]any{
			"task_id":  task.ID.Hex(),
			"owner_id": ownerID.Hex(),
			"title":    task.Title,
		},
	})

	return &TaskResponse{Success: true, Task: task, Message: "Task created"}, nil
}

// List returns one page of tasks visible to the caller (owned or
// assigned), newest first, optionally filtered by completion state.
func (s *Service) List(ctx context.Context, userID bson.ObjectID, req ListTasksRequest) (*ListTasksResponse, error) {
	req.Normalize()

	items, total, err := s.repo.List(ctx, userID, req)
	if err != nil {
		s.log.Error(ErrListTasks.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListTasks
	}
	if items == nil {
		items = []*Task{}
	}

	return &ListTasksResponse{
		Success:    true,
		Tasks:      items,
		Pagination: pagination.NewMeta(req.Request, total),
	}, nil
}

// Get returns a task the caller owns or is assigned to.
func (s *Service) Get(ctx context.Context, userID, taskID bson.ObjectID) (*TaskResponse, error) {
	task, err := s.repo.FindVisible(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		s.log.Error("failed to fetch task", "error", err, "user_id", userID.Hex(), "task_id", taskID.Hex())
		return nil, ErrListTasks
	}
	return &TaskResponse{Success: true, Task: task}, nil
}

// Update applies a partial patch to an owned task. Assignee changes are
// validated against the directory; an explicit null clears the field.
func (s *Service) Update(ctx context.Context, ownerID, taskID bson.ObjectID, patch UpdateTask) (*TaskResponse, error) {
	if patch.Title != nil {
		cleaned := sanitize.Clean(*patch.Title)
		patch.Title = &cleaned
	}
	if patch.Description != nil {
		cleaned := sanitize.Clean(*patch.Description)
		patch.Description = &cleaned
	}

	if patch.AssigneeID.Set && patch.AssigneeID.Valid {
		if _, err := s.resolveAssignee(ctx, patch.AssigneeID.Value); err != nil {
			return nil, err
		}
	}

	task, err := s.repo.Update(ctx, ownerID, taskID, patch)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.log.Info("task not found for update", "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
			return nil, ErrTaskNotFound
		}
		s.log.Error(ErrUpdateTask.Error(), "error", err, "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
		return nil, ErrUpdateTask
	}

	return &TaskResponse{Success: true, Task: task, Message: "Task updated"}, nil
}

// Complete marks a task completed. Reachable by owner and assignee,
// and idempotent: completing an already-completed task succeeds.
func (s *Service) Complete(ctx context.Context, userID, taskID bson.ObjectID) (*TaskResponse, error) {
	task, err := s.repo.Complete(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.log.Info("task not found for complete", "user_id", userID.Hex(), "task_id", taskID.Hex())
			return nil, ErrTaskNotFound
		}
		s.log.Error(ErrUpdateTask.Error(), "error", err, "user_id", userID.Hex(), "task_id", taskID.Hex())
		return nil, ErrUpdateTask
	}

	s.bus.Publish(ctx, realtime.Notification{
		Kind:    realtime.KindTaskCompleted,
		Message: fmt.Sprintf("Task %q marked as completed", task.Title),
		Data: map[string]any{
			"task_id": task.ID.Hex(),
			"title":   task.Title,
		},
	})

	return &TaskResponse{Success: true, Task: task, Message: "Task marked as completed"}, nil
}

// Delete removes an owned task.
func (s *Service) Delete(ctx context.Context, ownerID, taskID bson.ObjectID) error {
	if err := s.repo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.log.Info("task not found for delete", "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
			return ErrTaskNotFound
		}
		s.log.Error(ErrDeleteTask.Error(), "error", err, "owner_id", ownerID.Hex(), "task_id", taskID.Hex())
		return ErrDeleteTask
	}
	return nil
}

// resolveAssignee parses and verifies an optional assignee reference.
func (s *Service) resolveAssignee(ctx context.Context, raw string) (*bson.ObjectID, error) {
	if raw == "" {
		return nil, nil
	}

	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return nil, ErrAssigneeNotFound
	}

	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		s.log.Error("failed to resolve assignee", "error", err, "assignee_id", raw)
		return nil, ErrCreateTask
	}
	if !ok {
		return nil, ErrAssigneeNotFound
	}
	return &id, nil
}
