package tasks

import "errors"

// ErrTaskNotFound covers missing tasks and cross-tenant lookups alike.
var ErrTaskNotFound = errors.New("task not found")

// ErrAssigneeNotFound is returned when an assignee id references no user.
var ErrAssigneeNotFound = errors.New("user not found")

// ErrCreateTask is returned when task creation fails.
var ErrCreateTask = errors.New("failed to create task")

// ErrUpdateTask is returned when task update fails.
var ErrUpdateTask = errors.New("failed to update task")

// ErrDeleteTask is returned when task deletion fails.
var ErrDeleteTask = errors.New("failed to delete task")

// ErrListTasks is returned when task listing fails.
var ErrListTasks = errors.New("failed to list tasks")

// ErrCreateTasksRepo is returned when tasks repository creation fails.
var ErrCreateTasksRepo = errors.New("failed to create tasks repository")
