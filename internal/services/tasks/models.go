package tasks

import (
	"time"

	"teamdesk/internal/utils/optional"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Task is owned by one user and optionally assigned to another.
// The owner and the assignee can read it; only the owner can edit it,
// except for the dedicated completion operation which the assignee may
// call too.
type Task struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	OwnerID     bson.ObjectID  `bson:"owner_id" json:"owner_id" example:"683cdb8aa96ad71e8e075bd0"`
	AssigneeID  *bson.ObjectID `bson:"assignee_id,omitempty" json:"assignee_id,omitempty" example:"683cdb8aa96ad71e8e075bd2"`
	Title       string         `bson:"title" json:"title" example:"Ship the quarterly report"`
	Description string         `bson:"description" json:"description" example:"Numbers from finance, narrative from us"`
	Completed   bool           `bson:"completed" json:"completed" example:"false"`
	DueDate     *time.Time     `bson:"due_date,omitempty" json:"due_date,omitempty" example:"2025-07-01T12:00:00Z"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// UpdateTask holds a partial patch. Pointers distinguish absent from
// set; the nullable fields use tri-state optionals so a patch can
// clear a due date or unassign a task explicitly.
type UpdateTask struct {
	Title       *string                   `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string                   `json:"description,omitempty"`
	Completed   *bool                     `json:"completed,omitempty"`
	DueDate     optional.Field[time.Time] `json:"due_date"`
	AssigneeID  optional.Field[string]    `json:"assignee_id"`
}
