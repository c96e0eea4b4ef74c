package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Note is a user-owned note. Every query against the collection is
// owner-scoped; a note is never visible outside its owner.
type Note struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	OwnerID   bson.ObjectID `bson:"owner_id" json:"owner_id" example:"683cdb8aa96ad71e8e075bd0"`
	Title     string        `bson:"title" json:"title" example:"Meeting Notes"`
	Content   string        `bson:"content" json:"content" example:"Remember to discuss the quarterly targets"`
	Tags      []string      `bson:"tags" json:"tags" example:"work,planning"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// UpdateNote holds the fields a patch may change. A nil pointer means
// the field was absent from the request and stays untouched, so an
// empty string or empty tag list is a valid explicit value.
type UpdateNote struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Content *string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Tags    *[]string `json:"tags,omitempty"`
}
