package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles assignable to a user. Registration accepts an optional role;
// anything else defaults to RoleStandard.
const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// User represents a registered account. The password hash is stored
// but never serialized.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	FullName     string        `bson:"full_name" json:"full_name" example:"Ann Example"`
	Email        string        `bson:"email" json:"email" example:"ann@example.com"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Role         string        `bson:"role" json:"role" example:"standard"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// RefreshToken is a persisted session credential. Only the SHA-256 of
// the raw token is stored.
type RefreshToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    bson.ObjectID `bson:"user_id" json:"-"`
	TokenHash string        `bson:"token_hash" json:"-"`
	ExpiresAt time.Time     `bson:"expires_at" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"-"`
}
