package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UsersRepo defines the interface for user repository operations.
type UsersRepo interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)
}

// RefreshTokensRepo persists refresh tokens (the session store).
type RefreshTokensRepo interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteAllForUser(ctx context.Context, userID bson.ObjectID) error
}
