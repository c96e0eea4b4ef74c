package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"teamdesk/internal/logger"
	"teamdesk/internal/services/auth"
)

// RefreshTokensRepo manages refresh token records in MongoDB. Lookups
// go by token hash; expired documents are reaped by a TTL index.
type RefreshTokensRepo struct {
	collection *mongo.Collection
}

// NewRefreshTokensRepo creates a new RefreshTokensRepo instance
func NewRefreshTokensRepo(db *mongo.Database) *RefreshTokensRepo {
	collection := db.Collection("refresh_tokens")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), OpTimeout)
	defer cancel()

	// Ignore error if indexes already exist
	for _, indexModel := range indexes {
		_, _ = collection.Indexes().CreateOne(ctx, indexModel)
	}

	return &RefreshTokensRepo{
		collection: collection,
	}
}

// Create creates a new refresh token record
func (r *RefreshTokensRepo) Create(ctx context.Context, token *auth.RefreshToken) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		logger.L().Error("failed to create refresh token", "error", err, "user_id", token.UserID.Hex())
		return err
	}

	logger.L().Debug("refresh token created", "user_id", token.UserID.Hex(), "expires_at", token.ExpiresAt)

	return nil
}

// FindByHash finds a refresh token record by its stored hash
func (r *RefreshTokensRepo) FindByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var token auth.RefreshToken
	err := r.collection.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrInvalidRefreshToken
		}
		logger.L().Error("failed to query refresh token", "error", err)
		return nil, err
	}

	return &token, nil
}

// Delete removes a refresh token record by id
func (r *RefreshTokensRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.L().Error("failed to delete refresh token", "error", err, "token_id", id.Hex())
		return err
	}

	if result.DeletedCount == 0 {
		logger.L().Warn("refresh token not found for deletion", "token_id", id.Hex())
		return auth.ErrInvalidRefreshToken
	}

	return nil
}

// DeleteAllForUser removes every refresh token a user holds
func (r *RefreshTokensRepo) DeleteAllForUser(ctx context.Context, userID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.L().Error("failed to delete refresh tokens for user", "error", err, "user_id", userID.Hex())
		return err
	}

	logger.L().Debug("deleted refresh tokens for user", "user_id", userID.Hex(), "deleted_count", result.DeletedCount)

	return nil
}
