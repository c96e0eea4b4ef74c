package mongo

import (
	"context"
	"errors"

	"teamdesk/internal/services/auth"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersRepo implements the auth.UsersRepo interface for MongoDB. It
// also serves the Directory lookups the tasks and messages services
// need.
type UsersRepo struct {
	collection *mongo.Collection
}

// NewUsersRepo creates a new users repository
func NewUsersRepo(db *mongo.Database) *UsersRepo {
	collection := db.Collection("users")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(context.Background(), OpTimeout)
	defer cancel()

	// Ignore error if index already exists
	_, _ = collection.Indexes().CreateOne(ctx, indexModel)

	return &UsersRepo{
		collection: collection,
	}
}

// Create creates a new user in the database
func (r *UsersRepo) Create(ctx context.Context, user *auth.User) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrDuplicate
		}
		return err
	}

	return nil
}

// FindByEmail finds a user by email address
func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByID finds a user by id
func (r *UsersRepo) FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Exists reports whether a user with the given id is registered.
func (r *UsersRepo) Exists(ctx context.Context, id bson.ObjectID) (bool, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DisplayName returns a user's full name, or "" when the user is gone.
func (r *UsersRepo) DisplayName(ctx context.Context, id bson.ObjectID) (string, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.FullName, nil
}
