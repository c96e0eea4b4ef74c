// Package mongo owns the process-wide database handle. Repositories in
// the service packages take the *mongo.Database from DB() and never
// dial on their own.
package mongo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"teamdesk/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

var (
	client  *mongo.Client
	db      *mongo.Database
	initErr error
	mu      sync.Mutex
)

// Init dials MongoDB and caches the handle. The first successful call
// wins; later calls return the cached client. A failed ping is returned
// but the client is still cached so the health endpoint can keep
// probing a database that comes up late.
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if client != nil && db != nil {
		return client, db, initErr
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(connectTimeout).
		SetAppName("teamdesk")

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cli, err := mongo.Connect(opts)
	if err != nil {
		log.Error("failed to connect to mongo", "err", err)
		return nil, nil, err
	}

	pingErr := cli.Ping(ctx, readpref.Primary())
	if pingErr != nil {
		log.Error("failed to ping mongo", "err", pingErr)
	} else {
		log.Info("connected to mongo", "db", cfg.MongoDBName)
	}

	client = cli
	db = cli.Database(cfg.MongoDBName)
	initErr = pingErr

	return client, db, pingErr
}

// Client returns the cached MongoDB client, nil before Init.
func Client() *mongo.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

// DB returns the cached database handle, nil before Init.
func DB() *mongo.Database {
	mu.Lock()
	defer mu.Unlock()
	return db
}

// Shutdown disconnects and clears the cached handles. Safe to call
// more than once.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := client.Disconnect(ctx)

	client = nil
	db = nil
	initErr = nil

	return err
}
