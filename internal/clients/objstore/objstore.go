// Package objstore wraps the MinIO client behind the small storage
// surface the files service needs.
package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"teamdesk/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client is an S3-compatible object store bound to one bucket.
type Client struct {
	mc     *minio.Client
	bucket string
	public string
	log    *slog.Logger
}

// Init connects to the object store and ensures the bucket exists.
func Init(ctx context.Context, cfg config.Config, log *slog.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info("created object store bucket", "bucket", cfg.Minio.Bucket)
	}

	scheme := "http"
	if cfg.Minio.UseSSL {
		scheme = "https"
	}

	return &Client{
		mc:     mc,
		bucket: cfg.Minio.Bucket,
		public: fmt.Sprintf("%s://%s/%s", scheme, cfg.Minio.Endpoint, cfg.Minio.Bucket),
		log:    log,
	}, nil
}

// Put streams an object into the bucket and returns its public URL and
// object id. The object id doubles as the removal handle.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, string, error) {
	info, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		c.log.Error("failed to put object", "error", err, "key", key)
		return "", "", err
	}

	url := fmt.Sprintf("%s/%s", c.public, info.Key)
	return url, info.Key, nil
}

// Remove deletes an object from the bucket.
func (c *Client) Remove(ctx context.Context, objectID string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, objectID, minio.RemoveObjectOptions{}); err != nil {
		c.log.Error("failed to remove object", "error", err, "object_id", objectID)
		return err
	}
	return nil
}
