package files

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"teamdesk/internal/utils/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var errStorage = errors.New("storage error")

const testMaxBytes = 10 << 20

// MockFilesRepo is a mock implementation of Repository
type MockFilesRepo struct {
	mock.Mock
}

func (m *MockFilesRepo) Create(ctx context.Context, rec *FileRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFilesRepo) List(ctx context.Context, ownerID bson.ObjectID, req ListFilesRequest) ([]*FileRecord, int64, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*FileRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockFilesRepo) FindByID(ctx context.Context, ownerID, fileID bson.ObjectID) (*FileRecord, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FileRecord), args.Error(1)
}

func (m *MockFilesRepo) Delete(ctx context.Context, ownerID, fileID bson.ObjectID) error {
	args := m.Called(ctx, ownerID, fileID)
	return args.Error(0)
}

// MockStorage is a mock implementation of Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, objectID string) error {
	args := m.Called(ctx, objectID)
	return args.Error(0)
}

func TestServiceUpload(t *testing.T) {
	ownerID := bson.NewObjectID()

	t.Run("successful upload", func(t *testing.T) {
		repo := new(MockFilesRepo)
		storage := new(MockStorage)

		storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".pdf")
		}), mock.Anything, int64(1024), "application/pdf").Return("http://minio/teamdesk/x.pdf", "x.pdf", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*files.FileRecord")).Return(nil)

		service := NewService(repo, storage, testMaxBytes, silentLogger)
		resp, err := service.Upload(context.Background(), ownerID, UploadRequest{
			OriginalName: "report.pdf",
			MimeType:     "application/pdf",
			SizeBytes:    1024,
			Content:      strings.NewReader("content"),
		})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, ownerID, resp.File.OwnerID)
		assert.Equal(t, "report.pdf", resp.File.OriginalName)
		assert.Equal(t, "http://minio/teamdesk/x.pdf", resp.File.RemoteURL)

		repo.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("missing content", func(t *testing.T) {
		service := NewService(new(MockFilesRepo), new(MockStorage), testMaxBytes, silentLogger)

		resp, err := service.Upload(context.Background(), ownerID, UploadRequest{OriginalName: "a.txt"})
		assert.ErrorIs(t, err, ErrNoFile)
		assert.Nil(t, resp)
	})

	t.Run("over the size cap", func(t *testing.T) {
		storage := new(MockStorage)
		service := NewService(new(MockFilesRepo), storage, testMaxBytes, silentLogger)

		resp, err := service.Upload(context.Background(), ownerID, UploadRequest{
			OriginalName: "huge.bin",
			SizeBytes:    testMaxBytes + 1,
			Content:      strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Nil(t, resp)
		storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockFilesRepo)
		storage := new(MockStorage)
		storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", "", errStorage)

		service := NewService(repo, storage, testMaxBytes, silentLogger)
		resp, err := service.Upload(context.Background(), ownerID, UploadRequest{
			OriginalName: "a.txt",
			SizeBytes:    10,
			Content:      strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, ErrUploadFile)
		assert.Nil(t, resp)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("metadata failure rolls back the remote object", func(t *testing.T) {
		repo := new(MockFilesRepo)
		storage := new(MockStorage)
		storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("http://minio/teamdesk/y.txt", "y.txt", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*files.FileRecord")).Return(errStorage)
		storage.On("Remove", mock.Anything, "y.txt").Return(nil)

		service := NewService(repo, storage, testMaxBytes, silentLogger)
		resp, err := service.Upload(context.Background(), ownerID, UploadRequest{
			OriginalName: "a.txt",
			SizeBytes:    10,
			Content:      strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, ErrUploadFile)
		assert.Nil(t, resp)
		storage.AssertExpectations(t)
	})
}

func TestServiceList(t *testing.T) {
	ownerID := bson.NewObjectID()

	t.Run("returns page with metadata", func(t *testing.T) {
		repo := new(MockFilesRepo)
		items := []*FileRecord{
			{ID: bson.NewObjectID(), OwnerID: ownerID, OriginalName: "a.txt", UploadedAt: time.Now().UTC()},
		}
		repo.On("List", mock.Anything, ownerID, mock.AnythingOfType("files.ListFilesRequest")).Return(items, int64(1), nil)

		service := NewService(repo, new(MockStorage), testMaxBytes, silentLogger)
		resp, err := service.List(context.Background(), ownerID, ListFilesRequest{
			Request: pagination.Request{Page: 1, Limit: 10},
		})

		require.NoError(t, err)
		assert.Len(t, resp.Files, 1)
		assert.Equal(t, int64(1), resp.Pagination.Total)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockFilesRepo)
		repo.On("List", mock.Anything, ownerID, mock.AnythingOfType("files.ListFilesRequest")).Return(nil, int64(0), errStorage)

		service := NewService(repo, new(MockStorage), testMaxBytes, silentLogger)
		resp, err := service.List(context.Background(), ownerID, ListFilesRequest{})

		assert.ErrorIs(t, err, ErrListFiles)
		assert.Nil(t, resp)
	})
}

func TestServiceGet(t *testing.T) {
	ownerID := bson.NewObjectID()
	fileID := bson.NewObjectID()

	t.Run("found", func(t *testing.T) {
		repo := new(MockFilesRepo)
		repo.On("FindByID", mock.Anything, ownerID, fileID).Return(&FileRecord{ID: fileID}, nil)

		service := NewService(repo, new(MockStorage), testMaxBytes, silentLogger)
		resp, err := service.Get(context.Background(), ownerID, fileID)

		require.NoError(t, err)
		assert.Equal(t, fileID, resp.File.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockFilesRepo)
		repo.On("FindByID", mock.Anything, ownerID, fileID).Return(nil, ErrFileNotFound)

		service := NewService(repo, new(MockStorage), testMaxBytes, silentLogger)
		resp, err := service.Get(context.Background(), ownerID, fileID)

		assert.ErrorIs(t, err, ErrFileNotFound)
		assert.Nil(t, resp)
	})
}

func TestServiceDelete(t *testing.T) {
	ownerID := bson.NewObjectID()
	fileID := bson.NewObjectID()

	rec := &FileRecord{ID: fileID, OwnerID: ownerID, RemoteObjectID: "z.txt"}

	t.Run("removes object before record", func(t *testing.T) {
		repo := new(MockFilesRepo)
		storage := new(MockStorage)
		repo.On("FindByID", mock.Anything, ownerID, fileID).Return(rec, nil)
		storage.On("Remove", mock.Anything, "z.txt").Return(nil)
		repo.On("Delete", mock.Anything, ownerID, fileID).Return(nil)

		service := NewService(repo, storage, testMaxBytes, silentLogger)
		assert.NoError(t, service.Delete(context.Background(), ownerID, fileID))

		repo.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockFilesRepo)
		repo.On("FindByID", mock.Anything, ownerID, fileID).Return(nil, ErrFileNotFound)

		service := NewService(repo, new(MockStorage), testMaxBytes, silentLogger)
		assert.ErrorIs(t, service.Delete(context.Background(), ownerID, fileID), ErrFileNotFound)
	})

	t.Run("remote removal failure keeps the record", func(t *testing.T) {
		repo := new(MockFilesRepo)
		storage := new(MockStorage)
		repo.On("FindByID", mock.Anything, ownerID, fileID).Return(rec, nil)
		storage.On("Remove", mock.Anything, "z.txt").Return(errStorage)

		service := NewService(repo, storage, testMaxBytes, silentLogger)
		assert.ErrorIs(t, service.Delete(context.Background(), ownerID, fileID), ErrDeleteFile)

		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
