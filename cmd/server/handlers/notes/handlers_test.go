package notes

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"teamdesk/cmd/server/testutil"
	"teamdesk/internal/services/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	notesEndpoint = "/api/notes"
	jwtSecret     = "test-secret-with-32-plus-characters"
)

// MockNotesService mocks the notes service
type MockNotesService struct {
	mock.Mock
}

func (m *MockNotesService) Create(ctx context.Context, ownerID bson.ObjectID, req notes.CreateNoteRequest) (*notes.NoteResponse, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) List(ctx context.Context, ownerID bson.ObjectID, req notes.ListNotesRequest) (*notes.ListNotesResponse, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.ListNotesResponse), args.Error(1)
}

func (m *MockNotesService) Get(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.NoteResponse, error) {
	args := m.Called(ctx, ownerID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) Update(ctx context.Context, ownerID, noteID bson.ObjectID, patch notes.UpdateNote) (*notes.NoteResponse, error) {
	args := m.Called(ctx, ownerID, noteID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notes.NoteResponse), args.Error(1)
}

func (m *MockNotesService) Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error {
	args := m.Called(ctx, ownerID, noteID)
	return args.Error(0)
}

// NotesTestSetup contains common test setup data
type NotesTestSetup struct {
	MockService *MockNotesService
	App         *fiber.App
	UserID      bson.ObjectID
	Token       string
}

// SetupNotesTest wires the handlers behind the JWT middleware
func SetupNotesTest(t *testing.T) *NotesTestSetup {
	t.Helper()

	mockService := &MockNotesService{}
	app := testutil.CreateTestApp(t)
	validator := testutil.CreateTestValidator(t)

	h := NewHandlers(mockService, validator)

	api := app.Group("/api")
	grp := api.Group("/notes", testutil.SetupJWTMiddleware(jwtSecret))
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Update)
	grp.Patch("/:id", h.Update)
	grp.Delete("/:id", h.Delete)

	userID := bson.NewObjectID()
	token, err := testutil.CreateTestJWT(userID.Hex(), "standard", []byte(jwtSecret), time.Hour)
	require.NoError(t, err)

	return &NotesTestSetup{
		MockService: mockService,
		App:         app,
		UserID:      userID,
		Token:       token,
	}
}

func TestNotesCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		setup := SetupNotesTest(t)

		note := &notes.Note{ID: bson.NewObjectID(), OwnerID: setup.UserID, Title: "Standup"}
		setup.MockService.On("Create", mock.Anything, setup.UserID, notes.CreateNoteRequest{
			Title:   "Standup",
			Content: "Agenda",
		}).Return(&notes.NoteResponse{Success: true, Note: note, Message: "Note created"}, nil).Once()

		req := testutil.CreateAuthenticatedRequest("POST", notesEndpoint, map[string]string{
			"title":   "Standup",
			"content": "Agenda",
		}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var got notes.NoteResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.Success)
		assert.Equal(t, "Standup", got.Note.Title)

		setup.MockService.AssertExpectations(t)
	})

	t.Run("missing title is invalid", func(t *testing.T) {
		setup := SetupNotesTest(t)

		req := testutil.CreateAuthenticatedRequest("POST", notesEndpoint, map[string]string{
			"content": "Agenda",
		}, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		setup.MockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		setup := SetupNotesTest(t)

		req := testutil.CreateJSONRequest("POST", notesEndpoint, map[string]string{"title": "x", "content": "y"})
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestNotesList(t *testing.T) {
	setup := SetupNotesTest(t)

	setup.MockService.On("List", mock.Anything, setup.UserID, mock.MatchedBy(func(req notes.ListNotesRequest) bool {
		return req.Page == 2 && req.Limit == 5 && req.Tag == "work"
	})).Return(&notes.ListNotesResponse{Success: true, Notes: []*notes.Note{}}, nil).Once()

	req := testutil.CreateAuthenticatedRequest("GET", notesEndpoint+"?page=2&limit=5&tag=work", nil, setup.Token)
	resp, err := setup.App.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	setup.MockService.AssertExpectations(t)
}

func TestNotesGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		setup := SetupNotesTest(t)
		noteID := bson.NewObjectID()

		setup.MockService.On("Get", mock.Anything, setup.UserID, noteID).
			Return(&notes.NoteResponse{Success: true, Note: &notes.Note{ID: noteID}}, nil).Once()

		req := testutil.CreateAuthenticatedRequest("GET", notesEndpoint+"/"+noteID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		setup := SetupNotesTest(t)
		noteID := bson.NewObjectID()

		setup.MockService.On("Get", mock.Anything, setup.UserID, noteID).
			Return(nil, notes.ErrNoteNotFound).Once()

		req := testutil.CreateAuthenticatedRequest("GET", notesEndpoint+"/"+noteID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("malformed id is 404 not 400", func(t *testing.T) {
		setup := SetupNotesTest(t)

		req := testutil.CreateAuthenticatedRequest("GET", notesEndpoint+"/not-an-object-id", nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		setup.MockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotesUpdate(t *testing.T) {
	// The update route answers both verbs; partial semantics either way.
	for _, method := range []string{"PUT", "PATCH"} {
		t.Run(method, func(t *testing.T) {
			setup := SetupNotesTest(t)
			noteID := bson.NewObjectID()
			title := "Renamed"

			setup.MockService.On("Update", mock.Anything, setup.UserID, noteID, mock.MatchedBy(func(patch notes.UpdateNote) bool {
				return patch.Title != nil && *patch.Title == title && patch.Content == nil
			})).Return(&notes.NoteResponse{Success: true, Note: &notes.Note{ID: noteID, Title: title}}, nil).Once()

			req := testutil.CreateAuthenticatedRequest(method, notesEndpoint+"/"+noteID.Hex(), map[string]string{
				"title": title,
			}, setup.Token)
			resp, err := setup.App.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			setup.MockService.AssertExpectations(t)
		})
	}
}

func TestNotesDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		setup := SetupNotesTest(t)
		noteID := bson.NewObjectID()

		setup.MockService.On("Delete", mock.Anything, setup.UserID, noteID).Return(nil).Once()

		req := testutil.CreateAuthenticatedRequest("DELETE", notesEndpoint+"/"+noteID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
	})

	t.Run("foreign note reads as 404", func(t *testing.T) {
		setup := SetupNotesTest(t)
		noteID := bson.NewObjectID()

		setup.MockService.On("Delete", mock.Anything, setup.UserID, noteID).Return(notes.ErrNoteNotFound).Once()

		req := testutil.CreateAuthenticatedRequest("DELETE", notesEndpoint+"/"+noteID.Hex(), nil, setup.Token)
		resp, err := setup.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
