package messages

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"teamdesk/internal/services/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockRelay is a mock implementation of Relay
type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) RelayToRoom(roomID string, ev realtime.Event) {
	m.Called(roomID, ev)
}

// MockDirectory is a mock implementation of Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) DisplayName(ctx context.Context, id bson.ObjectID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func TestServiceSend(t *testing.T) {
	senderID := bson.NewObjectID()

	t.Run("records and relays", func(t *testing.T) {
		relay := new(MockRelay)
		users := new(MockDirectory)
		users.On("DisplayName", mock.Anything, senderID).Return("Ann", nil)
		relay.On("RelayToRoom", "standup", mock.MatchedBy(func(ev realtime.Event) bool {
			msg, ok := ev.Data.(realtime.ChatMessage)
			return ok && ev.Type == realtime.EventMessageReceived && msg.Text == "morning all" && msg.SenderName == "Ann"
		})).Return()

		store := NewStore()
		service := NewService(store, relay, users, silentLogger)
		resp, err := service.Send(context.Background(), senderID, "standup", SendMessageRequest{Text: "morning all"})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, senderID.Hex(), resp.Message.SenderID)
		assert.NotEmpty(t, resp.Message.ID)

		history := store.ListRoom("standup")
		require.Len(t, history, 1)
		assert.Equal(t, "morning all", history[0].Text)

		relay.AssertExpectations(t)
	})

	t.Run("strips markup before storing", func(t *testing.T) {
		relay := new(MockRelay)
		relay.On("RelayToRoom", mock.Anything, mock.Anything).Return()
		users := new(MockDirectory)
		users.On("DisplayName", mock.Anything, senderID).Return("Ann", nil)

		store := NewStore()
		service := NewService(store, relay, users, silentLogger)
		resp, err := service.Send(context.Background(), senderID, "standup", SendMessageRequest{
			Text: `<script>alert(1)</script>hello`,
		})

		require.NoError(t, err)
		assert.NotContains(t, resp.Message.Text, "<script>")
		assert.Contains(t, resp.Message.Text, "hello")
	})

	t.Run("whitespace-only text is rejected", func(t *testing.T) {
		relay := new(MockRelay)
		store := NewStore()
		service := NewService(store, relay, new(MockDirectory), silentLogger)

		resp, err := service.Send(context.Background(), senderID, "standup", SendMessageRequest{Text: "   "})

		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, resp)
		assert.Empty(t, store.Rooms())
		relay.AssertNotCalled(t, "RelayToRoom", mock.Anything, mock.Anything)
	})

	t.Run("directory failure does not block the send", func(t *testing.T) {
		relay := new(MockRelay)
		relay.On("RelayToRoom", mock.Anything, mock.Anything).Return()
		users := new(MockDirectory)
		users.On("DisplayName", mock.Anything, senderID).Return("", errors.New("directory down"))

		service := NewService(NewStore(), relay, users, silentLogger)
		resp, err := service.Send(context.Background(), senderID, "standup", SendMessageRequest{Text: "hi"})

		require.NoError(t, err)
		assert.Empty(t, resp.Message.SenderName)
	})
}

func TestServiceList(t *testing.T) {
	store := NewStore()
	store.Append(Message{ID: "1", RoomID: "standup", Text: "a"})
	store.Append(Message{ID: "2", RoomID: "standup", Text: "b"})

	service := NewService(store, new(MockRelay), new(MockDirectory), silentLogger)

	t.Run("room with history", func(t *testing.T) {
		resp, err := service.List(context.Background(), "standup")
		require.NoError(t, err)
		assert.Equal(t, "standup", resp.RoomID)
		assert.Len(t, resp.Messages, 2)
	})

	t.Run("unknown room lists empty", func(t *testing.T) {
		resp, err := service.List(context.Background(), "ghost")
		require.NoError(t, err)
		assert.NotNil(t, resp.Messages, "empty history must serialize as [] not null")
		assert.Empty(t, resp.Messages)
	})
}

func TestServiceClear(t *testing.T) {
	t.Run("clears existing room", func(t *testing.T) {
		store := NewStore()
		store.Append(Message{ID: "1", RoomID: "standup"})

		service := NewService(store, new(MockRelay), new(MockDirectory), silentLogger)
		resp, err := service.Clear(context.Background(), "standup")

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.False(t, store.Exists("standup"))
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		service := NewService(NewStore(), new(MockRelay), new(MockDirectory), silentLogger)

		resp, err := service.Clear(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrRoomNotFound)
		assert.Nil(t, resp)
	})
}
