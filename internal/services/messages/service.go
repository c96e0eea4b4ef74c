package messages

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"
	"time"

	"teamdesk/internal/services/realtime"
	"teamdesk/internal/utils/sanitize"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Relay pushes events to the live members of a room.
type Relay interface {
	RelayToRoom(roomID string, ev realtime.Event)
}

// Directory resolves sender display names.
type Directory interface {
	DisplayName(ctx context.Context, id bson.ObjectID) (string, error)
}

// Service handles room message history and the REST send path. Sent
// messages go through the same hub delivery as socket-originated ones.
type Service struct {
	store *Store
	relay Relay
	users Directory
	log   *slog.Logger
}

// NewService creates a new messages service.
func NewService(store *Store, relay Relay, users Directory, log *slog.Logger) *Service {
	return &Service{
		store: store,
		relay: relay,
		users: users,
		log:   log,
	}
}

// SendMessageRequest represents a REST message send.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000" example:"morning all"`
}

// MessageResponse represents a single sent message.
type MessageResponse struct {
	Success bool     `json:"success" example:"true"`
	Message *Message `json:"message"`
}

// ListMessagesResponse represents a room's message history.
type ListMessagesResponse struct {
	Success  bool      `json:"success" example:"true"`
	RoomID   string    `json:"room_id" example:"standup"`
	Messages []Message `json:"messages"`
}

// ClearRoomResponse acknowledges a history wipe.
type ClearRoomResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Room history cleared"`
}

// Send records a message in the room history and relays it to the
// room's live members.
func (s *Service) Send(ctx context.Context, senderID bson.ObjectID, roomID string, req SendMessageRequest) (*MessageResponse, error) {
	text := sanitize.Clean(strings.TrimSpace(req.Text))
	if text == "" {
		return nil, ErrEmptyMessage
	}

	name, err := s.users.DisplayName(ctx, senderID)
	if err != nil {
		s.log.Warn("failed to resolve sender name", "error", err, "sender_id", senderID.Hex())
	}

	msg := Message{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String(),
		RoomID:     roomID,
		SenderID:   senderID.Hex(),
		SenderName: name,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}
	s.store.Append(msg)

	s.relay.RelayToRoom(roomID, realtime.Event{
		Type: realtime.EventMessageReceived,
		Data: realtime.ChatMessage{
			ID:         msg.ID,
			RoomID:     msg.RoomID,
			SenderID:   msg.SenderID,
			SenderName: msg.SenderName,
			Text:       msg.Text,
			Timestamp:  msg.Timestamp,
		},
	})

	return &MessageResponse{Success: true, Message: &msg}, nil
}

// List returns a room's full history in send order.
func (s *Service) List(_ context.Context, roomID string) (*ListMessagesResponse, error) {
	return &ListMessagesResponse{
		Success:  true,
		RoomID:   roomID,
		Messages: s.store.ListRoom(roomID),
	}, nil
}

// Clear wipes a room's history. Clearing an unknown room is a 404 so
// a typoed room id does not read as success.
func (s *Service) Clear(_ context.Context, roomID string) (*ClearRoomResponse, error) {
	if !s.store.Exists(roomID) {
		return nil, ErrRoomNotFound
	}
	s.store.ClearRoom(roomID)
	return &ClearRoomResponse{Success: true, Message: "Room history cleared"}, nil
}
