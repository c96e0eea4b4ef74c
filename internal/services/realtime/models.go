package realtime

import (
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Inbound event types (client -> server).
const (
	EventUserJoin          = "user:join"
	EventRoomJoin          = "room:join"
	EventRoomLeave         = "room:leave"
	EventMessageSend       = "message:send"
	EventTyping            = "user:typing"
	EventStopTyping        = "user:stop-typing"
	EventNotifySubscribe   = "notify:subscribe"
	EventNotifyUnsubscribe = "notify:unsubscribe"
)

// Outbound event types (server -> client).
const (
	EventUsersActive         = "users:active"
	EventMessageReceived     = "message:received"
	EventMessageNotification = "message:notification"
	EventNotificationNote    = "notification:note"
	EventNotificationTask    = "notification:task"
)

// Notification kinds published by the CRUD layer.
const (
	KindNoteCreated   = "note_created"
	KindTaskCreated   = "task_created"
	KindTaskCompleted = "task_completed"
)

// ConnID identifies one socket connection for the lifetime of the
// process.
type ConnID = ulid.ULID

// Event is the wire frame exchanged over the socket channel.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ChatMessage is a room-scoped chat message relayed by the hub.
// Transient: the hub never persists it.
type ChatMessage struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notification is a cross-cutting domain event fanned out to
// subscribed connections only.
type Notification struct {
	Kind      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Presence describes one active connection in the users:active push.
type Presence struct {
	ConnID string `json:"conn_id"`
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

// Client is one connected socket. The hub owns the maps it lives in;
// the transport owns the read/write loops around Ch and Done.
type Client struct {
	ID     ulid.ULID
	UserID bson.ObjectID
	Name   string
	Ch     chan Event
	Done   chan struct{}
}
