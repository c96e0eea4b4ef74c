package realtime

import (
	"context"
	"crypto/rand"
	"sync"
	"sync/atomic"
	"time"

	"teamdesk/internal/logger"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Hub is the in-memory presence/room/broadcast component serving socket
// connections. All state is process-local and reset on restart; it is
// owned by the hub and mutated only through the methods below, so a
// shared backing store could replace the maps without touching the
// transport. Delivery is fire-and-forget: a full client outbox drops
// the event and bumps a counter, exactly once per miss.
type Hub struct {
	mu         sync.RWMutex
	clients    map[ulid.ULID]*Client
	rooms      map[string]map[ulid.ULID]*Client
	notify     map[ulid.ULID]*Client
	bufferSize int
	dropped    uint64
}

// NewHub creates a hub with the given per-client outbox buffer size.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		clients:    make(map[ulid.ULID]*Client),
		rooms:      make(map[string]map[ulid.ULID]*Client),
		notify:     make(map[ulid.ULID]*Client),
		bufferSize: bufferSize,
	}
}

// Register adds an authenticated connection to the hub and returns the
// client plus an idempotent cleanup func. The identity comes from the
// verified socket credential, never from a client-sent payload.
func (h *Hub) Register(userID bson.ObjectID) (*Client, func()) {
	c := &Client{
		ID:     ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader),
		UserID: userID,
		Ch:     make(chan Event, h.bufferSize),
		Done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() { h.unregister(c.ID) })
	}
	return c, cancel
}

// unregister removes the connection from presence, every room and the
// notification subscriber set, then re-broadcasts the active list.
func (h *Hub) unregister(connID ulid.ULID) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, connID)
	delete(h.notify, connID)
	for roomID, members := range h.rooms {
		if _, in := members[connID]; in {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	h.mu.Unlock()

	close(c.Ch)
	close(c.Done)

	h.broadcastActive()
}

// Join records the display name for a connection and pushes the full
// active-connection list to every connected party. O(n) fan-out on each
// join, acceptable at the intended scale.
func (h *Hub) Join(connID ulid.ULID, name string) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	if ok {
		c.Name = name
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	h.broadcastActive()
}

// JoinRoom adds the connection to a room and notifies the existing
// members. The joiner itself gets no notice. Any authenticated
// connection may join any room by id; rooms carry no ACL of their own.
func (h *Hub) JoinRoom(connID ulid.ULID, roomID string) {
	if roomID == "" {
		return
	}

	h.mu.Lock()
	c, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	members, exists := h.rooms[roomID]
	if !exists {
		members = make(map[ulid.ULID]*Client)
		h.rooms[roomID] = members
	}
	members[connID] = c
	h.mu.Unlock()

	h.toRoom(roomID, Event{Type: EventMessageNotification, Data: "User joined the chat room"}, &connID)
}

// LeaveRoom removes the connection from a room and notifies the
// remaining members.
func (h *Hub) LeaveRoom(connID ulid.ULID, roomID string) {
	h.mu.Lock()
	members, exists := h.rooms[roomID]
	if exists {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()
	if !exists {
		return
	}

	h.toRoom(roomID, Event{Type: EventMessageNotification, Data: "User left the chat room"}, nil)
}

// SendMessage relays a chat message to every member of the room,
// including the sender. Membership of the sender is not required;
// delivery is simply scoped to the room.
func (h *Hub) SendMessage(connID ulid.ULID, roomID, text string) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok || roomID == "" {
		return
	}

	msg := ChatMessage{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String(),
		RoomID:     roomID,
		SenderID:   c.UserID.Hex(),
		SenderName: c.Name,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}
	h.toRoom(roomID, Event{Type: EventMessageReceived, Data: msg}, nil)
}

// RelayToRoom pushes a server-originated event to every member of a
// room. The REST message path goes through here so both paths share a
// single delivery mechanism.
func (h *Hub) RelayToRoom(roomID string, ev Event) {
	h.toRoom(roomID, ev, nil)
}

// Typing relays an ephemeral typing indicator to the other room
// members; no state is retained.
func (h *Hub) Typing(connID ulid.ULID, roomID string, typing bool) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	evType := EventTyping
	if !typing {
		evType = EventStopTyping
	}
	h.toRoom(roomID, Event{Type: evType, Data: map[string]string{"sender_name": c.Name}}, &connID)
}

// SubscribeNotifications opts the connection in to domain
// notifications. Without an explicit subscription a connection never
// receives them.
func (h *Hub) SubscribeNotifications(connID ulid.ULID) {
	h.mu.Lock()
	if c, ok := h.clients[connID]; ok {
		h.notify[connID] = c
	}
	h.mu.Unlock()
}

// UnsubscribeNotifications opts the connection out again.
func (h *Hub) UnsubscribeNotifications(connID ulid.ULID) {
	h.mu.Lock()
	delete(h.notify, connID)
	h.mu.Unlock()
}

// Publish fans a domain notification out to subscribed connections.
// Only the CRUD layer calls this; client-sent domain events are
// ignored by the transport.
func (h *Hub) Publish(_ context.Context, n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	evType := EventNotificationTask
	if n.Kind == KindNoteCreated {
		evType = EventNotificationNote
	}
	ev := Event{Type: evType, Data: n}

	h.mu.RLock()
	for _, c := range h.notify {
		h.send(c, ev)
	}
	h.mu.RUnlock()
}

// ActiveUsers returns a snapshot of the current presence list.
func (h *Hub) ActiveUsers() []Presence {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := make([]Presence, 0, len(h.clients))
	for _, c := range h.clients {
		list = append(list, Presence{
			ConnID: c.ID.String(),
			UserID: c.UserID.Hex(),
			Name:   c.Name,
		})
	}
	return list
}

// RoomSize reports the member count of a room (for tests and stats).
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns current counters for observability / tests.
func (h *Hub) Stats() (clients int, dropped uint64) {
	return h.ClientCount(), atomic.LoadUint64(&h.dropped)
}

// broadcastActive pushes the presence list to every connection.
// Sends happen under the read lock: unregister needs the write lock
// before it may close a channel, so no send can race a close.
func (h *Hub) broadcastActive() {
	ev := Event{Type: EventUsersActive, Data: h.ActiveUsers()}

	h.mu.RLock()
	for _, c := range h.clients {
		h.send(c, ev)
	}
	h.mu.RUnlock()
}

// toRoom delivers ev to the members of roomID, skipping exclude when
// set. Same locking discipline as broadcastActive.
func (h *Hub) toRoom(roomID string, ev Event, exclude *ulid.ULID) {
	h.mu.RLock()
	for id, c := range h.rooms[roomID] {
		if exclude != nil && id == *exclude {
			continue
		}
		h.send(c, ev)
	}
	h.mu.RUnlock()
}

// send is the only place allowed to decide to drop an event.
// Callers must hold h.mu (read or write).
func (h *Hub) send(c *Client, ev Event) {
	select {
	case c.Ch <- ev:
	default:
		atomic.AddUint64(&h.dropped, 1)
		if log := logger.L(); log != nil {
			log.Warn("outbox full, dropping event", "conn_id", c.ID.String(), "user_id", c.UserID.Hex(), "event_type", ev.Type)
		}
	}
}
