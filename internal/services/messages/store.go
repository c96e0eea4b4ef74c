package messages

import "sync"

// Store keeps per-room message history in memory behind a RWMutex.
// Appends copy nothing; reads hand out a copied slice so callers can
// never observe a concurrent append.
type Store struct {
	mu    sync.RWMutex
	rooms map[string][]Message
}

// NewStore creates an empty message store.
func NewStore() *Store {
	return &Store{rooms: make(map[string][]Message)}
}

// Append adds a message to its room's history, creating the room on
// first use.
func (s *Store) Append(m Message) {
	s.mu.Lock()
	s.rooms[m.RoomID] = append(s.rooms[m.RoomID], m)
	s.mu.Unlock()
}

// ListRoom returns a copy of a room's history in append order. An
// unknown room yields an empty slice, not an error; callers that care
// can check Exists.
func (s *Store) ListRoom(roomID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.rooms[roomID]
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// Exists reports whether a room has any recorded history.
func (s *Store) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// ClearRoom drops a room's history entirely.
func (s *Store) ClearRoom(roomID string) {
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()
}

// Rooms returns the ids of all rooms with history.
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		out = append(out, id)
	}
	return out
}
