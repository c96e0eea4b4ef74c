package messages

import "time"

// Message is a room-scoped chat message held in memory only. History
// is per-process and vanishes on restart.
type Message struct {
	ID         string    `json:"id" example:"01JWV9GJ4R8Z3TQD3E3F8H2K5M"`
	RoomID     string    `json:"room_id" example:"standup"`
	SenderID   string    `json:"sender_id" example:"683cdb8aa96ad71e8e075bd0"`
	SenderName string    `json:"sender_name" example:"Dena Calhoun"`
	Text       string    `json:"text" example:"morning all"`
	Timestamp  time.Time `json:"timestamp" example:"2025-06-01T23:00:26.005703677Z"`
}
