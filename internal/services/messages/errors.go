package messages

import "errors"

// ErrRoomNotFound is returned when a room has no history at all.
var ErrRoomNotFound = errors.New("room not found")

// ErrEmptyMessage is returned when the message text is blank.
var ErrEmptyMessage = errors.New("message text is required")
