package notes

import "errors"

// ErrNoteNotFound covers both a missing note and a cross-tenant access
// attempt; the two are indistinguishable on purpose.
var ErrNoteNotFound = errors.New("note not found")

// ErrCreateNote is returned when note creation fails.
var ErrCreateNote = errors.New("failed to create note")

// ErrUpdateNote is returned when note update fails.
var ErrUpdateNote = errors.New("failed to update note")

// ErrDeleteNote is returned when note deletion fails.
var ErrDeleteNote = errors.New("failed to delete note")

// ErrListNotes is returned when notes listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrCreateNotesRepo is returned when notes repository creation fails.
var ErrCreateNotesRepo = errors.New("failed to create notes repository")
