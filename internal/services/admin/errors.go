package admin

import "errors"

// ErrListUsers is returned when the user listing fails.
var ErrListUsers = errors.New("failed to list users")

// ErrListNotes is returned when the note listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrListTasks is returned when the task listing fails.
var ErrListTasks = errors.New("failed to list tasks")

// ErrListFiles is returned when the file listing fails.
var ErrListFiles = errors.New("failed to list files")

// ErrStats is returned when the stats aggregation fails.
var ErrStats = errors.New("failed to collect stats")
