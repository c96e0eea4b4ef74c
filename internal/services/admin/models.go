package admin

import (
	"teamdesk/internal/services/auth"
	"teamdesk/internal/services/files"
	"teamdesk/internal/services/notes"
	"teamdesk/internal/services/tasks"
)

// Owner is the subset of a user attached to admin listings.
type Owner struct {
	ID       string `json:"id" example:"683cdb8aa96ad71e8e075bd0"`
	FullName string `json:"full_name" example:"Dena Calhoun"`
	Email    string `json:"email" example:"dena@example.com"`
}

// OwnedNote is a note joined with its owner.
type OwnedNote struct {
	*notes.Note
	Owner *Owner `json:"owner,omitempty"`
}

// OwnedTask is a task joined with its owner.
type OwnedTask struct {
	*tasks.Task
	Owner *Owner `json:"owner,omitempty"`
}

// OwnedFile is a file record joined with its owner.
type OwnedFile struct {
	*files.FileRecord
	Owner *Owner `json:"owner,omitempty"`
}

// Stats holds tenant-wide collection counts.
type Stats struct {
	Users int64 `json:"users" example:"12"`
	Notes int64 `json:"notes" example:"87"`
	Tasks int64 `json:"tasks" example:"43"`
	Files int64 `json:"files" example:"9"`
}

func ownerOf(u *auth.User) *Owner {
	if u == nil {
		return nil
	}
	return &Owner{ID: u.ID.Hex(), FullName: u.FullName, Email: u.Email}
}
