package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamdesk/internal/services/realtime"
	"teamdesk/internal/utils/pagination"
	"teamdesk/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles notes business logic.
type Service struct {
	repo Repository
	bus  Bus
	log  *slog.Logger
}

// NewService creates a new notes service.
func NewService(repo Repository, bus Bus, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
	}
}

// CreateNoteRequest represents a note creation request.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,min=1" example:"Meeting Notes"`
	Content string   `json:"content" validate:"required,min=1" example:"Remember to discuss the quarterly targets"`
	Tags    []string `json:"tags" validate:"omitempty,dive,min=1,max=64" example:"work,planning"`
}

// NoteResponse represents a single note response.
type NoteResponse struct {
	Success bool   `json:"success" example:"true"`
	Note    *Note  `json:"note"`
	Message string `json:"message,omitempty" example:"Note created"`
}

// ListNotesResponse represents a paginated list of notes.
type ListNotesResponse struct {
	Success    bool            `json:"success" example:"true"`
	Notes      []*Note         `json:"notes"`
	Pagination pagination.Meta `json:"pagination"`
}

// Create persists a new note owned by the caller and publishes a
// note_created notification.
func (s *Service) Create(ctx context.Context, ownerID bson.ObjectID, req CreateNoteRequest) (*NoteResponse, error) {
	now := time.Now().UTC()

	note := &Note{
		ID:        bson.NewObjectID(),
		OwnerID:   ownerID,
		Title:     sanitize.Clean(req.Title),
		Content:   sanitize.Clean(req.Content),
		Tags:      sanitize.Tags(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrCreateNote
	}

	s.bus.Publish(ctx, realtime.Notification{
		Kind:    realtime.KindNoteCreated,
		Message: fmt.Sprintf("New note created: %q", note.Title),
		Data: map[string]any{
			"note_id":  note.ID.Hex(),
			"owner_id": ownerID.Hex(),
			"title":    note.Title,
		},
	})

	return &NoteResponse{Success: true, Note: note, Message: "Note created"}, nil
}

// List returns one page of the caller's notes, newest first, with an
// optional tag filter. A page beyond the range yields an empty list
// and consistent metadata.
func (s *Service) List(ctx context.Context, ownerID bson.ObjectID, req ListNotesRequest) (*ListNotesResponse, error) {
	req.Normalize()

	items, total, err := s.repo.List(ctx, ownerID, req)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrListNotes
	}
	if items == nil {
		items = []*Note{}
	}

	return &ListNotesResponse{
		Success:    true,
		Notes:      items,
		Pagination: pagination.NewMeta(req.Request, total),
	}, nil
}

// Get returns a single owned note.
func (s *Service) Get(ctx context.Context, ownerID, noteID bson.ObjectID) (*NoteResponse, error) {
	note, err := s.repo.FindByID(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error("failed to fetch note", "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, ErrListNotes
	}
	return &NoteResponse{Success: true, Note: note}, nil
}

// Update applies a partial patch to an owned note. Only fields present
// in the request change.
func (s *Service) Update(ctx context.Context, ownerID, noteID bson.ObjectID, patch UpdateNote) (*NoteResponse, error) {
	if patch.Title != nil {
		cleaned := sanitize.Clean(*patch.Title)
		patch.Title = &cleaned
	}
	if patch.Content != nil {
		cleaned := sanitize.Clean(*patch.Content)
		patch.Content = &cleaned
	}
	if patch.Tags != nil {
		cleaned := sanitize.Tags(*patch.Tags)
		patch.Tags = &cleaned
	}

	note, err := s.repo.Update(ctx, ownerID, noteID, patch)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for update", "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, ErrUpdateNote
	}

	return &NoteResponse{Success: true, Note: note, Message: "Note updated"}, nil
}

// Delete removes an owned note.
func (s *Service) Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error {
	if err := s.repo.Delete(ctx, ownerID, noteID); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for delete", "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
			return ErrNoteNotFound
		}
		s.log.Error(ErrDeleteNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return ErrDeleteNote
	}
	return nil
}
