package admin

import (
	"context"
	"log/slog"

	"teamdesk/internal/services/auth"
	"teamdesk/internal/utils/pagination"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles admin-only read operations across all tenants.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new admin service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListUsersResponse represents a paginated list of users.
type ListUsersResponse struct {
	Success    bool            `json:"success" example:"true"`
	Users      []*auth.User    `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}

// ListNotesResponse represents a paginated list of notes with owners.
type ListNotesResponse struct {
	Success    bool            `json:"success" example:"true"`
	Notes      []*OwnedNote    `json:"notes"`
	Pagination pagination.Meta `json:"pagination"`
}

// ListTasksResponse represents a paginated list of tasks with owners.
type ListTasksResponse struct {
	Success    bool            `json:"success" example:"true"`
	Tasks      []*OwnedTask    `json:"tasks"`
	Pagination pagination.Meta `json:"pagination"`
}

// ListFilesResponse represents a paginated list of files with owners.
type ListFilesResponse struct {
	Success    bool            `json:"success" example:"true"`
	Files      []*OwnedFile    `json:"files"`
	Pagination pagination.Meta `json:"pagination"`
}

// StatsResponse represents tenant-wide collection counts.
type StatsResponse struct {
	Success bool  `json:"success" example:"true"`
	Stats   Stats `json:"stats"`
}

// ListUsers returns one page of all registered users.
func (s *Service) ListUsers(ctx context.Context, req pagination.Request) (*ListUsersResponse, error) {
	req.Normalize()

	items, total, err := s.repo.ListUsers(ctx, req)
	if err != nil {
		s.log.Error(ErrListUsers.Error(), "error", err)
		return nil, ErrListUsers
	}
	if items == nil {
		items = []*auth.User{}
	}

	return &ListUsersResponse{
		Success:    true,
		Users:      items,
		Pagination: pagination.NewMeta(req, total),
	}, nil
}

// ListNotes returns one page of all notes, each joined with its owner.
func (s *Service) ListNotes(ctx context.Context, req pagination.Request) (*ListNotesResponse, error) {
	req.Normalize()

	items, total, err := s.repo.ListNotes(ctx, req)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err)
		return nil, ErrListNotes
	}

	ids := make([]bson.ObjectID, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.OwnerID)
	}
	owners, err := s.owners(ctx, ids)
	if err != nil {
		return nil, ErrListNotes
	}

	out := make([]*OwnedNote, 0, len(items))
	for _, n := range items {
		out = append(out, &OwnedNote{Note: n, Owner: ownerOf(owners[n.OwnerID])})
	}

	return &ListNotesResponse{
		Success:    true,
		Notes:      out,
		Pagination: pagination.NewMeta(req, total),
	}, nil
}

// ListTasks returns one page of all tasks, each joined with its owner.
func (s *Service) ListTasks(ctx context.Context, req pagination.Request) (*ListTasksResponse, error) {
	req.Normalize()

	items, total, err := s.repo.ListTasks(ctx, req)
	if err != nil {
		s.log.Error(ErrListTasks.Error(), "error", err)
		return nil, ErrListTasks
	}

	ids := make([]bson.ObjectID, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.OwnerID)
	}
	owners, err := s.owners(ctx, ids)
	if err != nil {
		return nil, ErrListTasks
	}

	out := make([]*OwnedTask, 0, len(items))
	for _, t := range items {
		out = append(out, &OwnedTask{Task: t, Owner: ownerOf(owners[t.OwnerID])})
	}

	return &ListTasksResponse{
		Success:    true,
		Tasks:      out,
		Pagination: pagination.NewMeta(req, total),
	}, nil
}

// ListFiles returns one page of all files, each joined with its owner.
func (s *Service) ListFiles(ctx context.Context, req pagination.Request) (*ListFilesResponse, error) {
	req.Normalize()

	items, total, err := s.repo.ListFiles(ctx, req)
	if err != nil {
		s.log.Error(ErrListFiles.Error(), "error", err)
		return nil, ErrListFiles
	}

	ids := make([]bson.ObjectID, 0, len(items))
	for _, f := range items {
		ids = append(ids, f.OwnerID)
	}
	owners, err := s.owners(ctx, ids)
	if err != nil {
		return nil, ErrListFiles
	}

	out := make([]*OwnedFile, 0, len(items))
	for _, f := range items {
		out = append(out, &OwnedFile{FileRecord: f, Owner: ownerOf(owners[f.OwnerID])})
	}

	return &ListFilesResponse{
		Success:    true,
		Files:      out,
		Pagination: pagination.NewMeta(req, total),
	}, nil
}

// Stats returns collection counts across all tenants.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.repo.Counts(ctx)
	if err != nil {
		s.log.Error(ErrStats.Error(), "error", err)
		return nil, ErrStats
	}
	return &StatsResponse{Success: true, Stats: stats}, nil
}

func (s *Service) owners(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*auth.User, error) {
	if len(ids) == 0 {
		return map[bson.ObjectID]*auth.User{}, nil
	}
	owners, err := s.repo.UsersByIDs(ctx, ids)
	if err != nil {
		s.log.Error("failed to resolve owners", "error", err)
		return nil, err
	}
	return owners, nil
}
