package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/google/uuid"
)

// Service implements the task command and query operations. Every operation
// is scoped to the authenticated owner passed per call; the service keeps no
// per-request state.
type Service struct {
	repo *Repository
}

// NewService creates a new task service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when creating a task. Status and
// priority fall back to pending/medium when empty.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateInput carries a partial update. Nil fields are left untouched.
// ID, OwnerID and CreatedAt are immutable: providing them with a value that
// differs from the stored one is rejected.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	ID          *string
	OwnerID     *string
	CreatedAt   *time.Time
}

// Create validates the input and stores a new task owned by ownerID.
func (s *Service) Create(_ context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrOwnerRequired
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.StatusPending
	if in.Status != "" {
		var err error
		if status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	priority := domain.PriorityMedium
	if in.Priority != "" {
		var err error
		if priority, err = domain.ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a single active task owned by ownerID.
func (s *Service) Get(_ context.Context, ownerID, id string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrOwnerRequired
	}
	return s.repo.FindOwned(ownerID, id)
}

// List returns the owner's active tasks matching the filter, newest first,
// plus the total match count.
func (s *Service) List(_ context.Context, ownerID string, filter domain.ListFilter, page domain.Page) ([]*domain.Task, int64, error) {
	if ownerID == "" {
		return nil, 0, domain.ErrOwnerRequired
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ownerID, filter, page)
}

// Update applies a partial update to a task and persists it atomically.
func (s *Service) Update(_ context.Context, ownerID, id string, in UpdateInput) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrOwnerRequired
	}

	t, err := s.repo.FindOwned(ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.ID != nil && *in.ID != t.ID {
		return nil, fmt.Errorf("%w: id", domain.ErrImmutableField)
	}
	if in.OwnerID != nil && *in.OwnerID != t.OwnerID {
		return nil, fmt.Errorf("%w: owner_id", domain.ErrImmutableField)
	}
	if in.CreatedAt != nil && !in.CreatedAt.Equal(t.CreatedAt) {
		return nil, fmt.Errorf("%w: created_at", domain.ErrImmutableField)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, domain.ErrTitleRequired
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		t.Status = status
	}
	if in.Priority != nil {
		priority, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = priority
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete soft-deletes a task. This is the only deletion path exposed to
// callers; rows are never physically removed.
func (s *Service) Delete(_ context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrOwnerRequired
	}

	t, err := s.repo.FindOwned(ownerID, id)
	if err != nil {
		return err
	}

	t.SoftDelete()
	t.UpdatedAt = time.Now().UTC()
	return s.repo.Save(t)
}

// Restore reverses a soft delete. Unlike Get, it can see soft-deleted rows;
// ownership is still enforced and restoring an active task is a no-op.
func (s *Service) Restore(_ context.Context, ownerID, id string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, domain.ErrOwnerRequired
	}

	t, err := s.repo.FindOwnedAny(ownerID, id)
	if err != nil {
		return nil, err
	}

	t.Restore()
	t.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}
