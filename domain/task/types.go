// Package task provides the domain types for task management.
package task

import (
	"time"
)

// Status represents the lifecycle status of a task.
type Status string

const (
	// StatusPending indicates the task has not been started yet.
	StatusPending Status = "pending"
	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "in_progress"
	// StatusCompleted indicates the task is done.
	StatusCompleted Status = "completed"
	// StatusCancelled indicates the task was abandoned.
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus converts a raw string into a Status. Unknown values are
// rejected so free-form strings never reach the store.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Priority represents the urgency level of a task.
type Priority string

const (
	// PriorityLow indicates a task that can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates an important task.
	PriorityHigh Priority = "high"
	// PriorityUrgent indicates a task that needs immediate attention.
	PriorityUrgent Priority = "urgent"
)

// IsValid returns true if the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ParsePriority converts a raw string into a Priority, rejecting unknown values.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Task represents a task owned by a single user.
//
// A task is never physically removed through the service: SoftDelete hides it
// from normal listings and Restore brings it back. DeletedAt is non-nil
// exactly when IsDeleted is true.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string     `gorm:"size:36;not null;index" json:"owner_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description,omitempty"`
	Status      Status     `gorm:"size:20;not null;default:'pending'" json:"status"`
	Priority    Priority   `gorm:"size:20;not null;default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// SoftDelete marks the task as deleted. Calling it on an already deleted
// task only refreshes DeletedAt.
func (t *Task) SoftDelete() {
	now := time.Now().UTC()
	t.IsDeleted = true
	t.DeletedAt = &now
}

// Restore clears the soft-delete state. Restoring an active task is a no-op.
func (t *Task) Restore() {
	t.IsDeleted = false
	t.DeletedAt = nil
}

// IsOverdue reports whether the task's due date has passed and the task is
// not completed. A cancelled task with a past due date still counts as
// overdue.
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(time.Now().UTC())
}

// ListFilter narrows a task listing. Nil fields mean the filter is not
// applied; set fields combine with logical AND.
type ListFilter struct {
	Status    *Status
	Priority  *Priority
	DueBefore *time.Time
	DueAfter  *time.Time
}

const (
	// DefaultPageSize is used when a listing does not request a limit.
	DefaultPageSize = 20
	// MaxPageSize is the largest limit a listing may request.
	MaxPageSize = 100
)

// Page describes the offset/limit window of a listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize fills in the default limit when unset and validates the bounds.
func (p Page) Normalize() (Page, error) {
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 || p.Limit < 1 || p.Limit > MaxPageSize {
		return Page{}, ErrInvalidPage
	}
	return p, nil
}
