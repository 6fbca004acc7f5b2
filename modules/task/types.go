package task

import (
	"time"

	domain "github.com/example/taskflow/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// GetTaskRequest is the request for getting a single task.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// ListTasksRequest is the request for listing tasks. Empty filter fields are
// not applied.
type ListTasksRequest struct {
	OwnerID   string     `json:"owner_id"`
	Status    string     `json:"status,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	DueBefore *time.Time `json:"due_before,omitempty"`
	DueAfter  *time.Time `json:"due_after,omitempty"`
	Offset    int        `json:"offset,omitempty"`
	Limit     int        `json:"limit,omitempty"`
}

// TaskPatch is the partial payload of an update. Nil fields are untouched;
// id, owner_id and created_at may be echoed back but never changed.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ID          *string    `json:"id,omitempty"`
	OwnerID     *string    `json:"owner_id,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// UpdateTaskRequest is the request for partially updating a task.
type UpdateTaskRequest struct {
	OwnerID string    `json:"owner_id"`
	ID      string    `json:"id"`
	Patch   TaskPatch `json:"patch"`
}

// DeleteTaskRequest is the request for soft-deleting a task.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse is the response after soft-deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// RestoreTaskRequest is the request for restoring a soft-deleted task.
type RestoreTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// TaskResponse represents a task in service responses. IsOverdue is computed
// at response time, never stored.
type TaskResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListTasksResponse is the response containing one page of tasks.
type ListTasksResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		IsOverdue:   t.IsOverdue(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// updateInputFromPatch converts a wire patch into a service update input.
func updateInputFromPatch(p TaskPatch) UpdateInput {
	return UpdateInput{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
	}
}
