package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface other modules use to access task operations.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	Get(ctx context.Context, ownerID, id string) (*TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	Restore(ctx context.Context, ownerID, id string) (*TaskResponse, error)
}

// Adapter implements TaskPort over the module's service container.
type Adapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ TaskPort = (*Adapter)(nil)

// NewAdapter creates a new task adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// Create creates a new task.
func (a *Adapter) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create task request failed: %w", err)
	}
	return &resp, nil
}

// Get retrieves a task by id for the given owner.
func (a *Adapter) Get(ctx context.Context, ownerID, id string) (*TaskResponse, error) {
	req := GetTaskRequest{OwnerID: ownerID, ID: id}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get task request failed: %w", err)
	}
	return &resp, nil
}

// List returns one page of the owner's tasks.
func (a *Adapter) List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list tasks request failed: %w", err)
	}
	return &resp, nil
}

// Update applies a partial update to a task.
func (a *Adapter) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update task request failed: %w", err)
	}
	return &resp, nil
}

// Delete soft-deletes a task.
func (a *Adapter) Delete(ctx context.Context, ownerID, id string) error {
	req := DeleteTaskRequest{OwnerID: ownerID, ID: id}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete task request failed: %w", err)
	}
	return nil
}

// Restore reverses a soft delete.
func (a *Adapter) Restore(ctx context.Context, ownerID, id string) (*TaskResponse, error) {
	req := RestoreTaskRequest{OwnerID: ownerID, ID: id}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "restore", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("restore task request failed: %w", err)
	}
	return &resp, nil
}
