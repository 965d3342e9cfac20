package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task. Status is not
// accepted here: new tasks always start open.
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
}

// ListTasksInput carries all parameters for the list endpoint.
type ListTasksInput struct {
	OwnerID string
	Status  string
	Search  string
	Page    int
	Limit   int
}

// ListTasksResult is returned by ListTasks.
type ListTasksResult struct {
	Items      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService defines use-case operations on tasks, each scoped to the
// calling user's identity.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id, ownerID string) (*domain.Task, error)
	ListTasks(ctx context.Context, input ListTasksInput) (*ListTasksResult, error)
	UpdateTaskStatus(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error)
	DeleteTask(ctx context.Context, id, ownerID string) error
}
