package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
// OwnerID is always set by the service layer; tasks belonging to other
// users must never match.
type ListTasksFilter struct {
	OwnerID string
	Status  string // optional: exact status match
	Search  string // optional: case-insensitive substring on title or description
	Page    int    // 1-based
	Limit   int    // max rows per page; <= 0 means no limit
}

// TaskRepository defines persistence operations for tasks. Every lookup,
// update, and delete takes the owner's id and matches only that owner's
// documents; a miss for either reason is domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	// List returns a page of tasks matching filter and the total count.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	UpdateStatus(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
