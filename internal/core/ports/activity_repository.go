package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// ActivityRepository persists task audit records.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
}
