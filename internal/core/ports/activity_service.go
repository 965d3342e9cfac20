package ports

import (
	"context"
	"time"

	"github.com/taskforge/task-api/internal/core/domain"
)

// ActivityInput is the DTO handed from the task service to the activity
// pipeline.
type ActivityInput struct {
	TaskID     string
	OwnerID    string
	Action     string
	FromStatus domain.TaskStatus
	ToStatus   domain.TaskStatus
	Timestamp  time.Time
}

// ActivityService processes dequeued activity records.
type ActivityService interface {
	Process(ctx context.Context, input ActivityInput) error
}
