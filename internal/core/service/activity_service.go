package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation that writes
// audit records to the activity store.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single dequeued activity record.
func (s *activityService) Process(ctx context.Context, in ports.ActivityInput) error {
	activity := &domain.Activity{
		TaskID:     in.TaskID,
		OwnerID:    in.OwnerID,
		Action:     in.Action,
		FromStatus: in.FromStatus,
		ToStatus:   in.ToStatus,
		Timestamp:  in.Timestamp,
	}

	if err := s.repo.Insert(ctx, activity); err != nil {
		metrics.ActivityErrorsTotal.Inc()
		return fmt.Errorf("process activity: %w", err)
	}

	metrics.ActivitiesRecordedTotal.WithLabelValues(in.Action).Inc()
	s.log.Debug().
		Str("task_id", in.TaskID).
		Str("action", in.Action).
		Msg("activity recorded")

	return nil
}
