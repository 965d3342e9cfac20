package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ActivityRecorder is the interface the service uses to hand audit records
// to the background pipeline. Enqueue must not block the request path.
type ActivityRecorder interface {
	Enqueue(input ports.ActivityInput)
}

// TaskService implements owner-scoped task CRUD.
type TaskService struct {
	repo     ports.TaskRepository
	recorder ActivityRecorder
	logger   zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, recorder ActivityRecorder, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, recorder: recorder, logger: logger}
}

// CreateTask creates a new task for the caller. Status is always open on
// creation regardless of anything supplied upstream.
func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.Inc()
	s.logger.Info().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("task created")

	s.recorder.Enqueue(ports.ActivityInput{
		TaskID:    task.ID,
		OwnerID:   task.OwnerID,
		Action:    domain.ActivityTaskCreated,
		ToStatus:  task.Status,
		Timestamp: now,
	})

	return task, nil
}

// GetTask retrieves a single task. Absent and not-owned are both
// domain.ErrTaskNotFound; callers can never tell another user's task apart
// from a missing one.
func (s *TaskService) GetTask(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

// ListTasks returns the caller's tasks, optionally narrowed by status and a
// case-insensitive substring search over title and description.
func (s *TaskService) ListTasks(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if limit < 0 {
		limit = defaultPageLimit
	}

	items, total, err := s.repo.List(ctx, ports.ListTasksFilter{
		OwnerID: input.OwnerID,
		Status:  input.Status,
		Search:  input.Search,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to list tasks")
		return nil, err
	}

	totalPages := 1
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
		if totalPages < 1 {
			totalPages = 1
		}
	}

	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateTaskStatus overwrites the status of one of the caller's tasks.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id, ownerID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	previous, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, ownerID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", id).
		Str("owner_id", ownerID).
		Str("status", string(status)).
		Msg("task status updated")

	s.recorder.Enqueue(ports.ActivityInput{
		TaskID:     id,
		OwnerID:    ownerID,
		Action:     domain.ActivityStatusChanged,
		FromStatus: previous.Status,
		ToStatus:   status,
		Timestamp:  time.Now().UTC(),
	})

	return updated, nil
}

// DeleteTask removes one of the caller's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info().Str("task_id", id).Str("owner_id", ownerID).Msg("task deleted")

	s.recorder.Enqueue(ports.ActivityInput{
		TaskID:    id,
		OwnerID:   ownerID,
		Action:    domain.ActivityTaskDeleted,
		Timestamp: time.Now().UTC(),
	})

	return nil
}
