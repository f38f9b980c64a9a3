package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todo-app/app/models"
	"todo-app/app/store"
)

// TaskStore persists tasks. Implementations live in the store package.
type TaskStore interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, task models.Task) (*models.Task, error)
	Update(ctx context.Context, id string, update models.TaskUpdate, updatedAt time.Time) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// TaskService handles task-related operations.
type TaskService struct {
	store  TaskStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(store TaskStore, logger zerolog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// timestamp returns the current time at the precision every backend can keep.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// GetTasks retrieves all tasks, newest first.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		return nil, &StoreError{Op: "list", Err: err}
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

// CreateTask stores a new, not yet completed task with the trimmed text.
func (s *TaskService) CreateTask(ctx context.Context, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	now := s.timestamp()
	task, err := s.store.Create(ctx, models.Task{
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, &StoreError{Op: "create", Err: err}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return task, nil
}

// UpdateTask applies the supplied fields to an existing task. An empty update
// is accepted and only refreshes the update timestamp.
func (s *TaskService) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		update.Text = &text
	}

	task, err := s.store.Update(ctx, id, update, s.timestamp())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Info().
				Str("task_id", id).
				Msg("task not found")
			return nil, ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, &StoreError{Op: "update", Err: err}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("empty_update", update.IsEmpty()).
		Msg("updated task")
	return task, nil
}

// DeleteTask removes a task for good.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Info().
				Str("task_id", id).
				Msg("task not found")
			return ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return &StoreError{Op: "delete", Err: err}
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}
