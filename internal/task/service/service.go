package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mkravtsov/taskdeck/internal/common/constants"
	commonerrors "github.com/mkravtsov/taskdeck/internal/common/errors"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	"github.com/mkravtsov/taskdeck/internal/observability/metrics"
	"github.com/mkravtsov/taskdeck/internal/task/domain"
	taskrepo "github.com/mkravtsov/taskdeck/internal/task/repository"
)

// Service wraps the repository with validation, logging and metrics. Every
// operation is scoped to the owner id resolved by the access gate.
type Service struct {
	repo taskrepo.Repository
	log  *logger.Logger
}

func NewService(repo taskrepo.Repository, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

type ListResult struct {
	Tasks []domain.Task
	Total int
}

func (s *Service) List(ctx context.Context, ownerID string, q domain.ListQuery) (ListResult, error) {
	tasks, total, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "list_tasks_failed",
		}).Errorf("list tasks failed: %v", err)
		return ListResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	// Label with the allow-listed values, not the raw input, so callers
	// cannot mint unbounded time series.
	sortField, sortOrder := taskrepo.NormalizeSort(q.SortBy, q.Order)
	metrics.TaskListQueriesTotal.WithLabelValues(sortField, sortOrder).Inc()

	return ListResult{Tasks: tasks, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, ownerID string, taskID int64) (domain.Task, error) {
	task, err := s.repo.Get(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"task_id": taskID,
			"action":  "get_task_failed",
		}).Errorf("get task failed: %v", err)
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return task, nil
}

func (s *Service) Create(ctx context.Context, ownerID string, title string) (domain.Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return domain.Task{}, err
	}

	task, err := s.repo.Create(ctx, ownerID, title)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"action":  "create_task_failed",
		}).Errorf("create task failed: %v", err)
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TasksCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"task_id": task.ID,
		"action":  "task_created",
	}).Info("task created")

	return task, nil
}

func (s *Service) Update(ctx context.Context, ownerID string, taskID int64, fields domain.UpdateFields) (domain.Task, error) {
	if fields.Empty() {
		return domain.Task{}, ErrValidationNoUpdateFields
	}

	if fields.Title != nil {
		trimmed := strings.TrimSpace(*fields.Title)
		if err := validateTitle(trimmed); err != nil {
			return domain.Task{}, err
		}
		fields.Title = &trimmed
	}

	task, err := s.repo.Update(ctx, ownerID, taskID, fields)
	if err != nil {
		switch {
		case errors.Is(err, taskrepo.ErrTaskNotFound):
			return domain.Task{}, ErrTaskNotFound
		case errors.Is(err, taskrepo.ErrNoFieldsToUpdate):
			return domain.Task{}, ErrValidationNoUpdateFields
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"task_id": taskID,
			"action":  "update_task_failed",
		}).Errorf("update task failed: %v", err)
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TasksUpdated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"task_id": task.ID,
		"action":  "task_updated",
	}).Info("task updated")

	return task, nil
}

func (s *Service) Delete(ctx context.Context, ownerID string, taskID int64) error {
	if err := s.repo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": ownerID,
			"task_id": taskID,
			"action":  "delete_task_failed",
		}).Errorf("delete task failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TasksDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": ownerID,
		"task_id": taskID,
		"action":  "task_deleted",
	}).Info("task deleted")

	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrValidationEmptyTitle
	}
	if len(title) > constants.MaxTitleLength {
		return ErrValidationTitleTooLong
	}
	return nil
}
