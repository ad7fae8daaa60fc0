package task

import (
	"context"

	"github.com/mkravtsov/taskdeck/internal/task/domain"
	taskrepo "github.com/mkravtsov/taskdeck/internal/task/repository"
)

var _ taskrepo.Repository = (*mockTaskRepo)(nil)

type mockTaskRepo struct {
	listFunc   func(ctx context.Context, ownerID string, q domain.ListQuery) ([]domain.Task, int, error)
	getFunc    func(ctx context.Context, ownerID string, taskID int64) (domain.Task, error)
	createFunc func(ctx context.Context, ownerID string, title string) (domain.Task, error)
	updateFunc func(ctx context.Context, ownerID string, taskID int64, fields domain.UpdateFields) (domain.Task, error)
	deleteFunc func(ctx context.Context, ownerID string, taskID int64) error
}

func (m *mockTaskRepo) List(ctx context.Context, ownerID string, q domain.ListQuery) ([]domain.Task, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID, q)
	}
	return []domain.Task{}, 0, nil
}

func (m *mockTaskRepo) Get(ctx context.Context, ownerID string, taskID int64) (domain.Task, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID, taskID)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) Create(ctx context.Context, ownerID string, title string) (domain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, title)
	}
	return domain.Task{ID: 1, UserID: ownerID, Title: title}, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, ownerID string, taskID int64, fields domain.UpdateFields) (domain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, taskID, fields)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, ownerID string, taskID int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, taskID)
	}
	return taskrepo.ErrTaskNotFound
}
