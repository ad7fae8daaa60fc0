package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mkravtsov/taskdeck/internal/task/domain"
)

var (
	// ErrTaskNotFound covers both a missing id and an id owned by another
	// user; callers cannot tell the two apart.
	ErrTaskNotFound = errors.New("task not found")

	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

type Repository interface {
	List(ctx context.Context, ownerID string, q domain.ListQuery) ([]domain.Task, int, error)
	Get(ctx context.Context, ownerID string, taskID int64) (domain.Task, error)
	Create(ctx context.Context, ownerID string, title string) (domain.Task, error)
	Update(ctx context.Context, ownerID string, taskID int64, fields domain.UpdateFields) (domain.Task, error)
	Delete(ctx context.Context, ownerID string, taskID int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// List returns one page of the owner's tasks plus the total count for the
// same owner and filter, computed by a counting query that shares the
// predicate builder with the listing query.
func (r *PgRepository) List(ctx context.Context, ownerID string, q domain.ListQuery) ([]domain.Task, int, error) {
	query, args := buildListQuery(ownerID, q)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	countQuery, countArgs := buildCountQuery(ownerID, q)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return tasks, total, nil
}

func (r *PgRepository) Get(ctx context.Context, ownerID string, taskID int64) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, user_id, title, completed, created_at FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID,
		ownerID,
	)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

func (r *PgRepository) Create(ctx context.Context, ownerID string, title string) (domain.Task, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO tasks (user_id, title) VALUES ($1, $2)
		 RETURNING id, user_id, title, completed, created_at`,
		ownerID,
		title,
	)

	task, err := scanTask(row)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Update writes only the provided fields. The (id, user_id) predicate on
// the UPDATE itself makes the existence-and-ownership check and the
// mutation a single atomic statement; a missing or foreign task yields
// ErrTaskNotFound, never a silent no-op.
func (r *PgRepository) Update(ctx context.Context, ownerID string, taskID int64, fields domain.UpdateFields) (domain.Task, error) {
	if fields.Empty() {
		return domain.Task{}, ErrNoFieldsToUpdate
	}

	set := ""
	args := []any{}

	if fields.Title != nil {
		args = append(args, *fields.Title)
		set = fmt.Sprintf("title = $%d", len(args))
	}
	if fields.Completed != nil {
		args = append(args, *fields.Completed)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("completed = $%d", len(args))
	}

	args = append(args, taskID, ownerID)
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d
		 RETURNING id, user_id, title, completed, created_at`,
		set, len(args)-1, len(args),
	)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

func (r *PgRepository) Delete(ctx context.Context, ownerID string, taskID int64) error {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTask is the single row-to-entity mapping used by every operation.
func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}
