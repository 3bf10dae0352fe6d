package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type TaskRepo struct {
	storage *Storage
}

func NewTaskRepo(storage *Storage) *TaskRepo {
	return &TaskRepo{storage: storage}
}

const taskColumns = `t.id,
				t.title,
				COALESCE(t.content, ''),
				t.date_added,
				t.completion_date,
				t.deleted,
				t.priority_id,
				p.name,
				p.weight,
				p.deleted`

const taskFrom = ` FROM tasks t
				JOIN priorities p ON p.id = t.priority_id
				WHERE t.deleted = false`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{Priority: &models.Priority{}}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Content,
		&task.DateAdded,
		&task.CompletionDate,
		&task.Deleted,
		&task.PriorityID,
		&task.Priority.Name,
		&task.Priority.Weight,
		&task.Priority.Deleted,
	)
	if err != nil {
		return nil, err
	}
	task.Priority.ID = task.PriorityID
	return task, nil
}

// GetPending возвращает активные незавершённые задачи
func (r *TaskRepo) GetPending(ctx context.Context, orderBy ...repository.Order) ([]*models.Task, error) {
	return r.getTasks(ctx, "t.completion_date IS NULL", orderBy, repository.DefaultPendingOrder)
}

// GetCompleted возвращает активные завершённые задачи
func (r *TaskRepo) GetCompleted(ctx context.Context, orderBy ...repository.Order) ([]*models.Task, error) {
	return r.getTasks(ctx, "t.completion_date IS NOT NULL", orderBy, repository.DefaultCompletedOrder)
}

func (r *TaskRepo) getTasks(ctx context.Context, predicate string, orderBy, defaults []repository.Order) ([]*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + taskFrom +
		` AND ` + predicate +
		` ORDER BY ` + orderClause(orderBy, defaults)

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, id, "")
}

// GetForCompletion находит задачу только в незавершённом состоянии
func (r *TaskRepo) GetForCompletion(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, id, " AND t.completion_date IS NULL")
}

// GetForRestore находит задачу только в завершённом состоянии
func (r *TaskRepo) GetForRestore(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, id, " AND t.completion_date IS NOT NULL")
}

func (r *TaskRepo) getOne(ctx context.Context, id int64, predicate string) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + taskFrom + ` AND t.id = $1` + predicate

	task, err := scanTask(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return task, nil
}

func (r *TaskRepo) Create(ctx context.Context, taskToCreate *models.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(title, content, date_added, priority_id)
				VALUES ($1, NULLIF($2, ''), COALESCE($3, CURRENT_DATE), $4)
				RETURNING id, date_added`

	var dateAdded any
	if !taskToCreate.DateAdded.IsZero() {
		dateAdded = taskToCreate.DateAdded
	}

	err := r.storage.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Content,
		dateAdded,
		taskToCreate.PriorityID,
	).Scan(&taskToCreate.ID, &taskToCreate.DateAdded)

	if err != nil {
		if isConstraint(err) {
			logger.Warn("Repository: Нарушение ограничения при добавлении задачи", zap.Error(err))
			return repository.ErrConstraint
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return nil
}

func (r *TaskRepo) Update(ctx context.Context, taskToUpdate *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				content = NULLIF($2, ''),
				date_added = $3,
				completion_date = $4,
				priority_id = $5
			WHERE id = $6 AND deleted = false
			RETURNING id`

	err := r.storage.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Content,
		taskToUpdate.DateAdded,
		taskToUpdate.CompletionDate,
		taskToUpdate.PriorityID,
		taskToUpdate.ID,
	).Scan(&taskToUpdate.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isConstraint(err) {
			logger.Warn("Repository: Нарушение ограничения при обновлении задачи", zap.Error(err))
			return repository.ErrConstraint
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return nil
}

// DeleteSoft помечает задачу удалённой. Повторный вызов не ошибка.
func (r *TaskRepo) DeleteSoft(ctx context.Context, taskToDelete *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
				SET deleted = true
				WHERE id = $1`

	_, err := r.storage.pool.Exec(ctx, query, taskToDelete.ID)
	if err != nil {
		logger.Error("Repository: Мягкое удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("мягкое удаление: %w", err)
	}

	taskToDelete.Deleted = true

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}

	return nil
}

// коды нарушения целостности PostgreSQL (класс 23)
func isConstraint(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "23"
	}
	return false
}
