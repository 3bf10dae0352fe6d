package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type PriorityRepo struct {
	storage *Storage
}

func NewPriorityRepo(storage *Storage) *PriorityRepo {
	return &PriorityRepo{storage: storage}
}

// GetAll возвращает активные приоритеты, по умолчанию по убыванию веса
func (r *PriorityRepo) GetAll(ctx context.Context, orderBy ...repository.Order) ([]*models.Priority, error) {
	start := time.Now()

	order := orderClause(orderBy, repository.DefaultPriorityOrder)
	// приоритеты сортируются по собственным колонкам
	query := `SELECT p.id, p.name, p.weight, p.deleted
				FROM priorities p
				WHERE p.deleted = false
				ORDER BY ` + order

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить приоритеты", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение приоритетов: %w", err)
	}
	defer rows.Close()

	priorities := []*models.Priority{}
	for rows.Next() {
		priority := &models.Priority{}
		if err := rows.Scan(&priority.ID, &priority.Name, &priority.Weight, &priority.Deleted); err != nil {
			logger.Warn("Repository: Ошибка сканирования приоритета", zap.Error(err))
			continue
		}
		priorities = append(priorities, priority)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return priorities, nil
}

func (r *PriorityRepo) GetByID(ctx context.Context, id int64) (*models.Priority, error) {
	query := `SELECT p.id, p.name, p.weight, p.deleted
				FROM priorities p
				WHERE p.deleted = false AND p.id = $1`

	priority := &models.Priority{}
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&priority.ID,
		&priority.Name,
		&priority.Weight,
		&priority.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить приоритет", err)
		return nil, fmt.Errorf("получение приоритета: %w", err)
	}

	return priority, nil
}

func (r *PriorityRepo) Create(ctx context.Context, priority *models.Priority) error {
	query := `INSERT INTO priorities (name, weight)
				VALUES ($1, $2)
				RETURNING id`

	err := r.storage.pool.QueryRow(ctx, query, priority.Name, priority.Weight).Scan(&priority.ID)
	if err != nil {
		if isConstraint(err) {
			logger.Warn("Repository: Нарушение ограничения при добавлении приоритета", zap.Error(err))
			return repository.ErrConstraint
		}
		logger.Error("Repository: Не удалось добавить приоритет", err)
		return fmt.Errorf("добавление приоритета: %w", err)
	}

	return nil
}

func (r *PriorityRepo) Update(ctx context.Context, priority *models.Priority) error {
	query := `UPDATE priorities
			SET name = $1,
				weight = $2
			WHERE id = $3 AND deleted = false
			RETURNING id`

	err := r.storage.pool.QueryRow(ctx, query, priority.Name, priority.Weight, priority.ID).Scan(&priority.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isConstraint(err) {
			logger.Warn("Repository: Нарушение ограничения при обновлении приоритета", zap.Error(err))
			return repository.ErrConstraint
		}
		logger.Error("Repository: Не удалось обновить приоритет", err)
		return fmt.Errorf("обновление приоритета: %w", err)
	}

	return nil
}

// DeleteSoft помечает приоритет удалённым. Ссылающиеся задачи не проверяются:
// защита от удаления действует только на физическое удаление строки (FK RESTRICT).
func (r *PriorityRepo) DeleteSoft(ctx context.Context, priority *models.Priority) error {
	query := `UPDATE priorities
				SET deleted = true
				WHERE id = $1`

	_, err := r.storage.pool.Exec(ctx, query, priority.ID)
	if err != nil {
		logger.Error("Repository: Мягкое удаление приоритета", err)
		return fmt.Errorf("мягкое удаление: %w", err)
	}

	priority.Deleted = true
	return nil
}
