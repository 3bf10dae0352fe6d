package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type PriorityService struct {
	priorities repository.PriorityRepository
}

func NewPriorityService(priorities repository.PriorityRepository) PriorityService {
	return PriorityService{priorities: priorities}
}

func (s *PriorityService) List(ctx context.Context) ([]*models.Priority, error) {
	priorities, err := s.priorities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение приоритетов: %w", err)
	}
	return priorities, nil
}

func (s *PriorityService) Get(ctx context.Context, id int64) (*models.Priority, error) {
	priority, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Приоритет не найден", zap.Int64("target_id", id))
			return nil, NewNotFound("приоритет", id)
		}
		return nil, fmt.Errorf("получение приоритета: %w", err)
	}
	return priority, nil
}

func (s *PriorityService) Create(ctx context.Context, name string, weight int) (*models.Priority, error) {
	if name == "" {
		return nil, NewValidationError("name", "название не может быть пустым")
	}

	priority := &models.Priority{Name: name, Weight: weight}
	if err := s.priorities.Create(ctx, priority); err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return nil, NewConstraintViolation("приоритет", err)
		}
		return nil, fmt.Errorf("создание приоритета: %w", err)
	}

	logger.Info("Service: Приоритет создан", zap.Int64("priority_id", priority.ID))
	return priority, nil
}

func (s *PriorityService) Update(ctx context.Context, id int64, name string, weight int) (*models.Priority, error) {
	if name == "" {
		return nil, NewValidationError("name", "название не может быть пустым")
	}

	priority, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Приоритет не найден", zap.Int64("target_id", id))
			return nil, NewNotFound("приоритет", id)
		}
		return nil, fmt.Errorf("получение приоритета: %w", err)
	}

	priority.Name = name
	priority.Weight = weight

	if err := s.priorities.Update(ctx, priority); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("приоритет", id)
		}
		return nil, fmt.Errorf("обновление приоритета: %w", err)
	}

	return priority, nil
}

// Delete - мягкое удаление приоритета. Ссылающиеся задачи намеренно
// не проверяются: они продолжают указывать на удалённый приоритет,
// как и в исходной системе. FK-защита действует только на физическое
// удаление строки.
func (s *PriorityService) Delete(ctx context.Context, id int64) error {
	priority, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Приоритет не найден", zap.Int64("target_id", id))
			return NewNotFound("приоритет", id)
		}
		return fmt.Errorf("получение приоритета: %w", err)
	}

	if err := s.priorities.DeleteSoft(ctx, priority); err != nil {
		return fmt.Errorf("удаление приоритета: %w", err)
	}

	logger.Info("Service: Приоритет удалён", zap.Int64("priority_id", id))
	return nil
}
