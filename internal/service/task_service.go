package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

// здесь происходит проверка правил бизнес-логики задач

type TaskService struct {
	tasks       repository.TaskRepository
	priorities  repository.PriorityRepository
	attachments repository.AttachmentRepository
}

func NewTaskService(tasks repository.TaskRepository, priorities repository.PriorityRepository, attachments repository.AttachmentRepository) TaskService {
	return TaskService{
		tasks:       tasks,
		priorities:  priorities,
		attachments: attachments,
	}
}

// TaskList - данные для экрана списка задач
type TaskList struct {
	Pending   []*models.Task
	Completed []*models.Task
}

// SortedTasks - результат сортированной выборки вместе с эхом параметров
type SortedTasks struct {
	Tasks     []*models.Task
	SortBy    string
	SortOrder string
}

func (s *TaskService) List(ctx context.Context) (*TaskList, error) {
	pending, err := s.tasks.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение незавершённых задач: %w", err)
	}

	completed, err := s.tasks.GetCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение завершённых задач: %w", err)
	}

	return &TaskList{Pending: pending, Completed: completed}, nil
}

// GetWithAttachments возвращает задачу вместе с её вложениями
func (s *TaskService) GetWithAttachments(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	attachments, err := s.attachments.GetForTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("получение вложений задачи: %w", err)
	}
	task.Attachments = attachments

	return task, nil
}

func (s *TaskService) Create(ctx context.Context, title, content string, priorityID int64, dateAdded time.Time) (*models.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	priority, err := s.priorities.GetByID(ctx, priorityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewValidationError("priority_id", "приоритет не существует")
		}
		return nil, fmt.Errorf("получение приоритета: %w", err)
	}

	task := &models.Task{
		Title:      title,
		Content:    content,
		PriorityID: priorityID,
		Priority:   priority,
	}
	if !dateAdded.IsZero() {
		task.DateAdded = models.DateOf(dateAdded)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return nil, NewConstraintViolation("задача", err)
		}
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", task.ID))
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, options ...models.TaskOption) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		if opt != nil {
			opt(task)
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewNotFound("задача", id)
		case errors.Is(err, repository.ErrConstraint):
			return nil, NewConstraintViolation("задача", err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return task, nil
}

// Complete переводит незавершённую задачу в завершённые, проставляя
// сегодняшнюю дату. Завершённая или отсутствующая задача - NOT_FOUND:
// предикат состояния входит в выборку.
func (s *TaskService) Complete(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetForCompletion(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена или уже завершена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	today := models.Today()
	task.CompletionDate = &today

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("завершение задачи: %w", err)
	}

	logger.Info("Service: Задача завершена", zap.Int64("task_id", id))
	return task, nil
}

// Restore возвращает завершённую задачу в незавершённые
func (s *TaskService) Restore(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetForRestore(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена или не завершена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	task.CompletionDate = nil

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("восстановление задачи: %w", err)
	}

	logger.Info("Service: Задача восстановлена", zap.Int64("task_id", id))
	return task, nil
}

// Delete - мягкое удаление, из любого состояния
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return NewNotFound("задача", id)
		}
		return fmt.Errorf("получение задачи: %w", err)
	}

	if err := s.tasks.DeleteSoft(ctx, task); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}

// Sorted возвращает выборку задач по параметрам sort_by/sort_order.
// Неверный sort_order молча заменяется на desc, неверный sort_by - ошибка
// валидации.
func (s *TaskService) Sorted(ctx context.Context, completed bool, sortBy, sortOrder string) (*SortedTasks, error) {
	sortOrder = NormalizeSortOrder(sortOrder)

	if !IsValidSortField(sortBy) {
		logger.Warn("Service: Недопустимое поле сортировки", zap.String("sort_by", sortBy))
		return nil, invalidSortByError()
	}

	orderBy := buildOrderBy(sortBy, sortOrder)

	var tasks []*models.Task
	var err error
	if completed {
		tasks, err = s.tasks.GetCompleted(ctx, orderBy...)
	} else {
		tasks, err = s.tasks.GetPending(ctx, orderBy...)
	}
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	for _, task := range tasks {
		attachments, err := s.attachments.GetForTask(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("получение вложений задачи: %w", err)
		}
		task.Attachments = attachments
	}

	return &SortedTasks{Tasks: tasks, SortBy: sortBy, SortOrder: sortOrder}, nil
}
