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

type AttachmentService struct {
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	files       repository.FileStore
}

func NewAttachmentService(attachments repository.AttachmentRepository, tasks repository.TaskRepository, files repository.FileStore) AttachmentService {
	return AttachmentService{
		attachments: attachments,
		tasks:       tasks,
		files:       files,
	}
}

func (s *AttachmentService) ListForTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	// задача должна существовать и быть активной
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", taskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	attachments, err := s.attachments.GetForTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("получение вложений: %w", err)
	}
	return attachments, nil
}

// Add сохраняет файл и строку метаданных для существующей активной задачи
func (s *AttachmentService) Add(ctx context.Context, taskID int64, data []byte, filename string) (*models.Attachment, error) {
	if filename == "" {
		return nil, NewValidationError("file", "имя файла не может быть пустым")
	}

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", taskID))
			return nil, NewNotFound("задача", taskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	attachment := &models.Attachment{
		TaskID:   taskID,
		Filename: filename,
	}

	if err := s.attachments.Create(ctx, attachment, data); err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return nil, NewConstraintViolation("вложение", err)
		}
		return nil, fmt.Errorf("создание вложения: %w", err)
	}

	logger.Info("Service: Вложение добавлено",
		zap.Int64("attachment_id", attachment.ID),
		zap.Int64("task_id", taskID))
	return attachment, nil
}

// Open возвращает метаданные вложения и содержимое файла
func (s *AttachmentService) Open(ctx context.Context, id int64) (*models.Attachment, []byte, error) {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, NewNotFound("вложение", id)
		}
		return nil, nil, fmt.Errorf("получение вложения: %w", err)
	}

	data, err := s.files.Open(attachment.File)
	if err != nil {
		// строка есть, файла нет - допустимая рассинхронизация, наружу 404
		logger.Warn("Service: Файл вложения отсутствует",
			zap.Int64("attachment_id", id),
			zap.String("file", attachment.File))
		return nil, nil, NewNotFound("файл вложения", id)
	}

	return attachment, data, nil
}

// Delete безвозвратно удаляет вложение и возвращает id владеющей задачи
func (s *AttachmentService) Delete(ctx context.Context, id int64) (int64, error) {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Вложение не найдено", zap.Int64("target_id", id))
			return 0, NewNotFound("вложение", id)
		}
		return 0, fmt.Errorf("получение вложения: %w", err)
	}

	taskID := attachment.TaskID
	if err := s.attachments.DeleteHard(ctx, attachment); err != nil {
		return 0, fmt.Errorf("удаление вложения: %w", err)
	}

	logger.Info("Service: Вложение удалено",
		zap.Int64("attachment_id", id),
		zap.Int64("task_id", taskID))
	return taskID, nil
}
