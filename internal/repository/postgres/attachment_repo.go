package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

// AttachmentRepo хранит строки вложений в PostgreSQL, а файловые данные -
// в отдельном файловом хранилище, на которое строка ссылается колонкой file.
type AttachmentRepo struct {
	storage *Storage
	files   repository.FileStore
}

func NewAttachmentRepo(storage *Storage, files repository.FileStore) *AttachmentRepo {
	return &AttachmentRepo{storage: storage, files: files}
}

func (r *AttachmentRepo) GetForTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	query := `SELECT a.id, a.task_id, a.file, a.filename, a.uploaded_at
				FROM attachments a
				WHERE a.task_id = $1
				ORDER BY a.uploaded_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить вложения", err)
		return nil, fmt.Errorf("получение вложений: %w", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.File, &a.Filename, &a.UploadedAt); err != nil {
			logger.Warn("Repository: Ошибка сканирования вложения", zap.Error(err))
			continue
		}
		attachments = append(attachments, a)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return attachments, nil
}

func (r *AttachmentRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	query := `SELECT a.id, a.task_id, a.file, a.filename, a.uploaded_at
				FROM attachments a
				WHERE a.id = $1`

	a := &models.Attachment{}
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.TaskID, &a.File, &a.Filename, &a.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить вложение", err)
		return nil, fmt.Errorf("получение вложения: %w", err)
	}

	return a, nil
}

// Create сохраняет файловые данные, затем строку метаданных
func (r *AttachmentRepo) Create(ctx context.Context, attachment *models.Attachment, data []byte) error {
	handle, err := r.files.Save(data, attachment.Filename)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить файл вложения", err)
		return fmt.Errorf("сохранение файла: %w", err)
	}
	attachment.File = handle

	query := `INSERT INTO attachments (task_id, file, filename)
				VALUES ($1, $2, $3)
				RETURNING id, uploaded_at`

	err = r.storage.pool.QueryRow(ctx, query,
		attachment.TaskID,
		attachment.File,
		attachment.Filename,
	).Scan(&attachment.ID, &attachment.UploadedAt)

	if err != nil {
		// строка не записана - подчищаем уже сохранённый файл
		if delErr := r.files.Delete(handle); delErr != nil {
			logger.Warn("Repository: Не удалось удалить файл после сбоя вставки", zap.Error(delErr))
		}
		if isConstraint(err) {
			logger.Warn("Repository: Нарушение ограничения при добавлении вложения", zap.Error(err))
			return repository.ErrConstraint
		}
		logger.Error("Repository: Не удалось добавить вложение", err)
		return fmt.Errorf("добавление вложения: %w", err)
	}

	return nil
}

// ListHandles отдаёт хэндлы всех файлов, на которые ссылаются строки.
// Нужен фоновой уборке осиротевших файлов.
func (r *AttachmentRepo) ListHandles(ctx context.Context) ([]string, error) {
	query := `SELECT a.file FROM attachments a`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить хэндлы вложений", err)
		return nil, fmt.Errorf("получение хэндлов: %w", err)
	}
	defer rows.Close()

	handles := []string{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			logger.Warn("Repository: Ошибка сканирования хэндла", zap.Error(err))
			continue
		}
		handles = append(handles, h)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return handles, nil
}

// DeleteHard удаляет файл, затем строку. Сбой удаления файла не блокирует
// удаление строки: осиротевший файл - допустимая деградация.
func (r *AttachmentRepo) DeleteHard(ctx context.Context, attachment *models.Attachment) error {
	if err := r.files.Delete(attachment.File); err != nil {
		logger.Warn("Repository: Не удалось удалить файл вложения",
			zap.Error(err),
			zap.String("file", attachment.File))
	}

	query := `DELETE FROM attachments
				WHERE id = $1`

	_, err := r.storage.pool.Exec(ctx, query, attachment.ID)
	if err != nil {
		logger.Error("Repository: Полное удаление вложения", err)
		return fmt.Errorf("полное удаление: %w", err)
	}

	return nil
}
