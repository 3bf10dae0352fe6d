package repository

import (
	"context"

	"github.com/s0-shady/Task-Manager-django/internal/models"
)

// TaskRepository - операции над активными (deleted = false) задачами.
// Все выборки подтягивают приоритет задачи.
type TaskRepository interface {
	GetPending(ctx context.Context, orderBy ...Order) ([]*models.Task, error)
	GetCompleted(ctx context.Context, orderBy ...Order) ([]*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	// GetForCompletion возвращает задачу только если она ещё не завершена
	GetForCompletion(ctx context.Context, id int64) (*models.Task, error)
	// GetForRestore возвращает задачу только если она завершена
	GetForRestore(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	DeleteSoft(ctx context.Context, task *models.Task) error
}

type PriorityRepository interface {
	GetAll(ctx context.Context, orderBy ...Order) ([]*models.Priority, error)
	GetByID(ctx context.Context, id int64) (*models.Priority, error)
	Create(ctx context.Context, priority *models.Priority) error
	Update(ctx context.Context, priority *models.Priority) error
	DeleteSoft(ctx context.Context, priority *models.Priority) error
}

// AttachmentRepository хранит строки вложений вместе с файловыми данными:
// Create пишет сначала файл, потом строку; DeleteHard удаляет файл и строку.
type AttachmentRepository interface {
	GetForTask(ctx context.Context, taskID int64) ([]models.Attachment, error)
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)
	Create(ctx context.Context, attachment *models.Attachment, data []byte) error
	DeleteHard(ctx context.Context, attachment *models.Attachment) error
}

// FileStore - хранилище файловых данных вложений, отдельное от строк
type FileStore interface {
	Save(data []byte, filename string) (string, error)
	Open(handle string) ([]byte, error)
	Delete(handle string) error
}
