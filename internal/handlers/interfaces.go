package handlers

import (
	"context"
	"time"

	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/service"
)

type TaskService interface {
	List(ctx context.Context) (*service.TaskList, error)
	GetWithAttachments(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, title, content string, priorityID int64, dateAdded time.Time) (*models.Task, error)
	Update(ctx context.Context, id int64, options ...models.TaskOption) (*models.Task, error)
	Complete(ctx context.Context, id int64) (*models.Task, error)
	Restore(ctx context.Context, id int64) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Sorted(ctx context.Context, completed bool, sortBy, sortOrder string) (*service.SortedTasks, error)
}

type PriorityService interface {
	List(ctx context.Context) ([]*models.Priority, error)
	Get(ctx context.Context, id int64) (*models.Priority, error)
	Create(ctx context.Context, name string, weight int) (*models.Priority, error)
	Update(ctx context.Context, id int64, name string, weight int) (*models.Priority, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentService interface {
	ListForTask(ctx context.Context, taskID int64) ([]models.Attachment, error)
	Add(ctx context.Context, taskID int64, data []byte, filename string) (*models.Attachment, error)
	Open(ctx context.Context, id int64) (*models.Attachment, []byte, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
