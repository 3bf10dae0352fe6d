package inmemory

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type AttachmentRepo struct {
	s     *Storage
	files repository.FileStore
}

func NewAttachmentRepo(s *Storage, files repository.FileStore) *AttachmentRepo {
	return &AttachmentRepo{s: s, files: files}
}

func (r *AttachmentRepo) GetForTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	res := []models.Attachment{}
	for _, a := range r.s.attachments {
		if a.TaskID == taskID {
			res = append(res, *a)
		}
	}

	// свежие вложения первыми
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].UploadedAt.After(res[j].UploadedAt)
	})

	return res, nil
}

func (r *AttachmentRepo) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	a, ok := r.s.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	clone := *a
	return &clone, nil
}

func (r *AttachmentRepo) Create(ctx context.Context, attachment *models.Attachment, data []byte) error {
	handle, err := r.files.Save(data, attachment.Filename)
	if err != nil {
		return err
	}
	attachment.File = handle

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	r.s.nextAttachmentID++
	attachment.ID = r.s.nextAttachmentID
	if attachment.UploadedAt.IsZero() {
		attachment.UploadedAt = time.Now()
	}

	clone := *attachment
	r.s.attachments[attachment.ID] = &clone
	return nil
}

func (r *AttachmentRepo) ListHandles(ctx context.Context) ([]string, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	handles := []string{}
	for _, a := range r.s.attachments {
		handles = append(handles, a.File)
	}
	return handles, nil
}

func (r *AttachmentRepo) DeleteHard(ctx context.Context, attachment *models.Attachment) error {
	if err := r.files.Delete(attachment.File); err != nil {
		logger.Warn("Repository: Не удалось удалить файл вложения",
			zap.Error(err),
			zap.String("file", attachment.File))
	}

	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	delete(r.s.attachments, attachment.ID)
	return nil
}
