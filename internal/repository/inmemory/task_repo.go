package inmemory

import (
	"context"

	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type TaskRepo struct {
	s *Storage
}

func NewTaskRepo(s *Storage) *TaskRepo {
	return &TaskRepo{s: s}
}

func (r *TaskRepo) GetPending(ctx context.Context, orderBy ...repository.Order) ([]*models.Task, error) {
	return r.getTasks(func(t *models.Task) bool {
		return t.CompletionDate == nil
	}, orderBy, repository.DefaultPendingOrder)
}

func (r *TaskRepo) GetCompleted(ctx context.Context, orderBy ...repository.Order) ([]*models.Task, error) {
	return r.getTasks(func(t *models.Task) bool {
		return t.CompletionDate != nil
	}, orderBy, repository.DefaultCompletedOrder)
}

func (r *TaskRepo) getTasks(predicate func(*models.Task) bool, orderBy, defaults []repository.Order) ([]*models.Task, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	res := []*models.Task{}
	for _, t := range r.s.tasks {
		if t.Deleted || !predicate(t) {
			continue
		}
		res = append(res, r.s.withPriority(t))
	}

	if len(orderBy) == 0 {
		orderBy = defaults
	}
	r.s.sortTasks(res, orderBy)

	return res, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(id, func(t *models.Task) bool { return true })
}

func (r *TaskRepo) GetForCompletion(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(id, func(t *models.Task) bool { return t.CompletionDate == nil })
}

func (r *TaskRepo) GetForRestore(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(id, func(t *models.Task) bool { return t.CompletionDate != nil })
}

// предикат состояния проверяется тем же обращением, что и существование:
// несовпадение состояния неотличимо от отсутствия записи
func (r *TaskRepo) getOne(id int64, predicate func(*models.Task) bool) (*models.Task, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.Deleted || !predicate(t) {
		return nil, repository.ErrNotFound
	}

	return r.s.withPriority(t), nil
}

func (r *TaskRepo) Create(ctx context.Context, taskToCreate *models.Task) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	r.s.nextTaskID++
	taskToCreate.ID = r.s.nextTaskID
	if taskToCreate.DateAdded.IsZero() {
		taskToCreate.DateAdded = models.Today()
	}

	r.s.tasks[taskToCreate.ID] = cloneTask(taskToCreate)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, taskToUpdate *models.Task) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	existing, ok := r.s.tasks[taskToUpdate.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}

	r.s.tasks[taskToUpdate.ID] = cloneTask(taskToUpdate)
	return nil
}

// мягкое удаление, идемпотентно
func (r *TaskRepo) DeleteSoft(ctx context.Context, taskToDelete *models.Task) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if existing, ok := r.s.tasks[taskToDelete.ID]; ok {
		existing.Deleted = true
	}
	taskToDelete.Deleted = true

	return nil
}
