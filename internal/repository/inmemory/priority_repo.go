package inmemory

import (
	"context"
	"sort"

	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

type PriorityRepo struct {
	s *Storage
}

func NewPriorityRepo(s *Storage) *PriorityRepo {
	return &PriorityRepo{s: s}
}

func (r *PriorityRepo) GetAll(ctx context.Context, orderBy ...repository.Order) ([]*models.Priority, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	res := []*models.Priority{}
	for _, p := range r.s.priorities {
		if p.Deleted {
			continue
		}
		clone := *p
		res = append(res, &clone)
	}

	if len(orderBy) == 0 {
		orderBy = repository.DefaultPriorityOrder
	}
	for i := len(orderBy) - 1; i >= 0; i-- {
		o := orderBy[i]
		sort.SliceStable(res, func(a, b int) bool {
			var less int
			switch o.Field {
			case repository.SortByWeight:
				less = compareInt64(int64(res[a].Weight), int64(res[b].Weight))
			default:
				less = compareInt64(res[a].ID, res[b].ID)
			}
			if o.Desc {
				return less > 0
			}
			return less < 0
		})
	}

	return res, nil
}

func (r *PriorityRepo) GetByID(ctx context.Context, id int64) (*models.Priority, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	p, ok := r.s.priorities[id]
	if !ok || p.Deleted {
		return nil, repository.ErrNotFound
	}

	clone := *p
	return &clone, nil
}

func (r *PriorityRepo) Create(ctx context.Context, priority *models.Priority) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	r.s.nextPriorityID++
	priority.ID = r.s.nextPriorityID

	clone := *priority
	r.s.priorities[priority.ID] = &clone
	return nil
}

func (r *PriorityRepo) Update(ctx context.Context, priority *models.Priority) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	existing, ok := r.s.priorities[priority.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}

	clone := *priority
	r.s.priorities[priority.ID] = &clone
	return nil
}

// мягкое удаление без проверки ссылающихся задач, идемпотентно
func (r *PriorityRepo) DeleteSoft(ctx context.Context, priority *models.Priority) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if existing, ok := r.s.priorities[priority.ID]; ok {
		existing.Deleted = true
	}
	priority.Deleted = true

	return nil
}
