package inmemory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/s0-shady/Task-Manager-django/internal/models"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
)

// Storage - общее in-memory хранилище для всех трёх сущностей.
// Используется в юнит-тестах и как репозиторий при repository.type = inmemory.
type Storage struct {
	mtx *sync.RWMutex

	tasks       map[int64]*models.Task
	priorities  map[int64]*models.Priority
	attachments map[int64]*models.Attachment

	nextTaskID       int64
	nextPriorityID   int64
	nextAttachmentID int64
}

func NewStorage() *Storage {
	return &Storage{
		mtx:         &sync.RWMutex{},
		tasks:       make(map[int64]*models.Task),
		priorities:  make(map[int64]*models.Priority),
		attachments: make(map[int64]*models.Attachment),
	}
}

func cloneTask(t *models.Task) *models.Task {
	clone := *t
	if t.Priority != nil {
		p := *t.Priority
		clone.Priority = &p
	}
	return &clone
}

// withPriority снимает копию задачи с актуальным приоритетом.
// Вызывается под блокировкой.
func (s *Storage) withPriority(t *models.Task) *models.Task {
	clone := *t
	if p, ok := s.priorities[t.PriorityID]; ok {
		pc := *p
		clone.Priority = &pc
	}
	return &clone
}

// weightOf нужен компаратору сортировки. Вызывается под блокировкой.
func (s *Storage) weightOf(t *models.Task) int {
	if p, ok := s.priorities[t.PriorityID]; ok {
		return p.Weight
	}
	return 0
}

// sortTasks применяет порядок сортировки к срезу задач. Стабильная
// сортировка по полям в обратном порядке воспроизводит многоуровневый
// ORDER BY.
func (s *Storage) sortTasks(tasks []*models.Task, orders []repository.Order) {
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		sort.SliceStable(tasks, func(a, b int) bool {
			less := s.lessTask(tasks[a], tasks[b], o.Field)
			if o.Desc {
				return less > 0
			}
			return less < 0
		})
	}
}

func (s *Storage) lessTask(a, b *models.Task, field repository.SortField) int {
	switch field {
	case repository.SortByID:
		return compareInt64(a.ID, b.ID)
	case repository.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case repository.SortByDateAdded:
		return a.DateAdded.Compare(b.DateAdded)
	case repository.SortByWeight:
		return compareInt64(int64(s.weightOf(a)), int64(s.weightOf(b)))
	case repository.SortByCompletionDate:
		return compareDatePtr(a.CompletionDate, b.CompletionDate)
	}
	return compareInt64(a.ID, b.ID)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareDatePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
