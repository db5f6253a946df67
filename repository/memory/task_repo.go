package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// TaskRepository is an in-memory TaskRepository driven directly by the
// domain filter engine. It backs unit tests and local runs without Postgres.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task

	// Now supplies the reference time for day-group filters and task
	// timestamps; defaults to time.Now.
	Now func() time.Time
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]domain.Task),
		Now:   time.Now,
	}
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.Now().UTC()
	var matched []domain.Task
	for _, task := range r.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if !filter.Spec.Matches(task, now) {
			continue
		}
		matched = append(matched, task)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	skip := filter.Skip
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}
	matched = matched[skip:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.Now().UTC()
	}
	r.tasks[task.ID] = *task

	copied := *task
	return &copied, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	task.Status = status
	r.tasks[id] = task

	copied := task
	return &copied, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) ListDates(ctx context.Context, userID string) ([]string, error) {
	return domain.AvailableDates(r.ownedBy(userID)), nil
}

func (r *TaskRepository) ListMonths(ctx context.Context, userID string) ([]string, error) {
	return domain.AvailableMonths(r.ownedBy(userID)), nil
}

func (r *TaskRepository) ownedBy(userID string) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []domain.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			owned = append(owned, task)
		}
	}
	return owned
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
