package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// TaskFilter scopes a listing to one owner and applies the filter engine's
// constraints plus a paging window.
type TaskFilter struct {
	UserID string
	Spec   domain.ListFilter
	Skip   int
	Limit  int
}

// TaskRepository persists tasks. Every read and mutation is scoped by owner:
// a task belonging to another user is indistinguishable from a missing one.
type TaskRepository interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	// List returns the matching page ordered created_at DESC plus the total
	// match count before paging.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
	ListDates(ctx context.Context, userID string) ([]string, error)
	ListMonths(ctx context.Context, userID string) ([]string, error)
}
