package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// UseCase orchestrates the task lifecycle: ownership-scoped CRUD plus the
// filter engine queries. It trusts the userID handed in by the auth boundary
// and performs no token logic itself.
type UseCase struct {
	tasks  repository.TaskRepository
	audit  usecase.AuditRecorder
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, audit usecase.AuditRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		audit:  audit,
		logger: logger,
	}
}

// Create validates the payload and persists a new pending task owned by userID.
func (uc *UseCase) Create(ctx context.Context, userID, title, description string) (*domain.Task, error) {
	task, err := domain.NewTask(userID, title, description)
	if err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.ActionCreate, created)
	return created, nil
}

// List returns the page of userID's tasks matching the filter, newest first,
// along with the total match count.
func (uc *UseCase) List(ctx context.Context, userID string, spec domain.ListFilter, skip, limit int) ([]domain.Task, int, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{
		UserID: userID,
		Spec:   spec,
		Skip:   skip,
		Limit:  limit,
	})
}

func (uc *UseCase) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, userID, id)
}

// UpdateStatus moves a task to the given status. Transitions are
// unconstrained; only membership in the status enum is checked.
func (uc *UseCase) UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "status must be one of pending, in_progress, done")
	}

	updated, err := uc.tasks.UpdateStatus(ctx, userID, id, status)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, usecase.ActionUpdateStatus, updated)
	return updated, nil
}

// Delete removes a task permanently. Deleting an already-deleted task fails
// with not-found; there is no soft delete.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.tasks.Delete(ctx, userID, id); err != nil {
		return err
	}

	uc.record(ctx, usecase.ActionDelete, &domain.Task{ID: id, UserID: userID})
	return nil
}

// AvailableDates lists the distinct calendar days carrying at least one of
// userID's tasks, ascending.
func (uc *UseCase) AvailableDates(ctx context.Context, userID string) ([]string, error) {
	return uc.tasks.ListDates(ctx, userID)
}

// AvailableMonths lists the distinct YYYY-MM values across userID's tasks,
// ascending.
func (uc *UseCase) AvailableMonths(ctx context.Context, userID string) ([]string, error) {
	return uc.tasks.ListMonths(ctx, userID)
}

func (uc *UseCase) record(ctx context.Context, action string, task *domain.Task) {
	if uc.audit == nil {
		return
	}
	uc.audit.RecordTask(ctx, action, task)
}
