package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

const taskColumns = "id, user_id, title, COALESCE(description, ''), status, created_at"

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1 AND user_id = $2", taskColumns)
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	where, args := buildConditions(filter, time.Now().UTC())

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, clampLimit(filter.Limit), maxInt(filter.Skip, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
	).Scan(&task.CreatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, userID, id string, status domain.Status) (*domain.Task, error) {
	query := fmt.Sprintf(`
	UPDATE tasks
	SET status = $3
	WHERE id = $1 AND user_id = $2
	RETURNING %s`, taskColumns)

	row := r.pool.QueryRow(ctx, query, id, userID, string(status))
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListDates(ctx context.Context, userID string) ([]string, error) {
	const query = `
	SELECT DISTINCT (created_at AT TIME ZONE 'UTC')::date AS day
	FROM tasks
	WHERE user_id = $1
	ORDER BY day ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		dates = append(dates, day.Format("2006-01-02"))
	}
	return dates, rows.Err()
}

func (r *taskRepository) ListMonths(ctx context.Context, userID string) ([]string, error) {
	const query = `
	SELECT DISTINCT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month
	FROM tasks
	WHERE user_id = $1
	ORDER BY month ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := []string{}
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, rows.Err()
}

// buildConditions translates a TaskFilter into SQL, mirroring
// domain.ListFilter.Matches: every set constraint is ANDed and day boundaries
// are evaluated on the UTC calendar.
func buildConditions(filter repository.TaskFilter, now time.Time) (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}

	next := func() int { return len(args) + 1 }

	if filter.Spec.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", next()))
		args = append(args, string(filter.Spec.Status))
	}

	if !filter.Spec.Date.IsZero() {
		conds = append(conds, fmt.Sprintf("(created_at AT TIME ZONE 'UTC')::date = $%d::date", next()))
		args = append(args, domain.DateOf(filter.Spec.Date).Format("2006-01-02"))
	}

	if filter.Spec.DayGroup != "" {
		today := domain.DateOf(now)
		switch filter.Spec.DayGroup {
		case domain.DayGroupToday:
			conds = append(conds, fmt.Sprintf("(created_at AT TIME ZONE 'UTC')::date = $%d::date", next()))
			args = append(args, today.Format("2006-01-02"))
		case domain.DayGroupYesterday:
			conds = append(conds, fmt.Sprintf("(created_at AT TIME ZONE 'UTC')::date = $%d::date", next()))
			args = append(args, today.AddDate(0, 0, -1).Format("2006-01-02"))
		case domain.DayGroupWeek:
			conds = append(conds, fmt.Sprintf("(created_at AT TIME ZONE 'UTC')::date >= $%d::date", next()))
			args = append(args, today.AddDate(0, 0, -7).Format("2006-01-02"))
		case domain.DayGroupMonth:
			conds = append(conds, fmt.Sprintf("(created_at AT TIME ZONE 'UTC')::date >= $%d::date", next()))
			args = append(args, today.AddDate(0, 0, -30).Format("2006-01-02"))
		}
	}

	if !filter.Spec.Month.IsZero() {
		start := time.Date(filter.Spec.Month.Year, filter.Spec.Month.Month, 1, 0, 0, 0, 0, time.UTC)
		conds = append(conds, fmt.Sprintf("created_at >= $%d AND created_at < $%d", next(), next()+1))
		args = append(args, start, start.AddDate(0, 1, 0))
	}

	return strings.Join(conds, " AND "), args
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var status string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.Status(status)
	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 100
	}
	return limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
