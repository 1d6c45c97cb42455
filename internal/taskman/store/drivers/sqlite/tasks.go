package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskway/taskman/internal/taskman/domain"
	"github.com/taskway/taskman/internal/taskman/store"
)

type tasksRepo struct {
	ext sqlx.ExtContext
}

type taskRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Completed   bool         `db:"completed"`
	DueDate     sql.NullTime `db:"due_date"`
	Priority    int          `db:"priority"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func mapTask(r taskRow) domain.Task {
	t := domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate.Valid {
		due := r.DueDate.Time.UTC()
		t.DueDate = &due
	}
	return t
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

const taskColumns = `id, user_id, title, description, completed, due_date, priority, created_at, updated_at`

func (r *tasksRepo) GetTaskByID(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	var row taskRow
	// Scoping by user_id makes someone else's task indistinguishable from a
	// missing one.
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, ownerID)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return mapTask(row), nil
}

func (r *tasksRepo) ListTasks(
	ctx context.Context,
	ownerID string,
	f domain.TaskFilter,
	s domain.TaskSort,
) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{ownerID}

	if f.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, *f.Completed)
	}
	if f.Priority != nil {
		query += ` AND priority = ?`
		args = append(args, *f.Priority)
	}

	// Normalize restricts the column to the sortable whitelist, so the
	// concatenation below never sees client input.
	s = s.Normalize()
	dir := "DESC"
	if s.Ascending {
		dir = "ASC"
	}
	query += ` ORDER BY ` + s.Field + ` ` + dir + `, id ` + dir

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTask(row))
	}
	return tasks, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, completed, due_date, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Description, t.Completed,
		mapOptionalTime(t.DueDate), t.Priority, t.CreatedAt, t.UpdatedAt)
	return mapConstraint(err)
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, completed = ?, due_date = ?, priority = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Completed, mapOptionalTime(t.DueDate), t.Priority, t.UpdatedAt,
		t.ID, t.UserID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *tasksRepo) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *tasksRepo) CountTasksByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.ext, &count,
		`SELECT COUNT(*) FROM tasks WHERE user_id = ?`, ownerID)
	return count, err
}

// requireRow converts a zero-rows-affected result into store.ErrNotFound so
// callers don't need a separate existence check before mutating.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
