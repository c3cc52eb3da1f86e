package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, description, status, priority, due_date,
		category_id, parent_id, created_at, updated_at`

// openStatusClause excludes tasks that can no longer be overdue or upcoming.
const openStatusClause = `status NOT IN ('completed','cancelled')`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a task repository on a *sql.DB or *sql.Tx.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimestamp(t.DueDate),
		t.CategoryID,
		t.ParentID,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// Update writes every mutable column; parent_id is fixed at creation.
func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
		due_date = ?, category_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimestamp(t.DueDate),
		t.CategoryID,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectAffected(res, "task "+t.ID)
}

// Delete removes a task; the schema cascades the delete to its subtasks.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectAffected(res, "task "+id)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, q TaskQuery) ([]*domain.Task, int, error) {
	where, args := q.Filter.where()

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY ` + q.Sort.orderBy()
	query, args = withPage(query, args, q.Page)
	tasks, err := r.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_id = ? ORDER BY created_at, rowid`
	tasks, err := r.queryTasks(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE category_id = ? ORDER BY created_at DESC, rowid DESC`
	tasks, err := r.queryTasks(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing category tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) ListOverdue(ctx context.Context, now time.Time, page Page) ([]*domain.Task, int, error) {
	where := ` WHERE due_date IS NOT NULL AND due_date < ? AND ` + openStatusClause
	args := []any{formatTimestamp(now)}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting overdue tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY due_date ASC, rowid ASC`
	query, args = withPage(query, args, page)
	tasks, err := r.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing overdue tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *SQLiteTaskRepo) ListUpcoming(ctx context.Context, from, to time.Time, priority *domain.TaskPriority) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE due_date >= ? AND due_date <= ? AND ` + openStatusClause
	args := []any{formatTimestamp(from), formatTimestamp(to)}
	if priority != nil {
		query += ` AND priority = ?`
		args = append(args, string(*priority))
	}
	query += ` ORDER BY due_date ASC, rowid ASC`

	tasks, err := r.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming tasks: %w", err)
	}
	return tasks, nil
}

// ListDueBetween returns tasks whose due date lies in [from, to], ordered by
// due date. Tasks without a due date are never returned.
func (r *SQLiteTaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE due_date >= ? AND due_date <= ? ORDER BY due_date ASC, rowid ASC`
	tasks, err := r.queryTasks(ctx, query, formatTimestamp(from), formatTimestamp(to))
	if err != nil {
		return nil, fmt.Errorf("listing tasks by due date: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE created_at >= ? AND created_at <= ? ORDER BY created_at ASC, rowid ASC`
	tasks, err := r.queryTasks(ctx, query, formatTimestamp(from), formatTimestamp(to))
	if err != nil {
		return nil, fmt.Errorf("listing tasks by creation date: %w", err)
	}
	return tasks, nil
}

// ListCompletedBetween returns completed tasks whose last update falls in
// [from, to]; the update timestamp stands in for the completion time.
func (r *SQLiteTaskRepo) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status = 'completed' AND updated_at >= ? AND updated_at <= ?
		ORDER BY updated_at ASC, rowid ASC`
	tasks, err := r.queryTasks(ctx, query, formatTimestamp(from), formatTimestamp(to))
	if err != nil {
		return nil, fmt.Errorf("listing completed tasks: %w", err)
	}
	return tasks, nil
}

// ReassignCategory moves every task of category fromID to toID, or clears
// their category when toID is nil. Returns the number of tasks touched.
func (r *SQLiteTaskRepo) ReassignCategory(ctx context.Context, fromID string, toID *string, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET category_id = ?, updated_at = ? WHERE category_id = ?`,
		toID, formatTimestamp(now), fromID)
	if err != nil {
		return 0, fmt.Errorf("reassigning category tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTaskRepo) CountByCategory(ctx context.Context, categoryID string) (*TaskBreakdown, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, priority, COUNT(*) FROM tasks WHERE category_id = ? GROUP BY status, priority`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("counting category tasks: %w", err)
	}
	defer rows.Close()

	b := newTaskBreakdown()
	for rows.Next() {
		var status, priority string
		var n int
		if err := rows.Scan(&status, &priority, &n); err != nil {
			return nil, fmt.Errorf("scanning task counts: %w", err)
		}
		b.Total += n
		b.ByStatus[domain.TaskStatus(status)] += n
		b.ByPriority[domain.TaskPriority(priority)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task counts: %w", err)
	}
	return b, nil
}

func newTaskBreakdown() *TaskBreakdown {
	b := &TaskBreakdown{
		ByStatus:   make(map[domain.TaskStatus]int, len(domain.TaskStatuses)),
		ByPriority: make(map[domain.TaskPriority]int, len(domain.TaskPriorities)),
	}
	for _, s := range domain.TaskStatuses {
		b.ByStatus[s] = 0
	}
	for _, p := range domain.TaskPriorities {
		b.ByPriority[p] = 0
	}
	return b
}

// where renders the filter as a WHERE clause (with leading space) and its
// arguments. An empty filter renders as "".
func (f TaskFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if f.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*f.Priority))
	}
	if f.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.DueFrom != nil {
		conds = append(conds, "due_date >= ?")
		args = append(args, formatTimestamp(*f.DueFrom))
	}
	if f.DueTo != nil {
		conds = append(conds, "due_date <= ?")
		args = append(args, formatTimestamp(*f.DueTo))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func withPage(query string, args []any, p Page) (string, []any) {
	if p.Limit > 0 {
		return query + ` LIMIT ? OFFSET ?`, append(args, p.Limit, p.Offset)
	}
	if p.Offset > 0 {
		return query + ` LIMIT -1 OFFSET ?`, append(args, p.Offset)
	}
	return query, args
}

func (r *SQLiteTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// scanTask scans one task row. sql.ErrNoRows is returned unwrapped so
// callers can map it to ErrNotFound.
func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var statusStr, priorityStr, createdAtStr, updatedAtStr string
	var description, categoryID, parentID, dueDateStr sql.NullString

	err := row.Scan(
		&t.ID, &t.Title, &description, &statusStr, &priorityStr, &dueDateStr,
		&categoryID, &parentID, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(statusStr)
	t.Priority = domain.TaskPriority(priorityStr)
	t.Description = nullStringPtr(description)
	t.CategoryID = nullStringPtr(categoryID)
	t.ParentID = nullStringPtr(parentID)

	if t.DueDate, err = parseNullableTimestamp(dueDateStr); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
