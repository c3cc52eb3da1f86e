package repository

import (
	"strings"

	"github.com/taskasaurus/taskrex/internal/domain"
)

type TaskSortField string

const (
	SortCreatedAt TaskSortField = "created_at"
	SortUpdatedAt TaskSortField = "updated_at"
	SortDueDate   TaskSortField = "due_date"
	SortTitle     TaskSortField = "title"
	SortStatus    TaskSortField = "status"
	SortPriority  TaskSortField = "priority"
)

// TaskSort orders a task listing. The zero value sorts by created_at
// ascending; DefaultTaskSort is newest first.
type TaskSort struct {
	Field TaskSortField
	Desc  bool
}

var DefaultTaskSort = TaskSort{Field: SortCreatedAt, Desc: true}

// ParseTaskSort validates a sort field and direction from external input.
// Empty values fall back to created_at / desc.
func ParseTaskSort(field, order string) (TaskSort, error) {
	s := DefaultTaskSort
	if f := strings.ToLower(strings.TrimSpace(field)); f != "" {
		if _, ok := sortColumns[TaskSortField(f)]; !ok {
			return TaskSort{}, domain.Invalid("sort_by", "cannot sort by %q", field)
		}
		s.Field = TaskSortField(f)
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
		s.Desc = true
	case "asc":
		s.Desc = false
	default:
		return TaskSort{}, domain.Invalid("order", "must be asc or desc (got %q)", order)
	}
	return s, nil
}

var sortColumns = map[TaskSortField]string{
	SortCreatedAt: "created_at",
	SortUpdatedAt: "updated_at",
	SortDueDate:   "due_date",
	SortTitle:     "title COLLATE NOCASE",
	SortStatus:    "status",
	SortPriority: `CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2
		WHEN 'high' THEN 3 WHEN 'urgent' THEN 4 ELSE 0 END`,
}

// orderBy renders the ORDER BY clause. Tasks without a due date go last
// when sorting by due date; rowid keeps pagination stable on ties.
func (s TaskSort) orderBy() string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[SortCreatedAt]
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	clause := col + " " + dir
	if s.Field == SortDueDate {
		clause += " NULLS LAST"
	}
	return clause + ", rowid " + dir
}
