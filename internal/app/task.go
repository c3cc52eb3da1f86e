package app

import (
	"time"

	"github.com/taskasaurus/taskrex/internal/domain"
)

// CreateTaskInput is raw create input. Status and Priority are parsed by the
// service; empty values take the defaults.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *string    `json:"category_id"`
	ParentID    *string    `json:"parent_id"`
}

// UpdateTaskInput is a partial update. Absent keys leave the field alone; an
// explicit null clears description, due_date or category_id.
type UpdateTaskInput struct {
	Title       domain.Optional[string]     `json:"title"`
	Description domain.Optional[*string]    `json:"description"`
	Status      domain.Optional[string]     `json:"status"`
	Priority    domain.Optional[string]     `json:"priority"`
	DueDate     domain.Optional[*time.Time] `json:"due_date"`
	CategoryID  domain.Optional[*string]    `json:"category_id"`
}

// ListTasksRequest holds unparsed list filters. Empty strings do not filter;
// a zero Limit selects the configured default.
type ListTasksRequest struct {
	Status     string
	Priority   string
	CategoryID string
	Search     string
	DueFrom    *time.Time
	DueTo      *time.Time
	SortBy     string
	Order      string
	Offset     int
	Limit      int
}

// PageRequest is an offset/limit pair from external input.
type PageRequest struct {
	Offset int
	Limit  int
}

type TaskListResult struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int            `json:"total"`
}

// TaskDetail is a task with its category and direct subtasks resolved.
type TaskDetail struct {
	*domain.Task
	Category *domain.Category `json:"category"`
	Subtasks []*domain.Task   `json:"subtasks"`
}

type OverdueResult struct {
	Tasks        []*domain.Task `json:"tasks"`
	TotalOverdue int            `json:"total_overdue"`
}
