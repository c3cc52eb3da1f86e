package app

import "github.com/taskasaurus/taskrex/internal/domain"

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        domain.Optional[string]  `json:"name"`
	Color       domain.Optional[string]  `json:"color"`
	Icon        domain.Optional[*string] `json:"icon"`
	Description domain.Optional[*string] `json:"description"`
}

type CategoryListResult struct {
	Categories []*domain.Category `json:"categories"`
	Total      int                `json:"total"`
}

// CategoryDetail is a category with its tasks eagerly loaded.
type CategoryDetail struct {
	*domain.Category
	Tasks []*domain.Task `json:"tasks"`
}

// CategoryStats breaks a category's tasks down by status and priority. Both
// maps carry every enumerated key.
type CategoryStats struct {
	CategoryID string                      `json:"category_id"`
	TotalTasks int                         `json:"total_tasks"`
	ByStatus   map[domain.TaskStatus]int   `json:"by_status"`
	ByPriority map[domain.TaskPriority]int `json:"by_priority"`
}

// DeleteCategoryResult reports how many tasks were moved or detached.
type DeleteCategoryResult struct {
	CategoryID   string  `json:"category_id"`
	ReassignedTo *string `json:"reassigned_to"`
	TasksMoved   int     `json:"tasks_moved"`
}
