package repository

import (
	"context"
	"time"

	"github.com/taskasaurus/taskrex/internal/domain"
)

// ErrNotFound is returned (wrapped) when a lookup by id matches no row.
var ErrNotFound = domain.ErrNotFound

// Page selects a window of a result set. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

// TaskFilter narrows task listings. Nil / empty fields do not filter.
type TaskFilter struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	CategoryID *string
	Search     string
	DueFrom    *time.Time
	DueTo      *time.Time
}

// TaskQuery is a filtered, sorted and paginated task listing.
type TaskQuery struct {
	Filter TaskFilter
	Sort   TaskSort
	Page   Page
}

// TaskBreakdown counts a set of tasks by status and by priority. Every
// enumerated value has an entry, zero when no task carries it.
type TaskBreakdown struct {
	Total      int
	ByStatus   map[domain.TaskStatus]int
	ByPriority map[domain.TaskPriority]int
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q TaskQuery) ([]*domain.Task, int, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time, page Page) ([]*domain.Task, int, error)
	ListUpcoming(ctx context.Context, from, to time.Time, priority *domain.TaskPriority) ([]*domain.Task, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
	ReassignCategory(ctx context.Context, fromID string, toID *string, now time.Time) (int, error)
	CountByCategory(ctx context.Context, categoryID string) (*TaskBreakdown, error)
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, page Page) ([]*domain.Category, int, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}
