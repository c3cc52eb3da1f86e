package service

import (
	"context"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/importer"
)

type TaskService interface {
	List(ctx context.Context, req app.ListTasksRequest) (*app.TaskListResult, error)
	Get(ctx context.Context, id string) (*app.TaskDetail, error)
	Create(ctx context.Context, in app.CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, in app.UpdateTaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (*domain.Task, error)
	Subtasks(ctx context.Context, id string) ([]*domain.Task, error)
	Overdue(ctx context.Context, page app.PageRequest) (*app.TaskListResult, error)
	Upcoming(ctx context.Context, days int, priority string) ([]*domain.Task, error)
	DateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error)
}

type CategoryService interface {
	List(ctx context.Context, page app.PageRequest) (*app.CategoryListResult, error)
	Get(ctx context.Context, id string) (*app.CategoryDetail, error)
	Create(ctx context.Context, in app.CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in app.UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string, reassignTo *string) (*app.DeleteCategoryResult, error)
	Tasks(ctx context.Context, id string, page app.PageRequest) (*app.TaskListResult, error)
	Stats(ctx context.Context, id string) (*app.CategoryStats, error)
}

// CalendarService buckets tasks by due date. Date arguments are read by
// their calendar date only; days are evaluated in the configured location.
type CalendarService interface {
	Month(ctx context.Context, year, month int) (*app.MonthView, error)
	Week(ctx context.Context, date time.Time) (*app.WeekView, error)
	Day(ctx context.Context, date time.Time) (*app.DayView, error)
	Today(ctx context.Context) (*app.DayView, error)
	Range(ctx context.Context, start, end time.Time, groupBy string) (*app.RangeView, error)
	Stats(ctx context.Context, start, end time.Time) (*app.StatsView, error)
	Overdue(ctx context.Context, page app.PageRequest) (*app.OverdueResult, error)
	// Location is the zone calendar days are evaluated in.
	Location() *time.Location
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*app.SeedResult, error)
	Import(ctx context.Context, schema *importer.SeedSchema) (*app.SeedResult, error)
}
