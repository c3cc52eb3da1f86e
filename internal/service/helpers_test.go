package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
	"github.com/taskasaurus/taskrex/internal/testutil"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db         *sql.DB
	taskRepo   *repository.SQLiteTaskRepo
	catRepo    *repository.SQLiteCategoryRepo
	tasks      TaskService
	categories CategoryService
	calendar   CalendarService
	imports    ImportService
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newTestEnvOn(database, opts...)
}

func newTestEnvOn(database *sql.DB, opts ...Option) *testEnv {
	opts = append([]Option{WithClock(testutil.Clock(testutil.FixedNow))}, opts...)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	catRepo := repository.NewSQLiteCategoryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	return &testEnv{
		db:         database,
		taskRepo:   taskRepo,
		catRepo:    catRepo,
		tasks:      NewTaskService(taskRepo, catRepo, uow, opts...),
		categories: NewCategoryService(catRepo, taskRepo, uow, opts...),
		calendar:   NewCalendarService(taskRepo, opts...),
		imports:    NewImportService(uow, opts...),
	}
}

func (e *testEnv) mustCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), app.CreateCategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) mustTask(t *testing.T, in app.CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), in)
	require.NoError(t, err)
	return task
}

// insertTask stores a fixture directly, bypassing the service clock.
func (e *testEnv) insertTask(t *testing.T, task *domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, e.taskRepo.Create(context.Background(), task))
	return task
}

func ptr[T any](v T) *T { return &v }

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}
