package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/config"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
	"github.com/taskasaurus/taskrex/internal/service"
	"github.com/taskasaurus/taskrex/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	taskRepo := repository.NewSQLiteTaskRepo(database)
	catRepo := repository.NewSQLiteCategoryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	clock := service.WithClock(testutil.Clock(testutil.FixedNow))

	return &App{
		Tasks:      service.NewTaskService(taskRepo, catRepo, uow, clock),
		Categories: service.NewCategoryService(catRepo, taskRepo, uow, clock),
		Calendar:   service.NewCalendarService(taskRepo, clock),
		Imports:    service.NewImportService(uow, clock),
		Now:        testutil.Clock(testutil.FixedNow),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func executeJSON[T any](t *testing.T, a *App, args ...string) T {
	t.Helper()
	out, err := executeCmd(t, a, append(args, "--json")...)
	require.NoError(t, err, out)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "taskrex")
	assert.Contains(t, out, "calendar")
}

func TestRootCmd_InitReceivesFlagConfig(t *testing.T) {
	var got *config.Config
	a := testApp(t)
	a.Init = func(cfg *config.Config) error {
		got = cfg
		return nil
	}

	dbPath := filepath.Join(t.TempDir(), "flag.db")
	_, err := executeCmd(t, a, "task", "list", "--db", dbPath, "--timezone", "Asia/Tokyo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, dbPath, got.DBPath)
	assert.Equal(t, "Asia/Tokyo", got.Location.String())
	assert.Same(t, got, a.Config())
}

func TestTaskCmd_AddListShowDone(t *testing.T) {
	a := testApp(t)

	cat := executeJSON[domain.Category](t, a, "category", "add", "Work", "--color", "#FF0000")
	task := executeJSON[domain.Task](t, a, "task", "add", "Report",
		"--priority", "HIGH", "--due", "2025-03-12", "--category", "Work", "-d", "numbers")
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, cat.ID, *task.CategoryID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-03-12", task.DueDate.Format("2006-01-02"))

	executeJSON[domain.Task](t, a, "task", "add", "Outline", "--parent", task.ID[:8])

	list := executeJSON[app.TaskListResult](t, a, "task", "list", "--category", cat.ID, "--status", "pending")
	assert.Equal(t, 1, list.Total)

	out, err := executeCmd(t, a, "task", "show", task.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "Outline", "subtasks are drawn in the card")
	assert.Contains(t, out, "Work")

	done := executeJSON[domain.Task](t, a, "task", "done", task.ID)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	stats := executeJSON[app.StatsView](t, a, "calendar", "stats", "2025-03-12", "2025-03-12")
	assert.Equal(t, 1, stats.Summary.TotalCompleted)
}

func TestTaskCmd_EnumFlagsRejectBadValues(t *testing.T) {
	a := testApp(t)

	_, err := executeCmd(t, a, "task", "add", "x", "--priority", "whenever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "low, medium, high, urgent")

	_, err = executeCmd(t, a, "task", "list", "--status", "later")
	assert.Error(t, err)

	_, err = executeCmd(t, a, "calendar", "range", "2025-01-01", "2025-01-31", "--group-by", "year")
	assert.Error(t, err)
}

func TestTaskCmd_UpdateOnlyChangedFields(t *testing.T) {
	a := testApp(t)
	task := executeJSON[domain.Task](t, a, "task", "add", "Draft", "--due", "2025-04-01", "-p", "low")

	updated := executeJSON[domain.Task](t, a, "task", "update", task.ID, "--title", "Final")
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
	assert.NotNil(t, updated.DueDate)

	updated = executeJSON[domain.Task](t, a, "task", "update", task.ID, "--clear-due")
	assert.Nil(t, updated.DueDate)

	_, err := executeCmd(t, a, "task", "update", task.ID, "--due", "2025-04-02", "--clear-due")
	assert.Error(t, err, "flags are mutually exclusive")
}

func TestTaskCmd_DupRemoveAndErrors(t *testing.T) {
	a := testApp(t)
	task := executeJSON[domain.Task](t, a, "task", "add", "Chore")

	dup := executeJSON[domain.Task](t, a, "task", "dup", task.ID)
	assert.Equal(t, "Chore (copy)", dup.Title)

	_, err := executeCmd(t, a, "task", "rm", task.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, a, "task", "show", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = executeCmd(t, a, "task", "add", "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskCmd_OverdueAndUpcoming(t *testing.T) {
	a := testApp(t)
	executeJSON[domain.Task](t, a, "task", "add", "Late", "--due", "2025-03-10T09:00:00Z")
	executeJSON[domain.Task](t, a, "task", "add", "Soon", "--due", "2025-03-14T09:00:00Z")

	overdue := executeJSON[app.TaskListResult](t, a, "task", "overdue")
	require.Equal(t, 1, overdue.Total)
	assert.Equal(t, "Late", overdue.Tasks[0].Title)

	upcoming := executeJSON[app.TaskListResult](t, a, "task", "upcoming", "--days", "3")
	require.Equal(t, 1, upcoming.Total)
	assert.Equal(t, "Soon", upcoming.Tasks[0].Title)
}

func TestCategoryCmd_RemoveReassigns(t *testing.T) {
	a := testApp(t)
	executeJSON[domain.Category](t, a, "category", "add", "Old")
	home := executeJSON[domain.Category](t, a, "category", "add", "Home")
	executeJSON[domain.Task](t, a, "task", "add", "Move me", "-c", "Old")

	stats := executeJSON[app.CategoryStats](t, a, "category", "stats", "Old")
	assert.Equal(t, 1, stats.TotalTasks)

	res := executeJSON[app.DeleteCategoryResult](t, a, "category", "rm", "Old", "--reassign-to", "Home")
	assert.Equal(t, 1, res.TasksMoved)

	detail := executeJSON[app.CategoryDetail](t, a, "category", "show", home.ID)
	require.Len(t, detail.Tasks, 1)
	assert.Equal(t, "Move me", detail.Tasks[0].Title)

	_, err := executeCmd(t, a, "category", "show", "Old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalendarCmd_Views(t *testing.T) {
	a := testApp(t)
	executeJSON[domain.Task](t, a, "task", "add", "Leap", "--due", "2024-02-29")
	executeJSON[domain.Task](t, a, "task", "add", "Now", "--due", testutil.FixedNow.Add(time.Hour).Format(time.RFC3339))

	month := executeJSON[app.MonthView](t, a, "calendar", "month", "2024", "2")
	assert.Equal(t, 1, month.TotalTasks)

	out, err := executeCmd(t, a, "calendar", "month", "2024", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "FEBRUARY 2024")
	assert.Contains(t, out, "29")

	week := executeJSON[app.WeekView](t, a, "calendar", "week")
	assert.Equal(t, "2025-03-10", week.WeekStart, "defaults to the current week")
	assert.Equal(t, 1, week.TotalTasks)

	today := executeJSON[app.DayView](t, a, "calendar", "today")
	assert.Equal(t, "2025-03-12", today.Date)

	rng := executeJSON[app.RangeView](t, a, "calendar", "range", "2024-01-01", "2024-03-31", "-g", "month")
	require.Len(t, rng.Groups, 3)
	assert.Equal(t, 1, rng.Groups[1].Count)

	_, err = executeCmd(t, a, "calendar", "month", "2024")
	assert.Error(t, err)
	_, err = executeCmd(t, a, "calendar", "day", "29-02-2024")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSeedCmd(t *testing.T) {
	a := testApp(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: Garden
tasks:
  - title: Mow lawn
    category_ref: Garden
`), 0o600))

	out, err := executeCmd(t, a, "seed", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 category and 1 task(s)")

	list, err := a.Tasks.List(context.Background(), app.ListTasksRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestServeCmd_UsesConfiguredAddr(t *testing.T) {
	a := testApp(t)
	var gotAddr string
	a.Serve = func(ctx context.Context, addr string) error {
		gotAddr = addr
		return nil
	}

	_, err := executeCmd(t, a, "serve", "--addr", "127.0.0.1:9999")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", gotAddr)
}
