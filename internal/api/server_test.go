package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
	"github.com/taskasaurus/taskrex/internal/service"
	"github.com/taskasaurus/taskrex/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	taskRepo *repository.SQLiteTaskRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	catRepo := repository.NewSQLiteCategoryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	clock := service.WithClock(testutil.Clock(testutil.FixedNow))

	srv := NewServer(Services{
		Tasks:      service.NewTaskService(taskRepo, catRepo, uow, clock),
		Categories: service.NewCategoryService(catRepo, taskRepo, uow, clock),
		Calendar:   service.NewCalendarService(taskRepo, clock),
	}, nil)
	return &testServer{t: t, handler: srv.Handler(), taskRepo: taskRepo}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Taskasaurus Rex API")

	w = ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodOptions, "/api/tasks", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/tasks", map[string]any{
		"title": "Write tests", "priority": "high", "due_date": "2025-03-14T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Task](t, w)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PriorityHigh, created.Priority)

	w = ts.do(http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[map[string]any](t, w)
	assert.Equal(t, "Write tests", detail["title"])
	assert.Nil(t, detail["category"])
	assert.Equal(t, []any{}, detail["subtasks"])

	w = ts.do(http.MethodPatch, "/api/tasks/"+created.ID, `{"title":"Write more tests","due_date":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Task](t, w)
	assert.Equal(t, "Write more tests", updated.Title)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, domain.PriorityHigh, updated.Priority, "omitted keys are untouched")

	w = ts.do(http.MethodPatch, "/api/tasks/"+created.ID+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusCompleted, decode[domain.Task](t, w).Status)

	w = ts.do(http.MethodPost, "/api/tasks/"+created.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	dup := decode[domain.Task](t, w)
	assert.Equal(t, "Write more tests (copy)", dup.Title)
	assert.Equal(t, domain.StatusPending, dup.Status)

	w = ts.do(http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["deleted"])

	w = ts.do(http.MethodGet, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskErrorsMapToStatusCodes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "x", "status": "later"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodPost, "/api/tasks", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "body", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "x", "category_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPatch, "/api/tasks/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPatch, "/api/tasks/missing/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "status is required")
}

func TestListTasksQueryParameters(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for i, due := range []time.Time{
		time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 23, 30, 0, 0, time.UTC),
		time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
	} {
		task := testutil.NewTestTask([]string{"alpha", "beta", "gamma"}[i], testutil.WithDueDate(due))
		require.NoError(t, ts.taskRepo.Create(ctx, task))
	}

	w := ts.do(http.MethodGet, "/api/tasks?date_from=2025-03-01&date_to=2025-03-05&sort_by=title&order=desc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[app.TaskListResult](t, w)
	require.Equal(t, 2, res.Total, "date_to includes its whole day")
	assert.Equal(t, "beta", res.Tasks[0].Title)

	w = ts.do(http.MethodGet, "/api/tasks?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[app.TaskListResult](t, w)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Tasks, 1)

	for _, q := range []string{"limit=abc", "skip=-1", "date_from=03/01/2025", "sort_by=colour", "priority=meh"} {
		w = ts.do(http.MethodGet, "/api/tasks?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestTaskQueries(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	now := testutil.FixedNow
	require.NoError(t, ts.taskRepo.Create(ctx, testutil.NewTestTask("late", testutil.WithDueDate(now.Add(-time.Hour)))))
	require.NoError(t, ts.taskRepo.Create(ctx, testutil.NewTestTask("soon", testutil.WithDueDate(now.Add(48*time.Hour)))))

	w := ts.do(http.MethodGet, "/api/tasks/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.TaskListResult](t, w).Total)

	w = ts.do(http.MethodGet, "/api/tasks/upcoming?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.TaskListResult](t, w).Total)

	w = ts.do(http.MethodGet, "/api/tasks/upcoming?days=400", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/tasks/range?start=2025-03-12&end=2025-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[app.TaskListResult](t, w).Total)

	w = ts.do(http.MethodGet, "/api/tasks/range?start=2025-03-12", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "end", decode[errorBody](t, w).Field)
}

func TestCategoryEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/categories", map[string]any{"name": "Work", "color": "#112233"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	work := decode[domain.Category](t, w)

	w = ts.do(http.MethodPost, "/api/categories", map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "names are unique")

	w = ts.do(http.MethodPost, "/api/categories", map[string]any{"name": "Home"})
	require.Equal(t, http.StatusCreated, w.Code)
	home := decode[domain.Category](t, w)

	w = ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "File taxes", "category_id": work.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[app.CategoryListResult](t, w).Total)

	w = ts.do(http.MethodGet, "/api/categories/"+work.ID+"/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.TaskListResult](t, w).Total)

	w = ts.do(http.MethodGet, "/api/categories/"+work.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, stats["total_tasks"])
	assert.EqualValues(t, 1, stats["by_status"].(map[string]any)["pending"])
	assert.EqualValues(t, 0, stats["by_status"].(map[string]any)["cancelled"])

	w = ts.do(http.MethodPatch, "/api/categories/"+work.ID, map[string]any{"color": nil})
	require.Equal(t, http.StatusBadRequest, w.Code, "null color is not a reset")
	assert.Equal(t, "color", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodPut, "/api/categories/"+work.ID, map[string]any{"icon": "briefcase"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decode[domain.Category](t, w).Icon)

	w = ts.do(http.MethodDelete, "/api/categories/"+work.ID+"?reassign_to="+home.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	del := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, del["tasks_moved"])
	assert.Equal(t, home.ID, del["reassigned_to"])

	w = ts.do(http.MethodGet, "/api/categories/"+work.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodDelete, "/api/categories/"+home.ID+"?reassign_to="+home.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.taskRepo.Create(ctx,
		testutil.NewTestTask("leap", testutil.WithDueDate(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))))
	require.NoError(t, ts.taskRepo.Create(ctx,
		testutil.NewTestTask("today", testutil.WithDueDate(testutil.FixedNow.Add(time.Hour)))))

	w := ts.do(http.MethodGet, "/api/calendar/month?year=2024&month=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	month := decode[app.MonthView](t, w)
	assert.Len(t, month.Days["2024-02-29"], 1)

	w = ts.do(http.MethodGet, "/api/calendar/month?year=2024&month=13", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "month", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodGet, "/api/calendar/week?date=2024-02-29", nil)
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[app.WeekView](t, w)
	assert.Equal(t, "2024-02-26", week.WeekStart)
	assert.Len(t, week.Days, 7)
	assert.Equal(t, 1, week.TotalTasks)

	w = ts.do(http.MethodGet, "/api/calendar/day?date=2024-02-29", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.DayView](t, w).TotalTasks)

	w = ts.do(http.MethodGet, "/api/calendar/day", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/calendar/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[app.DayView](t, w)
	assert.Equal(t, "2025-03-12", today.Date)
	assert.Equal(t, 1, today.TotalTasks)

	w = ts.do(http.MethodGet, "/api/calendar/range?start=2024-02-01&end=2024-03-31&group_by=month", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rng := decode[map[string]any](t, w)
	assert.Len(t, rng["groups"], 2)
	assert.NotContains(t, rng, "days")

	w = ts.do(http.MethodGet, "/api/calendar/range?start=2024-02-01&end=2024-02-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rng = decode[map[string]any](t, w)
	assert.Len(t, rng["days"], 3)
	assert.NotContains(t, rng, "groups")

	w = ts.do(http.MethodGet, "/api/calendar/range?start=2024-02-01&end=2024-02-03&group_by=year", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "group_by", decode[errorBody](t, w).Field)

	w = ts.do(http.MethodGet, "/api/calendar/stats?start=2025-03-12&end=2025-03-12", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[app.StatsView](t, w)
	assert.Len(t, stats.DailyStats, 1)

	w = ts.do(http.MethodGet, "/api/calendar/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[app.OverdueResult](t, w).TotalOverdue)
}

type failingCalendar struct {
	service.CalendarService
}

func (failingCalendar) Today(context.Context) (*app.DayView, error) {
	return nil, errors.New("disk I/O error: secret path /var/db")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	database := testutil.NewTestDB(t)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	srv := NewServer(Services{
		Calendar: failingCalendar{service.NewCalendarService(taskRepo)},
	}, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/today", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
