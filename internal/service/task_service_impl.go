package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
)

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 365
)

type taskService struct {
	tasks      repository.TaskRepo
	categories repository.CategoryRepo
	uow        db.UnitOfWork
	settings
}

func NewTaskService(
	tasks repository.TaskRepo,
	categories repository.CategoryRepo,
	uow db.UnitOfWork,
	opts ...Option,
) TaskService {
	return &taskService{
		tasks:      tasks,
		categories: categories,
		uow:        uow,
		settings:   newSettings(opts),
	}
}

func (s *taskService) List(ctx context.Context, req app.ListTasksRequest) (*app.TaskListResult, error) {
	q, err := s.listQuery(req)
	if err != nil {
		return nil, err
	}
	tasks, total, err := s.tasks.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &app.TaskListResult{Tasks: tasks, Total: total}, nil
}

func (s *taskService) listQuery(req app.ListTasksRequest) (repository.TaskQuery, error) {
	var q repository.TaskQuery
	if req.Status != "" {
		st, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			return q, err
		}
		q.Filter.Status = &st
	}
	if req.Priority != "" {
		p, err := domain.ParseTaskPriority(req.Priority)
		if err != nil {
			return q, err
		}
		q.Filter.Priority = &p
	}
	if id := strings.TrimSpace(req.CategoryID); id != "" {
		q.Filter.CategoryID = &id
	}
	q.Filter.Search = req.Search
	q.Filter.DueFrom = storageTime(req.DueFrom)
	q.Filter.DueTo = storageTime(req.DueTo)

	sort, err := repository.ParseTaskSort(req.SortBy, req.Order)
	if err != nil {
		return q, err
	}
	q.Sort = sort

	if q.Page, err = s.page(req.Offset, req.Limit); err != nil {
		return q, err
	}
	return q, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*app.TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &app.TaskDetail{Task: task}
	if task.CategoryID != nil {
		if detail.Category, err = s.categories.GetByID(ctx, *task.CategoryID); err != nil {
			return nil, err
		}
	}
	if detail.Subtasks, err = s.tasks.ListChildren(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *taskService) Create(ctx context.Context, in app.CreateTaskInput) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "task.create", startedAt, fields, err) }()

	task, err = s.newTask(in)
	if err != nil {
		return nil, err
	}
	fields["task_id"] = task.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := checkCategory(ctx, repository.NewSQLiteCategoryRepo(tx), task.CategoryID); err != nil {
			return err
		}
		if task.ParentID != nil {
			if _, err := txTasks.GetByID(ctx, *task.ParentID); err != nil {
				return err
			}
		}
		return txTasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) newTask(in app.CreateTaskInput) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	status := domain.StatusPending
	if in.Status != "" {
		if status, err = domain.ParseTaskStatus(in.Status); err != nil {
			return nil, err
		}
	}
	priority := domain.PriorityMedium
	if in.Priority != "" {
		if priority, err = domain.ParseTaskPriority(in.Priority); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	return &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     storageTime(in.DueDate),
		CategoryID:  nonEmpty(in.CategoryID),
		ParentID:    nonEmpty(in.ParentID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *taskService) Update(ctx context.Context, id string, in app.UpdateTaskInput) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { s.observe(ctx, "task.update", startedAt, fields, err) }()

	patch, err := taskPatch(in)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		var err error
		if task, err = txTasks.GetByID(ctx, id); err != nil {
			return err
		}
		if catID, ok := patch.CategoryID.Get(); ok {
			if err := checkCategory(ctx, repository.NewSQLiteCategoryRepo(tx), catID); err != nil {
				return err
			}
		}
		if err := task.Apply(patch, s.clock()); err != nil {
			return err
		}
		return txTasks.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// taskPatch parses raw update input into a domain patch.
func taskPatch(in app.UpdateTaskInput) (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
	}
	if v, ok := in.Status.Get(); ok {
		st, err := domain.ParseTaskStatus(v)
		if err != nil {
			return p, err
		}
		p.Status = domain.Some(st)
	}
	if v, ok := in.Priority.Get(); ok {
		pr, err := domain.ParseTaskPriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = domain.Some(pr)
	}
	if v, ok := in.DueDate.Get(); ok {
		p.DueDate = domain.Some(storageTime(v))
	}
	if v, ok := in.CategoryID.Get(); ok {
		p.CategoryID = domain.Some(nonEmpty(v))
	}
	return p, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Task, error) {
	return s.Update(ctx, id, app.UpdateTaskInput{Status: domain.Some(status)})
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "task.delete", startedAt, map[string]any{"task_id": id}, err) }()

	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Duplicate(ctx context.Context, id string) (dup *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"source_id": id}
	defer func() { s.observe(ctx, "task.duplicate", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		src, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		dup = src.Copy(uuid.New().String(), s.clock())
		return txTasks.Create(ctx, dup)
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = dup.ID
	return dup, nil
}

func (s *taskService) Subtasks(ctx context.Context, id string) ([]*domain.Task, error) {
	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.tasks.ListChildren(ctx, id)
}

func (s *taskService) Overdue(ctx context.Context, p app.PageRequest) (*app.TaskListResult, error) {
	page, err := s.pageOf(p)
	if err != nil {
		return nil, err
	}
	tasks, total, err := s.tasks.ListOverdue(ctx, s.clock(), page)
	if err != nil {
		return nil, err
	}
	return &app.TaskListResult{Tasks: tasks, Total: total}, nil
}

// Upcoming lists open tasks due between now and now+days. Zero days means
// the default week.
func (s *taskService) Upcoming(ctx context.Context, days int, priority string) ([]*domain.Task, error) {
	if days == 0 {
		days = DefaultUpcomingDays
	}
	if days < 1 || days > MaxUpcomingDays {
		return nil, domain.Invalid("days", "must be between 1 and %d", MaxUpcomingDays)
	}
	var prio *domain.TaskPriority
	if priority != "" {
		p, err := domain.ParseTaskPriority(priority)
		if err != nil {
			return nil, err
		}
		prio = &p
	}
	now := s.clock()
	return s.tasks.ListUpcoming(ctx, now, now.AddDate(0, 0, days), prio)
}

// DateRange lists tasks due on any calendar day from start to end.
func (s *taskService) DateRange(ctx context.Context, start, end time.Time) ([]*domain.Task, error) {
	from, to := dateIn(start, s.loc), dateIn(end, s.loc)
	if err := calendar.CheckRange(from, to); err != nil {
		return nil, err
	}
	return s.tasks.ListDueBetween(ctx, from, calendar.DayEnd(to, s.loc))
}

// checkCategory verifies that a referenced category exists.
func checkCategory(ctx context.Context, categories repository.CategoryRepo, id *string) error {
	if id == nil {
		return nil
	}
	_, err := categories.GetByID(ctx, *id)
	return err
}

// dateIn reinterprets the calendar date of d as midnight in loc.
func dateIn(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
