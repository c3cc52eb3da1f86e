package service

import (
	"context"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
)

// MaxDailyRangeDays bounds views that emit one entry per day.
const MaxDailyRangeDays = 366

type calendarService struct {
	tasks repository.TaskRepo
	settings
}

func NewCalendarService(tasks repository.TaskRepo, opts ...Option) CalendarService {
	return &calendarService{tasks: tasks, settings: newSettings(opts)}
}

func (s *calendarService) Location() *time.Location {
	return s.loc
}

func (s *calendarService) Month(ctx context.Context, year, month int) (view *app.MonthView, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "calendar.month", startedAt, map[string]any{"year": year, "month": month}, err)
	}()

	if err := calendar.CheckMonth(year, month); err != nil {
		return nil, err
	}
	first := calendar.FirstOfMonth(year, time.Month(month), s.loc)
	last := calendar.LastOfMonth(year, time.Month(month), s.loc)

	tasks, err := s.tasks.ListDueBetween(ctx, first, calendar.DayEnd(last, s.loc))
	if err != nil {
		return nil, err
	}
	return &app.MonthView{
		Year:       year,
		Month:      month,
		Days:       calendar.ByDate(tasks, s.loc),
		TotalTasks: len(tasks),
	}, nil
}

func (s *calendarService) Week(ctx context.Context, date time.Time) (view *app.WeekView, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "calendar.week", startedAt, map[string]any{"date": calendar.ISODate(date)}, err)
	}()

	start := calendar.StartOfWeek(dateIn(date, s.loc))
	end := start.AddDate(0, 0, 6)

	buckets, err := s.bucketed(ctx, calendar.DaySpans(start, end, s.loc))
	if err != nil {
		return nil, err
	}
	return &app.WeekView{
		WeekStart:  calendar.ISODate(start),
		WeekEnd:    calendar.ISODate(end),
		Days:       dayBuckets(buckets),
		TotalTasks: calendar.Total(buckets),
	}, nil
}

func (s *calendarService) Day(ctx context.Context, date time.Time) (view *app.DayView, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "calendar.day", startedAt, map[string]any{"date": calendar.ISODate(date)}, err)
	}()

	d := dateIn(date, s.loc)
	tasks, err := s.tasks.ListDueBetween(ctx, d, calendar.DayEnd(d, s.loc))
	if err != nil {
		return nil, err
	}
	return &app.DayView{
		Date:       calendar.ISODate(d),
		Tasks:      tasks,
		TotalTasks: len(tasks),
	}, nil
}

func (s *calendarService) Today(ctx context.Context) (*app.DayView, error) {
	return s.Day(ctx, s.now().In(s.loc))
}

func (s *calendarService) Range(ctx context.Context, start, end time.Time, groupBy string) (view *app.RangeView, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"start":    calendar.ISODate(start),
		"end":      calendar.ISODate(end),
		"group_by": groupBy,
	}
	defer func() { s.observe(ctx, "calendar.range", startedAt, fields, err) }()

	g, err := calendar.ParseGroupBy(groupBy)
	if err != nil {
		return nil, err
	}
	from, to := dateIn(start, s.loc), dateIn(end, s.loc)
	if err := calendar.CheckRange(from, to); err != nil {
		return nil, err
	}
	if g == calendar.GroupByDay {
		if err := checkDailyRange(from, to, s.loc); err != nil {
			return nil, err
		}
	}

	buckets, err := s.bucketed(ctx, calendar.Spans(g, from, to, s.loc))
	if err != nil {
		return nil, err
	}
	view = &app.RangeView{
		StartDate:  calendar.ISODate(from),
		EndDate:    calendar.ISODate(to),
		GroupBy:    g.String(),
		TotalTasks: calendar.Total(buckets),
	}
	if g == calendar.GroupByDay {
		view.Days = dayBuckets(buckets)
	} else {
		view.Groups = rangeGroups(buckets)
	}
	return view, nil
}

// Stats counts tasks created and tasks completed per day. A task counts as
// completed on the day of its last update while its status is completed.
func (s *calendarService) Stats(ctx context.Context, start, end time.Time) (view *app.StatsView, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "calendar.stats", startedAt, map[string]any{
			"start": calendar.ISODate(start),
			"end":   calendar.ISODate(end),
		}, err)
	}()

	from, to := dateIn(start, s.loc), dateIn(end, s.loc)
	if err := calendar.CheckRange(from, to); err != nil {
		return nil, err
	}
	last := calendar.DayEnd(to, s.loc)

	created, err := s.tasks.ListCreatedBetween(ctx, from, last)
	if err != nil {
		return nil, err
	}
	completed, err := s.tasks.ListCompletedBetween(ctx, from, last)
	if err != nil {
		return nil, err
	}

	counts := calendar.DailyCounts(
		calendar.EachDay(from, to, s.loc),
		taskTimes(created, func(t *domain.Task) time.Time { return t.CreatedAt }),
		taskTimes(completed, func(t *domain.Task) time.Time { return t.UpdatedAt }),
		s.loc,
	)
	daily := make([]app.DailyStat, len(counts))
	for i, c := range counts {
		daily[i] = app.DailyStat{Date: calendar.ISODate(c.Date), Created: c.Created, Completed: c.Completed}
	}

	return &app.StatsView{
		StartDate:  calendar.ISODate(from),
		EndDate:    calendar.ISODate(to),
		DailyStats: daily,
		Summary: app.StatsSummary{
			TotalCreated:   len(created),
			TotalCompleted: len(completed),
			CompletionRate: calendar.CompletionRate(len(created), len(completed)),
		},
	}, nil
}

func (s *calendarService) Overdue(ctx context.Context, p app.PageRequest) (res *app.OverdueResult, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "calendar.overdue", startedAt, map[string]any{"skip": p.Offset, "limit": p.Limit}, err)
	}()

	page, err := s.pageOf(p)
	if err != nil {
		return nil, err
	}
	tasks, total, err := s.tasks.ListOverdue(ctx, s.clock(), page)
	if err != nil {
		return nil, err
	}
	return &app.OverdueResult{Tasks: tasks, TotalOverdue: total}, nil
}

// bucketed fetches every task due within spans and groups it.
func (s *calendarService) bucketed(ctx context.Context, spans []calendar.Span) ([]calendar.Bucket, error) {
	if len(spans) == 0 {
		return nil, nil
	}
	tasks, err := s.tasks.ListDueBetween(ctx, spans[0].Start, spans[len(spans)-1].End)
	if err != nil {
		return nil, err
	}
	return calendar.Group(tasks, spans), nil
}

func checkDailyRange(from, to time.Time, loc *time.Location) error {
	if n := calendar.DaysBetween(from, to, loc); n > MaxDailyRangeDays {
		return domain.Invalid("end", "range spans %d days; at most %d are allowed per day", n, MaxDailyRangeDays)
	}
	return nil
}

func dayBuckets(buckets []calendar.Bucket) []app.DayBucket {
	out := make([]app.DayBucket, len(buckets))
	for i, b := range buckets {
		out[i] = app.DayBucket{Date: calendar.ISODate(b.Start), Tasks: b.Tasks, Count: b.Count()}
	}
	return out
}

func rangeGroups(buckets []calendar.Bucket) []app.RangeGroup {
	out := make([]app.RangeGroup, len(buckets))
	for i, b := range buckets {
		out[i] = app.RangeGroup{
			Label:     b.Label,
			StartDate: calendar.ISODate(b.Start),
			EndDate:   calendar.ISODate(b.End),
			Tasks:     b.Tasks,
			Count:     b.Count(),
		}
	}
	return out
}

func taskTimes(tasks []*domain.Task, at func(*domain.Task) time.Time) []time.Time {
	out := make([]time.Time, len(tasks))
	for i, t := range tasks {
		out[i] = at(t)
	}
	return out
}
