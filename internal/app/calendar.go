package app

import "github.com/taskasaurus/taskrex/internal/domain"

type MonthView struct {
	Year       int                       `json:"year"`
	Month      int                       `json:"month"`
	Days       map[string][]*domain.Task `json:"days"`
	TotalTasks int                       `json:"total_tasks"`
}

// DayBucket is one calendar day of a week or day-grouped range view.
type DayBucket struct {
	Date  string         `json:"date"`
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

type WeekView struct {
	WeekStart  string      `json:"week_start"`
	WeekEnd    string      `json:"week_end"`
	Days       []DayBucket `json:"days"`
	TotalTasks int         `json:"total_tasks"`
}

type DayView struct {
	Date       string         `json:"date"`
	Tasks      []*domain.Task `json:"tasks"`
	TotalTasks int            `json:"total_tasks"`
}

// RangeGroup is one week or month bucket. Label is the week's first date or
// the month as YYYY-MM; StartDate and EndDate are clipped to the range.
type RangeGroup struct {
	Label     string         `json:"label"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Tasks     []*domain.Task `json:"tasks"`
	Count     int            `json:"count"`
}

// RangeView carries Days for day grouping and Groups otherwise.
type RangeView struct {
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	GroupBy    string       `json:"group_by"`
	Days       []DayBucket  `json:"days,omitempty"`
	Groups     []RangeGroup `json:"groups,omitempty"`
	TotalTasks int          `json:"total_tasks"`
}

type DailyStat struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

type StatsSummary struct {
	TotalCreated   int     `json:"total_created"`
	TotalCompleted int     `json:"total_completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type StatsView struct {
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	DailyStats []DailyStat  `json:"daily_stats"`
	Summary    StatsSummary `json:"summary"`
}
