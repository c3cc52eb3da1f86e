// Package calendar holds the date arithmetic and bucketing behind the
// calendar views. Every function is pure; callers fetch tasks and pass them in.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/domain"
)

const (
	// DateLayout is the ISO calendar date used for day keys and query params.
	DateLayout  = "2006-01-02"
	monthLayout = "2006-01"

	MinYear = 1
	MaxYear = 9999
)

// DaysIn reports the number of days in the given month. Day 0 of the next
// month normalises to the last day of this one, so leap years come out exact.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns midnight of the first day of the month in loc.
func FirstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// LastOfMonth returns midnight of the last day of the month in loc.
func LastOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, loc)
}

// DayStart returns the first instant of t's calendar date in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayEnd returns the last representable instant of t's calendar date in loc.
func DayEnd(t time.Time, loc *time.Location) time.Time {
	return DayStart(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns the Monday on or before t, at midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := DayStart(t, t.Location())
	return d.AddDate(0, 0, -offset)
}

// EachDay returns the start of every calendar day from start to end
// inclusive. It returns nil when end is before start.
func EachDay(start, end time.Time, loc *time.Location) []time.Time {
	from, to := DayStart(start, loc), DayStart(end, loc)
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysBetween counts calendar days from start to end inclusive.
func DaysBetween(start, end time.Time, loc *time.Location) int {
	from, to := DayStart(start, loc), DayStart(end, loc)
	// Round absorbs the 23h / 25h days around DST changes.
	return int(to.Sub(from).Round(24*time.Hour)/(24*time.Hour)) + 1
}

func ISODate(t time.Time) string {
	return t.Format(DateLayout)
}

func MonthLabel(t time.Time) string {
	return t.Format(monthLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc. field names the
// offending input in the returned ValidationError.
func ParseDate(field, s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.Invalid(field, "is required")
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "must be a date in YYYY-MM-DD form (got %q)", s)
	}
	return t, nil
}

// CheckMonth validates a year/month pair from external input.
func CheckMonth(year, month int) error {
	if year < MinYear || year > MaxYear {
		return domain.Invalid("year", "must be between %d and %d", MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return domain.Invalid("month", "must be between 1 and 12")
	}
	return nil
}

// CheckRange rejects a window whose start falls after its end.
func CheckRange(start, end time.Time) error {
	if start.After(end) {
		return domain.Invalid("start", "must not be after end (%s > %s)", ISODate(start), ISODate(end))
	}
	return nil
}

// GroupBy is the bucket granularity of a range view.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

var GroupBys = []GroupBy{GroupByDay, GroupByWeek, GroupByMonth}

func ParseGroupBy(s string) (GroupBy, error) {
	g := GroupBy(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return g, nil
	}
	return "", domain.Invalid("group_by", "must be one of day, week, month (got %q)", s)
}

func (g GroupBy) String() string { return string(g) }

// Span is a labelled window of whole days. End is the last instant of the
// window's final day.
type Span struct {
	Label string
	Start time.Time
	End   time.Time
}

func (s Span) String() string {
	return fmt.Sprintf("%s [%s..%s]", s.Label, ISODate(s.Start), ISODate(s.End))
}

// Contains reports whether t falls within the span.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// DaySpans returns one span per calendar day from start to end inclusive.
func DaySpans(start, end time.Time, loc *time.Location) []Span {
	days := EachDay(start, end, loc)
	spans := make([]Span, len(days))
	for i, d := range days {
		spans[i] = Span{Label: ISODate(d), Start: d, End: DayEnd(d, loc)}
	}
	return spans
}

// WeekSpans returns consecutive 7-day spans starting at start. The final
// span is clipped so it never extends past end.
func WeekSpans(start, end time.Time, loc *time.Location) []Span {
	from, last := DayStart(start, loc), DayEnd(end, loc)
	var spans []Span
	for d := from; !d.After(last); d = d.AddDate(0, 0, 7) {
		e := DayEnd(d.AddDate(0, 0, 6), loc)
		if e.After(last) {
			e = last
		}
		spans = append(spans, Span{Label: ISODate(d), Start: d, End: e})
	}
	return spans
}

// MonthSpans returns one span per calendar month touched by [start, end],
// each clipped to the range and labelled YYYY-MM.
func MonthSpans(start, end time.Time, loc *time.Location) []Span {
	from, last := DayStart(start, loc), DayEnd(end, loc)
	var spans []Span
	for m := FirstOfMonth(from.Year(), from.Month(), loc); !m.After(last); m = m.AddDate(0, 1, 0) {
		s := m
		if s.Before(from) {
			s = from
		}
		e := DayEnd(LastOfMonth(m.Year(), m.Month(), loc), loc)
		if e.After(last) {
			e = last
		}
		spans = append(spans, Span{Label: MonthLabel(m), Start: s, End: e})
	}
	return spans
}

// Spans dispatches to the span builder for g.
func Spans(g GroupBy, start, end time.Time, loc *time.Location) []Span {
	switch g {
	case GroupByWeek:
		return WeekSpans(start, end, loc)
	case GroupByMonth:
		return MonthSpans(start, end, loc)
	default:
		return DaySpans(start, end, loc)
	}
}
