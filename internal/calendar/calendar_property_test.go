package calendar

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/taskasaurus/taskrex/internal/domain"
)

func drawDate(rt *rapid.T, label string) time.Time {
	y := rapid.IntRange(1970, 2100).Draw(rt, label+"_year")
	m := time.Month(rapid.IntRange(1, 12).Draw(rt, label+"_month"))
	d := rapid.IntRange(1, DaysIn(y, m)).Draw(rt, label+"_day")
	return date(y, m, d)
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func TestPropertyDaysInFebruaryMatchesLeapRule(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		y := rapid.IntRange(MinYear, MaxYear).Draw(rt, "year")
		want := 28
		if isLeap(y) {
			want = 29
		}
		if got := DaysIn(y, time.February); got != want {
			rt.Fatalf("DaysIn(%d, Feb) = %d, want %d", y, got, want)
		}
	})
}

func TestPropertyStartOfWeekIsMondayWithinSixDays(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := drawDate(rt, "d")
		s := StartOfWeek(d)
		if s.Weekday() != time.Monday {
			rt.Fatalf("StartOfWeek(%s) = %s, a %s", ISODate(d), ISODate(s), s.Weekday())
		}
		if s.After(d) || d.Sub(s) >= 7*24*time.Hour {
			rt.Fatalf("StartOfWeek(%s) = %s is not within the preceding week", ISODate(d), ISODate(s))
		}
	})
}

func TestPropertyWeekViewHasSevenContiguousDays(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := drawDate(rt, "d")
		start := StartOfWeek(d)
		spans := DaySpans(start, start.AddDate(0, 0, 6), time.UTC)
		if len(spans) != 7 {
			rt.Fatalf("week of %s has %d days", ISODate(d), len(spans))
		}
		found := false
		for i, s := range spans {
			if i > 0 && !s.Start.Equal(spans[i-1].End.Add(time.Nanosecond)) {
				rt.Fatalf("gap between %s and %s", spans[i-1], s)
			}
			if s.Contains(d) {
				found = true
			}
		}
		if !found {
			rt.Fatalf("week spans do not contain %s", ISODate(d))
		}
	})
}

func TestPropertySpansTileTheRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := drawDate(rt, "start")
		end := start.AddDate(0, 0, rapid.IntRange(0, 400).Draw(rt, "length"))
		g := rapid.SampledFrom(GroupBys).Draw(rt, "group_by")

		spans := Spans(g, start, end, time.UTC)
		if len(spans) == 0 {
			rt.Fatalf("no spans for %s..%s", ISODate(start), ISODate(end))
		}
		if !spans[0].Start.Equal(start) {
			rt.Fatalf("first span starts %s, want %s", ISODate(spans[0].Start), ISODate(start))
		}
		if last := spans[len(spans)-1].End; !last.Equal(DayEnd(end, time.UTC)) {
			rt.Fatalf("last span ends %s, want end of %s", last, ISODate(end))
		}
		for i := 1; i < len(spans); i++ {
			if !spans[i].Start.Equal(spans[i-1].End.Add(time.Nanosecond)) {
				rt.Fatalf("spans %s and %s are not adjacent", spans[i-1], spans[i])
			}
		}
	})
}

func TestPropertyGroupCountsEveryInRangeTaskOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := drawDate(rt, "start")
		end := start.AddDate(0, 0, rapid.IntRange(0, 120).Draw(rt, "length"))
		g := rapid.SampledFrom(GroupBys).Draw(rt, "group_by")

		n := rapid.IntRange(0, 30).Draw(rt, "tasks")
		tasks := make([]*domain.Task, 0, n)
		inRange := 0
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "undated") {
				tasks = append(tasks, &domain.Task{})
				continue
			}
			offset := rapid.IntRange(-10*24*60, 140*24*60).Draw(rt, "offset_min")
			due := start.Add(time.Duration(offset) * time.Minute)
			if !due.Before(start) && !due.After(DayEnd(end, time.UTC)) {
				inRange++
			}
			tasks = append(tasks, &domain.Task{DueDate: &due})
		}

		buckets := Group(tasks, Spans(g, start, end, time.UTC))
		if got := Total(buckets); got != inRange {
			rt.Fatalf("buckets hold %d tasks, want %d", got, inRange)
		}
	})
}

func TestPropertyCompletionRateBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		created := rapid.IntRange(0, 10000).Draw(rt, "created")
		completed := rapid.IntRange(0, created).Draw(rt, "completed")
		r := CompletionRate(created, completed)
		if r < 0 || r > 100 {
			rt.Fatalf("CompletionRate(%d, %d) = %v out of [0, 100]", created, completed, r)
		}
		if created == 0 && r != 0 {
			rt.Fatalf("CompletionRate(0, %d) = %v, want 0", completed, r)
		}
	})
}
