package calendar

import (
	"math"
	"sort"
	"time"

	"github.com/taskasaurus/taskrex/internal/domain"
)

// Bucket is a span together with the tasks due inside it.
type Bucket struct {
	Span
	Tasks []*domain.Task
}

func (b Bucket) Count() int { return len(b.Tasks) }

// Group places each task into the span containing its due date. spans must
// be sorted and non-overlapping. Tasks without a due date, or due outside
// every span, are dropped. Every span yields a bucket, empty or not, and
// tasks keep their input order within a bucket.
func Group(tasks []*domain.Task, spans []Span) []Bucket {
	buckets := make([]Bucket, len(spans))
	for i, s := range spans {
		buckets[i] = Bucket{Span: s, Tasks: []*domain.Task{}}
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if i := spanIndex(spans, *t.DueDate); i >= 0 {
			buckets[i].Tasks = append(buckets[i].Tasks, t)
		}
	}
	return buckets
}

func spanIndex(spans []Span, t time.Time) int {
	i := sort.Search(len(spans), func(i int) bool { return !spans[i].End.Before(t) })
	if i < len(spans) && spans[i].Contains(t) {
		return i
	}
	return -1
}

// Total sums the task counts of every bucket.
func Total(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count()
	}
	return n
}

// ByDate keys tasks by the ISO date of their due date in loc. Undated tasks
// are skipped.
func ByDate(tasks []*domain.Task, loc *time.Location) map[string][]*domain.Task {
	days := make(map[string][]*domain.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := ISODate(t.DueDate.In(loc))
		days[key] = append(days[key], t)
	}
	return days
}

// DailyCount is one day of the stats series.
type DailyCount struct {
	Date      time.Time
	Created   int
	Completed int
}

// DailyCounts tallies creation and completion instants per calendar day,
// emitting one entry for every day in days even when both counts are zero.
func DailyCounts(days []time.Time, created, completed []time.Time, loc *time.Location) []DailyCount {
	out := make([]DailyCount, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		out[i] = DailyCount{Date: d}
		index[ISODate(d)] = i
	}
	for _, t := range created {
		if i, ok := index[ISODate(t.In(loc))]; ok {
			out[i].Created++
		}
	}
	for _, t := range completed {
		if i, ok := index[ISODate(t.In(loc))]; ok {
			out[i].Completed++
		}
	}
	return out
}

// CompletionRate is completed/created as a percentage rounded to two
// decimals, or 0 when nothing was created.
func CompletionRate(created, completed int) float64 {
	if created == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(created)*100*100) / 100
}
