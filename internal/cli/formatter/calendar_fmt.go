package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
)

var weekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FormatMonth draws a Monday-first grid. Each cell shows the day number
// and, when tasks are due, their count.
func FormatMonth(v *app.MonthView, loc *time.Location) string {
	first := calendar.FirstOfMonth(v.Year, time.Month(v.Month), loc)
	days := calendar.DaysIn(v.Year, time.Month(v.Month))
	lead := calendar.DaysBetween(calendar.StartOfWeek(first), first, loc) - 1

	cell := lipgloss.NewStyle().Width(7)
	var b strings.Builder
	b.WriteString(Header(first.Format("January 2006")) + "\n")
	for _, h := range weekdayHeaders {
		b.WriteString(cell.Render(StyleDim.Render(h)))
	}
	b.WriteString("\n")

	col := 0
	for ; col < lead; col++ {
		b.WriteString(cell.Render(""))
	}
	for d := 1; d <= days; d++ {
		key := calendar.ISODate(time.Date(v.Year, time.Month(v.Month), d, 0, 0, 0, 0, loc))
		text := fmt.Sprintf("%2d", d)
		if n := len(v.Days[key]); n > 0 {
			text = StyleBold.Render(text) + StyleYellow.Render(fmt.Sprintf(" %d", n))
		} else {
			text = Dim(text)
		}
		b.WriteString(cell.Render(text))
		if col++; col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%d task(s) due", v.TotalTasks)) + "\n")
	return b.String()
}

func FormatDayBuckets(days []app.DayBucket) string {
	var b strings.Builder
	for _, d := range days {
		label := d.Date
		if t, err := time.Parse(calendar.DateLayout, d.Date); err == nil {
			label = t.Format("Mon 2006-01-02")
		}
		b.WriteString(Bold(label) + " " + Dim(fmt.Sprintf("(%d)", d.Count)) + "\n")
		for _, t := range d.Tasks {
			b.WriteString("  " + StatusPill(t.Status) + "  " + t.Title + "  " + PriorityBadge(t.Priority) + "\n")
		}
	}
	return b.String()
}

func FormatWeek(v *app.WeekView) string {
	return Header(fmt.Sprintf("Week %s to %s", v.WeekStart, v.WeekEnd)) + "\n" +
		FormatDayBuckets(v.Days) +
		Dim(fmt.Sprintf("%d task(s) due", v.TotalTasks)) + "\n"
}

func FormatDay(v *app.DayView, now time.Time) string {
	return Header(v.Date) + "\n" + FormatTaskTable(v.Tasks, nil, now) +
		Dim(fmt.Sprintf("%d task(s) due", v.TotalTasks)) + "\n"
}

func FormatRange(v *app.RangeView) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s to %s by %s", v.StartDate, v.EndDate, v.GroupBy)) + "\n")
	if v.Days != nil {
		b.WriteString(FormatDayBuckets(v.Days))
	}
	for _, g := range v.Groups {
		b.WriteString(Bold(g.Label) + " " + Dim(fmt.Sprintf("%s..%s (%d)", g.StartDate, g.EndDate, g.Count)) + "\n")
		for _, t := range g.Tasks {
			b.WriteString("  " + StatusPill(t.Status) + "  " + t.Title + "\n")
		}
	}
	b.WriteString(Dim(fmt.Sprintf("%d task(s) due", v.TotalTasks)) + "\n")
	return b.String()
}

func FormatStats(v *app.StatsView) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Stats %s to %s", v.StartDate, v.EndDate)) + "\n")
	rows := make([][]string, 0, len(v.DailyStats))
	for _, d := range v.DailyStats {
		rows = append(rows, []string{d.Date, fmt.Sprint(d.Created), fmt.Sprint(d.Completed)})
	}
	b.WriteString(RenderTable([]string{"DATE", "CREATED", "COMPLETED"}, rows) + "\n")
	b.WriteString(Field("created", fmt.Sprint(v.Summary.TotalCreated)) + "\n")
	b.WriteString(Field("completed", fmt.Sprint(v.Summary.TotalCompleted)) + "\n")
	b.WriteString(Field("rate", RenderRate(v.Summary.CompletionRate, 20)) + "\n")
	return b.String()
}
