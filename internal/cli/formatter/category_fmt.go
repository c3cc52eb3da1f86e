package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/domain"
)

func FormatCategoryList(res *app.CategoryListResult) string {
	if len(res.Categories) == 0 {
		return Dim("No categories.") + "\n"
	}
	headers := []string{"ID", "NAME", "COLOR", "ICON", "DESCRIPTION"}
	rows := make([][]string, 0, len(res.Categories))
	for _, c := range res.Categories {
		rows = append(rows, []string{
			TruncID(c.ID),
			CategoryLabel(c.Name, c.Color),
			Dim(c.Color),
			deref(c.Icon),
			deref(c.Description),
		})
	}
	return RenderTable(headers, rows) + Dim(fmt.Sprintf("%d of %d categories", len(res.Categories), res.Total)) + "\n"
}

func FormatCategoryDetail(d *app.CategoryDetail, now time.Time) string {
	var b strings.Builder
	b.WriteString(CategoryLabel(d.Name, d.Color) + "\n\n")
	b.WriteString(Field("id", d.ID) + "\n")
	b.WriteString(Field("color", d.Color) + "\n")
	if d.Icon != nil {
		b.WriteString(Field("icon", *d.Icon) + "\n")
	}
	if d.Description != nil {
		b.WriteString(Field("about", *d.Description) + "\n")
	}
	b.WriteString("\n" + Header(fmt.Sprintf("Tasks (%d)", len(d.Tasks))) + "\n")
	cats := Categories{d.ID: d.Category}
	b.WriteString(FormatTaskTable(d.Tasks, cats, now))
	return RenderBox("Category", strings.TrimRight(b.String(), "\n"))
}

// FormatCategoryStats lists every status and priority, zero counts included.
func FormatCategoryStats(s *app.CategoryStats) string {
	var b strings.Builder
	b.WriteString(Field("total", Bold(fmt.Sprint(s.TotalTasks))) + "\n\n")

	rows := make([][]string, 0, len(domain.TaskStatuses))
	for _, st := range domain.TaskStatuses {
		rows = append(rows, []string{StatusPill(st), fmt.Sprint(s.ByStatus[st])})
	}
	b.WriteString(RenderTable([]string{"STATUS", "TASKS"}, rows) + "\n")

	rows = rows[:0]
	for _, p := range domain.TaskPriorities {
		rows = append(rows, []string{PriorityBadge(p), fmt.Sprint(s.ByPriority[p])})
	}
	b.WriteString(RenderTable([]string{"PRIORITY", "TASKS"}, rows))
	return b.String()
}

func FormatCategoryDeleted(r *app.DeleteCategoryResult) string {
	if r.ReassignedTo != nil {
		return fmt.Sprintf("Deleted category %s; moved %d task(s) to %s\n", TruncID(r.CategoryID), r.TasksMoved, TruncID(*r.ReassignedTo))
	}
	return fmt.Sprintf("Deleted category %s; %d task(s) left uncategorised\n", TruncID(r.CategoryID), r.TasksMoved)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}
