package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/domain"
)

// Categories resolves category ids to names for display. Missing ids
// render as their truncated id.
type Categories map[string]*domain.Category

func (c Categories) label(id *string) string {
	if id == nil {
		return Dim("--")
	}
	if cat, ok := c[*id]; ok {
		return CategoryLabel(cat.Name, cat.Color)
	}
	return TruncID(*id)
}

// FormatTaskTable renders tasks as an aligned table.
func FormatTaskTable(tasks []*domain.Task, cats Categories, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE", "CATEGORY"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := Bold(t.Title)
		if t.ParentID != nil {
			title = Dim("↳ ") + t.Title
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			title,
			StatusPill(t.Status),
			PriorityBadge(t.Priority),
			DueLabel(t.DueDate, now, !t.Status.IsClosed()),
			cats.label(t.CategoryID),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTaskList renders one page of tasks with its total.
func FormatTaskList(res *app.TaskListResult, cats Categories, now time.Time) string {
	footer := Dim(fmt.Sprintf("%d of %d task(s)", len(res.Tasks), res.Total))
	return FormatTaskTable(res.Tasks, cats, now) + footer + "\n"
}

// FormatTaskDetail renders a task card with its subtask tree.
func FormatTaskDetail(d *app.TaskDetail, now time.Time) string {
	var b strings.Builder
	t := d.Task

	b.WriteString(StyleBold.Render(t.Title) + "\n\n")
	b.WriteString(Field("id", t.ID) + "\n")
	b.WriteString(Field("status", StatusPill(t.Status)) + "\n")
	b.WriteString(Field("priority", PriorityBadge(t.Priority)) + "\n")
	b.WriteString(Field("due", DueLabel(t.DueDate, now, !t.Status.IsClosed())) + "\n")
	if d.Category != nil {
		b.WriteString(Field("category", CategoryLabel(d.Category.Name, d.Category.Color)) + "\n")
	}
	if t.ParentID != nil {
		b.WriteString(Field("parent", TruncID(*t.ParentID)) + "\n")
	}
	b.WriteString(Field("created", t.CreatedAt.Format(time.RFC3339)) + "\n")
	b.WriteString(Field("updated", t.UpdatedAt.Format(time.RFC3339)) + "\n")
	if t.Description != nil && *t.Description != "" {
		b.WriteString("\n" + StyleFg.Render(*t.Description) + "\n")
	}

	if len(d.Subtasks) > 0 {
		b.WriteString("\n" + Header("Subtasks") + "\n")
		items := []TreeItem{{Title: t.Title, Status: t.Status}}
		for i, s := range d.Subtasks {
			items = append(items, TreeItem{
				Title:  s.Title,
				Level:  1,
				IsLast: i == len(d.Subtasks)-1,
				Status: s.Status,
				Detail: string(s.Priority),
			})
		}
		b.WriteString(RenderTree(items))
	}

	return RenderBox("Task", strings.TrimRight(b.String(), "\n"))
}
