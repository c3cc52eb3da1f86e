package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskasaurus/taskrex/internal/domain"
)

// TreeItem is one line of a task tree.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.TaskStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree draws items as an indented tree. Completed items are dimmed
// with a ✔, in-progress items get ▶, and details are right-aligned badges.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch item.Status {
		case domain.StatusCompleted:
			title = StyleGreen.Render("✔ ") + Dim(title)
		case domain.StatusCancelled:
			title = Dim("✖ " + title)
		case domain.StatusInProgress:
			title = StyleYellowBold.Render("▶ " + title)
		}

		contents[i] = prefix + title
		widest = max(widest, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
