package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom describes t relative to now in whole days.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueLabel formats a due date with urgency colouring. Past due dates on
// open tasks are red; finished tasks are always dim.
func DueLabel(due *time.Time, now time.Time, open bool) string {
	if due == nil {
		return Dim("--")
	}
	stamp := due.Format("2006-01-02 15:04")
	rel := Dim("(" + RelativeDateFrom(*due, now) + ")")
	switch {
	case !open:
		return Dim(stamp)
	case due.Before(now):
		return StyleRed.Render(stamp + " overdue")
	case due.Sub(now) <= 48*time.Hour:
		return StyleYellow.Render(stamp) + " " + rel
	default:
		return stamp + " " + rel
	}
}

// TruncID shortens an id to its first 8 characters, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Field renders one "LABEL  value" line of a detail card.
func Field(label, value string) string {
	return fmt.Sprintf("%s  %s", StyleDim.Render(fmt.Sprintf("%-9s", strings.ToUpper(label))), value)
}
