package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLen = 200

	// CopySuffix is appended to the title of a duplicated task.
	CopySuffix = " (copy)"
)

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CategoryID  *string      `json:"category_id"`
	ParentID    *string      `json:"parent_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskPatch is a validated partial update. Only fields with Set == true are
// applied; a set nil pointer clears the stored value.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[*string]
	Status      Optional[TaskStatus]
	Priority    Optional[TaskPriority]
	DueDate     Optional[*time.Time]
	CategoryID  Optional[*string]
}

// NormalizeTitle trims s and checks the title bounds.
func NormalizeTitle(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", Invalid("title", "is required")
	}
	if utf8.RuneCountInString(t) > MaxTitleLen {
		return "", Invalid("title", "must be at most %d characters", MaxTitleLen)
	}
	return t, nil
}

// Validate checks the task invariants: non-empty bounded title and
// enumerated status and priority.
func (t *Task) Validate() error {
	if _, err := NormalizeTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return Invalid("status", "unknown status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return Invalid("priority", "unknown priority %q", t.Priority)
	}
	return nil
}

// Apply merges p into t and stamps UpdatedAt.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	if v, ok := p.Title.Get(); ok {
		title, err := NormalizeTitle(v)
		if err != nil {
			return err
		}
		t.Title = title
	}
	if v, ok := p.Description.Get(); ok {
		t.Description = v
	}
	if v, ok := p.Status.Get(); ok {
		if !v.Valid() {
			return Invalid("status", "unknown status %q", v)
		}
		t.Status = v
	}
	if v, ok := p.Priority.Get(); ok {
		if !v.Valid() {
			return Invalid("priority", "unknown priority %q", v)
		}
		t.Priority = v
	}
	if v, ok := p.DueDate.Get(); ok {
		t.DueDate = v
	}
	if v, ok := p.CategoryID.Get(); ok {
		t.CategoryID = v
	}
	t.UpdatedAt = now
	return nil
}

// Copy returns a new pending task with every field of t except ID and
// timestamps. The title carries CopySuffix, truncated to stay within
// MaxTitleLen.
func (t *Task) Copy(id string, now time.Time) *Task {
	title := []rune(t.Title)
	room := MaxTitleLen - utf8.RuneCountInString(CopySuffix)
	if len(title) > room {
		title = title[:room]
	}
	return &Task{
		ID:          id,
		Title:       string(title) + CopySuffix,
		Description: cloneString(t.Description),
		Status:      StatusPending,
		Priority:    t.Priority,
		DueDate:     cloneTime(t.DueDate),
		CategoryID:  cloneString(t.CategoryID),
		ParentID:    cloneString(t.ParentID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOverdue reports whether the task is open and its due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsClosed()
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
