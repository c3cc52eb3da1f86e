package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taskasaurus/taskrex/internal/domain"
)

var categoryNameCounter atomic.Int64

// FixedNow is a stable reference instant for tests that pin the clock.
var FixedNow = time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)

// Clock returns a func that always reports t; handy for service options.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Category options
type CategoryOption func(*domain.Category)

func WithColor(c string) CategoryOption {
	return func(cat *domain.Category) {
		cat.Color = c
	}
}

func WithIcon(icon string) CategoryOption {
	return func(cat *domain.Category) {
		cat.Icon = &icon
	}
}

func WithCategoryCreatedAt(t time.Time) CategoryOption {
	return func(cat *domain.Category) {
		cat.CreatedAt = t
		cat.UpdatedAt = t
	}
}

// NewTestCategory builds a category. An empty name gets a unique default so
// fixtures never collide on the UNIQUE constraint.
func NewTestCategory(name string, opts ...CategoryOption) *domain.Category {
	if name == "" {
		name = fmt.Sprintf("Category %d", categoryNameCounter.Add(1))
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := &domain.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     domain.DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Task options
type TaskOption func(*domain.Task)

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		d = d.UTC().Truncate(time.Microsecond)
		t.DueDate = &d
	}
}

func WithDescription(s string) TaskOption {
	return func(t *domain.Task) {
		t.Description = &s
	}
}

func WithCategory(id string) TaskOption {
	return func(t *domain.Task) {
		t.CategoryID = &id
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

// WithCreatedAt pins both timestamps, as a freshly created task has them.
func WithCreatedAt(ts time.Time) TaskOption {
	return func(t *domain.Task) {
		ts = ts.UTC().Truncate(time.Microsecond)
		t.CreatedAt = ts
		t.UpdatedAt = ts
	}
}

func WithUpdatedAt(ts time.Time) TaskOption {
	return func(t *domain.Task) {
		t.UpdatedAt = ts.UTC().Truncate(time.Microsecond)
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Microsecond)
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
