package domain

import "strings"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// ParseTaskStatus converts external input into a TaskStatus. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseTaskStatus(s string) (TaskStatus, error) {
	v := TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", Invalid("status", "must be one of pending, in_progress, completed, cancelled (got %q)", s)
	}
	return v, nil
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsClosed reports whether the status takes a task out of overdue and
// upcoming queries.
func (s TaskStatus) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParseTaskPriority converts external input into a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	v := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", Invalid("priority", "must be one of low, medium, high, urgent (got %q)", s)
	}
	return v, nil
}

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: low=1 .. urgent=4, 0 for unknown values.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}
