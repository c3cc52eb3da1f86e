package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestParseTaskStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"in_progress", StatusInProgress, false},
		{" Completed ", StatusCompleted, false},
		{"CANCELLED", StatusCancelled, false},
		{"done", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseTaskStatus(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input=%q", tc.in)
			assert.True(t, errors.Is(err, ErrValidation), "input=%q", tc.in)
			continue
		}
		require.NoError(t, err, "input=%q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseTaskPriority(t *testing.T) {
	got, err := ParseTaskPriority("Urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, got)

	_, err = ParseTaskPriority("critical")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)
}

func TestPriorityRank_Ordered(t *testing.T) {
	for i := 1; i < len(TaskPriorities); i++ {
		assert.Less(t, TaskPriorities[i-1].Rank(), TaskPriorities[i].Rank())
	}
	assert.Equal(t, 0, TaskPriority("bogus").Rank())
}

func TestStatusIsClosed(t *testing.T) {
	assert.False(t, StatusPending.IsClosed())
	assert.False(t, StatusInProgress.IsClosed())
	assert.True(t, StatusCompleted.IsClosed())
	assert.True(t, StatusCancelled.IsClosed())
}

func TestNormalizeTitle(t *testing.T) {
	got, err := NormalizeTitle("  Report  ")
	require.NoError(t, err)
	assert.Equal(t, "Report", got)

	_, err = NormalizeTitle("   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeTitle(strings.Repeat("x", MaxTitleLen+1))
	assert.ErrorIs(t, err, ErrValidation)

	// Bounds count characters, not bytes.
	_, err = NormalizeTitle(strings.Repeat("ж", MaxTitleLen))
	assert.NoError(t, err)
}

func TestTaskApply_OnlySetFieldsChange(t *testing.T) {
	due := testNow.Add(48 * time.Hour)
	task := &Task{
		Title:       "Original",
		Description: strPtr("keep me"),
		Status:      StatusPending,
		Priority:    PriorityLow,
		DueDate:     &due,
		CategoryID:  strPtr("cat-1"),
	}

	later := testNow.Add(time.Hour)
	err := task.Apply(TaskPatch{Status: Some(StatusInProgress)}, later)
	require.NoError(t, err)

	assert.Equal(t, "Original", task.Title)
	assert.Equal(t, "keep me", *task.Description)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.Equal(t, due, *task.DueDate)
	assert.Equal(t, "cat-1", *task.CategoryID)
	assert.Equal(t, later, task.UpdatedAt)
}

func TestTaskApply_ExplicitNilClears(t *testing.T) {
	due := testNow
	task := &Task{Title: "T", Status: StatusPending, Priority: PriorityMedium,
		Description: strPtr("d"), DueDate: &due, CategoryID: strPtr("c")}

	err := task.Apply(TaskPatch{
		Description: Some[*string](nil),
		DueDate:     Some[*time.Time](nil),
		CategoryID:  Some[*string](nil),
	}, testNow)
	require.NoError(t, err)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.CategoryID)
}

func TestTaskApply_RejectsBadValues(t *testing.T) {
	task := &Task{Title: "T", Status: StatusPending, Priority: PriorityMedium}

	err := task.Apply(TaskPatch{Title: Some("")}, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "T", task.Title)

	err = task.Apply(TaskPatch{Status: Some(TaskStatus("archived"))}, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StatusPending, task.Status)
}

func TestTaskCopy(t *testing.T) {
	due := testNow.Add(24 * time.Hour)
	orig := &Task{
		ID:          "orig",
		Title:       "X",
		Description: strPtr("desc"),
		Status:      StatusCompleted,
		Priority:    PriorityHigh,
		DueDate:     &due,
		CategoryID:  strPtr("cat"),
		ParentID:    strPtr("parent"),
		CreatedAt:   testNow.Add(-time.Hour),
		UpdatedAt:   testNow.Add(-time.Hour),
	}

	cp := orig.Copy("copy-id", testNow)

	assert.Equal(t, "copy-id", cp.ID)
	assert.Equal(t, "X"+CopySuffix, cp.Title)
	assert.Equal(t, StatusPending, cp.Status)
	assert.Equal(t, PriorityHigh, cp.Priority)
	assert.Equal(t, "desc", *cp.Description)
	assert.Equal(t, due, *cp.DueDate)
	assert.Equal(t, "cat", *cp.CategoryID)
	assert.Equal(t, "parent", *cp.ParentID)
	assert.Equal(t, testNow, cp.CreatedAt)

	// Pointers are not shared with the original.
	*cp.Description = "changed"
	assert.Equal(t, "desc", *orig.Description)
}

func TestTaskCopy_LongTitleStaysInBounds(t *testing.T) {
	orig := &Task{Title: strings.Repeat("a", MaxTitleLen), Status: StatusPending, Priority: PriorityLow}
	cp := orig.Copy("id", testNow)
	require.NoError(t, cp.Validate())
	assert.True(t, strings.HasSuffix(cp.Title, CopySuffix))
}

func TestTaskIsOverdue(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	assert.True(t, (&Task{Status: StatusPending, DueDate: &past}).IsOverdue(testNow))
	assert.False(t, (&Task{Status: StatusCompleted, DueDate: &past}).IsOverdue(testNow))
	assert.False(t, (&Task{Status: StatusPending, DueDate: &future}).IsOverdue(testNow))
	assert.False(t, (&Task{Status: StatusPending}).IsOverdue(testNow))
}
