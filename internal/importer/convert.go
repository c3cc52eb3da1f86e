package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskasaurus/taskrex/internal/domain"
)

// Seed is a converted seed file, in insertion order: every task's parent
// precedes it.
type Seed struct {
	Categories []*domain.Category
	Tasks      []*domain.Task
}

// Convert transforms a validated SeedSchema into domain records stamped with
// now. Bare due dates are read in loc. Call ValidateSeedSchema first.
func Convert(schema *SeedSchema, now time.Time, loc *time.Location) (*Seed, error) {
	now = now.UTC().Truncate(time.Microsecond)
	seed := &Seed{
		Categories: make([]*domain.Category, 0, len(schema.Categories)),
		Tasks:      make([]*domain.Task, 0, len(schema.Tasks)),
	}

	categoryIDs := make(map[string]string, len(schema.Categories))
	for _, c := range schema.Categories {
		name, err := domain.NormalizeCategoryName(c.Name)
		if err != nil {
			return nil, err
		}
		color, err := domain.NormalizeColor(c.Color)
		if err != nil {
			return nil, err
		}
		cat := &domain.Category{
			ID:          uuid.New().String(),
			Name:        name,
			Color:       color,
			Icon:        c.Icon,
			Description: c.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		categoryIDs[c.key()] = cat.ID
		seed.Categories = append(seed.Categories, cat)
	}

	taskIDs := make(map[string]string, len(schema.Tasks))
	for i, t := range schema.Tasks {
		task, err := convertTask(t, now, loc)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if t.CategoryRef != "" {
			id, ok := categoryIDs[t.CategoryRef]
			if !ok {
				return nil, fmt.Errorf("tasks[%d]: unknown category_ref %q", i, t.CategoryRef)
			}
			task.CategoryID = &id
		}
		if t.ParentRef != "" {
			id, ok := taskIDs[t.ParentRef]
			if !ok {
				return nil, fmt.Errorf("tasks[%d]: unknown parent_ref %q", i, t.ParentRef)
			}
			task.ParentID = &id
		}
		if t.Ref != "" {
			taskIDs[t.Ref] = task.ID
		}
		seed.Tasks = append(seed.Tasks, task)
	}

	return seed, nil
}

func convertTask(t TaskSeed, now time.Time, loc *time.Location) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(t.Title)
	if err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if t.Status != "" {
		if status, err = domain.ParseTaskStatus(t.Status); err != nil {
			return nil, err
		}
	}
	priority := domain.PriorityMedium
	if t.Priority != "" {
		if priority, err = domain.ParseTaskPriority(t.Priority); err != nil {
			return nil, err
		}
	}

	var due *time.Time
	if t.Due != "" {
		d, err := parseDue(t.Due, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing due %q: %w", t.Due, err)
		}
		d = d.UTC().Truncate(time.Microsecond)
		due = &d
	}

	return &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: t.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
