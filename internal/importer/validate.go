package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateSeedSchema checks the whole seed before anything is written and
// returns every problem found.
func ValidateSeedSchema(schema *SeedSchema) []error {
	var errs []error

	categoryRefs := make(map[string]bool)
	errs = append(errs, validateCategories(schema.Categories, categoryRefs)...)
	errs = append(errs, validateTasks(schema.Tasks, categoryRefs)...)

	return errs
}

func validateCategories(categories []CategorySeed, refs map[string]bool) []error {
	var errs []error
	names := make(map[string]bool)

	for i, c := range categories {
		prefix := fmt.Sprintf("categories[%d]", i)

		name, err := domain.NormalizeCategoryName(c.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
		} else if names[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate name %q", prefix, name))
		} else {
			names[strings.ToLower(name)] = true
		}

		if key := c.key(); key != "" {
			if refs[key] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, key))
			}
			refs[key] = true
		}

		if _, err := domain.NormalizeColor(c.Color); err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
		}
		if err := domain.CheckOptionalText("icon", c.Icon, domain.MaxIconLen); err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
		}
		if err := domain.CheckOptionalText("description", c.Description, domain.MaxDescriptionLen); err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
		}
	}

	return errs
}

func validateTasks(tasks []TaskSeed, categoryRefs map[string]bool) []error {
	var errs []error
	taskRefs := make(map[string]bool)

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if _, err := domain.NormalizeTitle(t.Title); err != nil {
			errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
		}
		if t.Status != "" {
			if _, err := domain.ParseTaskStatus(t.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			}
		}
		if t.Priority != "" {
			if _, err := domain.ParseTaskPriority(t.Priority); err != nil {
				errs = append(errs, fmt.Errorf("%s.%w", prefix, err))
			}
		}
		if t.Due != "" {
			if _, err := parseDue(t.Due, time.UTC); err != nil {
				errs = append(errs, fmt.Errorf("%s.due: invalid value %q (expected RFC 3339 or YYYY-MM-DD)", prefix, t.Due))
			}
		}

		if t.CategoryRef != "" && !categoryRefs[t.CategoryRef] {
			errs = append(errs, fmt.Errorf("%s.category_ref: ref %q not found in categories", prefix, t.CategoryRef))
		}
		if t.ParentRef != "" && !taskRefs[t.ParentRef] {
			errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, t.ParentRef))
		}

		// Registered after the parent check so a task cannot parent itself.
		if t.Ref != "" {
			if taskRefs[t.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
			}
			taskRefs[t.Ref] = true
		}
	}

	return errs
}

// parseDue accepts a full timestamp or a bare date, which is read as
// midnight in loc.
func parseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}
