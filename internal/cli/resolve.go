package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/service"
)

const scanPage = service.MaxPageLimit

// uniquePrefix picks the one id starting with input.
func uniquePrefix(kind, input string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveTaskID accepts a full task id or a unique prefix of one, as shown
// in list output.
func resolveTaskID(ctx context.Context, a *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.Invalid("id", "task id is required")
	}
	if _, err := a.Tasks.Get(ctx, input); err == nil {
		return input, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	var ids []string
	for offset := 0; ; {
		res, err := a.Tasks.List(ctx, app.ListTasksRequest{Offset: offset, Limit: scanPage})
		if err != nil {
			return "", err
		}
		for _, t := range res.Tasks {
			ids = append(ids, t.ID)
		}
		offset += len(res.Tasks)
		if offset >= res.Total || len(res.Tasks) == 0 {
			break
		}
	}
	return uniquePrefix("task", input, ids)
}

// resolveCategoryID accepts a full id, a unique id prefix, or an exact
// category name.
func resolveCategoryID(ctx context.Context, a *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.Invalid("category", "category id or name is required")
	}

	var ids []string
	for offset := 0; ; {
		res, err := a.Categories.List(ctx, app.PageRequest{Offset: offset, Limit: scanPage})
		if err != nil {
			return "", err
		}
		for _, c := range res.Categories {
			if c.ID == input || c.Name == input {
				return c.ID, nil
			}
			ids = append(ids, c.ID)
		}
		offset += len(res.Categories)
		if offset >= res.Total || len(res.Categories) == 0 {
			break
		}
	}
	return uniquePrefix("category", input, ids)
}

// categoryNames loads every category for display lookups.
func categoryNames(ctx context.Context, a *App) (map[string]*domain.Category, error) {
	out := make(map[string]*domain.Category)
	for offset := 0; ; {
		res, err := a.Categories.List(ctx, app.PageRequest{Offset: offset, Limit: scanPage})
		if err != nil {
			return nil, err
		}
		for _, c := range res.Categories {
			out[c.ID] = c
		}
		offset += len(res.Categories)
		if offset >= res.Total || len(res.Categories) == 0 {
			return out, nil
		}
	}
}
