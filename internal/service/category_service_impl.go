package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
)

type categoryService struct {
	categories repository.CategoryRepo
	tasks      repository.TaskRepo
	uow        db.UnitOfWork
	settings
}

func NewCategoryService(
	categories repository.CategoryRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	opts ...Option,
) CategoryService {
	return &categoryService{
		categories: categories,
		tasks:      tasks,
		uow:        uow,
		settings:   newSettings(opts),
	}
}

func (s *categoryService) List(ctx context.Context, p app.PageRequest) (*app.CategoryListResult, error) {
	page, err := s.pageOf(p)
	if err != nil {
		return nil, err
	}
	categories, total, err := s.categories.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return &app.CategoryListResult{Categories: categories, Total: total}, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*app.CategoryDetail, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &app.CategoryDetail{Category: c, Tasks: tasks}, nil
}

func (s *categoryService) Create(ctx context.Context, in app.CreateCategoryInput) (c *domain.Category, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": in.Name}
	defer func() { s.observe(ctx, "category.create", startedAt, fields, err) }()

	name, err := domain.NormalizeCategoryName(in.Name)
	if err != nil {
		return nil, err
	}
	color, err := domain.NormalizeColor(in.Color)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckOptionalText("icon", in.Icon, domain.MaxIconLen); err != nil {
		return nil, err
	}
	if err := domain.CheckOptionalText("description", in.Description, domain.MaxDescriptionLen); err != nil {
		return nil, err
	}

	now := s.clock()
	c = &domain.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Color:       color,
		Icon:        in.Icon,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	fields["category_id"] = c.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		if err := checkNameFree(ctx, txCategories, name, ""); err != nil {
			return err
		}
		return txCategories.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in app.UpdateCategoryInput) (c *domain.Category, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "category.update", startedAt, map[string]any{"category_id": id}, err) }()

	patch := domain.CategoryPatch{
		Name:        in.Name,
		Color:       in.Color,
		Icon:        in.Icon,
		Description: in.Description,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		var err error
		if c, err = txCategories.GetByID(ctx, id); err != nil {
			return err
		}
		if err := c.Apply(patch, s.clock()); err != nil {
			return err
		}
		if _, ok := patch.Name.Get(); ok {
			if err := checkNameFree(ctx, txCategories, c.Name, c.ID); err != nil {
				return err
			}
		}
		return txCategories.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category in one transaction. Its tasks move to
// reassignTo when given, otherwise their category is cleared; tasks are
// never deleted.
func (s *categoryService) Delete(ctx context.Context, id string, reassignTo *string) (res *app.DeleteCategoryResult, err error) {
	startedAt := time.Now()
	reassignTo = nonEmpty(reassignTo)
	fields := map[string]any{"category_id": id}
	if reassignTo != nil {
		fields["reassign_to"] = *reassignTo
	}
	defer func() { s.observe(ctx, "category.delete", startedAt, fields, err) }()

	if reassignTo != nil && *reassignTo == id {
		return nil, domain.Invalid("reassign_to", "cannot reassign tasks to the category being deleted")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		if _, err := txCategories.GetByID(ctx, id); err != nil {
			return err
		}
		if err := checkCategory(ctx, txCategories, reassignTo); err != nil {
			return err
		}
		moved, err := txTasks.ReassignCategory(ctx, id, reassignTo, s.clock())
		if err != nil {
			return err
		}
		if err := txCategories.Delete(ctx, id); err != nil {
			return err
		}
		res = &app.DeleteCategoryResult{CategoryID: id, ReassignedTo: reassignTo, TasksMoved: moved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["tasks_moved"] = res.TasksMoved
	return res, nil
}

func (s *categoryService) Tasks(ctx context.Context, id string, p app.PageRequest) (*app.TaskListResult, error) {
	page, err := s.pageOf(p)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	tasks, total, err := s.tasks.List(ctx, repository.TaskQuery{
		Filter: repository.TaskFilter{CategoryID: &id},
		Sort:   repository.DefaultTaskSort,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}
	return &app.TaskListResult{Tasks: tasks, Total: total}, nil
}

func (s *categoryService) Stats(ctx context.Context, id string) (*app.CategoryStats, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	b, err := s.tasks.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &app.CategoryStats{
		CategoryID: id,
		TotalTasks: b.Total,
		ByStatus:   b.ByStatus,
		ByPriority: b.ByPriority,
	}, nil
}

// checkNameFree fails with a ValidationError when another category already
// uses name. selfID is excluded so a rename to the same name passes.
func checkNameFree(ctx context.Context, categories repository.CategoryRepo, name, selfID string) error {
	existing, err := categories.GetByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.Invalid("name", "category %q already exists", strings.TrimSpace(name))
	}
	return nil
}
