package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/importer"
	"github.com/taskasaurus/taskrex/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
	settings
}

func NewImportService(uow db.UnitOfWork, opts ...Option) ImportService {
	return &importService{uow: uow, settings: newSettings(opts)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*app.SeedResult, error) {
	schema, err := importer.LoadSeedSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading seed file: %w", err)
	}
	return s.Import(ctx, schema)
}

// Import validates the whole seed, then inserts it in one transaction.
func (s *importService) Import(ctx context.Context, schema *importer.SeedSchema) (res *app.SeedResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"categories": len(schema.Categories),
		"tasks":      len(schema.Tasks),
	}
	defer func() { s.observe(ctx, "seed.import", startedAt, fields, err) }()

	if errs := importer.ValidateSeedSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	seed, err := importer.Convert(schema, s.clock(), s.loc)
	if err != nil {
		return nil, fmt.Errorf("converting seed: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		for _, c := range seed.Categories {
			if _, err := txCategories.GetByName(ctx, c.Name); err == nil {
				return domain.Invalid("name", "category %q already exists", c.Name)
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if err := txCategories.Create(ctx, c); err != nil {
				return fmt.Errorf("creating category %q: %w", c.Name, err)
			}
		}
		for _, t := range seed.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app.SeedResult{CategoryCount: len(seed.Categories), TaskCount: len(seed.Tasks)}, nil
}

// formatValidationErrors folds every seed problem into one ValidationError.
func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return domain.Invalid("seed", "%d problems:\n%s", len(errs), strings.Join(msgs, "\n"))
}
