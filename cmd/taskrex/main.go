package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/taskasaurus/taskrex/internal/api"
	"github.com/taskasaurus/taskrex/internal/cli"
	"github.com/taskasaurus/taskrex/internal/config"
	"github.com/taskasaurus/taskrex/internal/db"
	"github.com/taskasaurus/taskrex/internal/repository"
	"github.com/taskasaurus/taskrex/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}
	// Wiring waits for flag parsing so --db, --timezone and friends apply.
	app.Init = func(cfg *config.Config) error {
		logger := cfg.NewLogger(os.Stderr)

		var err error
		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		taskRepo := repository.NewSQLiteTaskRepo(database)
		categoryRepo := repository.NewSQLiteCategoryRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		opts := []service.Option{
			service.WithLocation(cfg.Location),
			service.WithPageLimits(cfg.DefaultLimit, cfg.MaxLimit),
			service.WithObserver(service.NewLogUseCaseObserver(logger)),
		}

		app.Tasks = service.NewTaskService(taskRepo, categoryRepo, uow, opts...)
		app.Categories = service.NewCategoryService(categoryRepo, taskRepo, uow, opts...)
		app.Calendar = service.NewCalendarService(taskRepo, opts...)
		app.Imports = service.NewImportService(uow, opts...)

		app.Serve = func(ctx context.Context, addr string) error {
			if cfg.LogLevel > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := api.NewServer(api.Services{
				Tasks:      app.Tasks,
				Categories: app.Categories,
				Calendar:   app.Calendar,
			}, logger)
			return srv.Run(ctx, addr)
		}

		logger.Debug("configured", "db", cfg.DBPath, "timezone", cfg.Timezone, "config_file", cfg.File)
		return nil
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
