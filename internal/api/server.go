// Package api exposes the services over HTTP with gin.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskasaurus/taskrex/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Services are the use cases the HTTP layer dispatches to.
type Services struct {
	Tasks      service.TaskService
	Categories service.CategoryService
	Calendar   service.CalendarService
}

// Server is the taskrex HTTP server.
type Server struct {
	svc    Services
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds the router. A nil logger discards request logs.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), cors())

	s := &Server{svc: svc, logger: logger, router: router}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		tasks := api.Group("/tasks")
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.GET("/overdue", s.handleOverdueTasks)
		tasks.GET("/upcoming", s.handleUpcomingTasks)
		tasks.GET("/range", s.handleTaskRange)
		tasks.GET("/:id", s.handleGetTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.PATCH("/:id", s.handleUpdateTask)
		tasks.DELETE("/:id", s.handleDeleteTask)
		tasks.PATCH("/:id/status", s.handleUpdateTaskStatus)
		tasks.POST("/:id/duplicate", s.handleDuplicateTask)
		tasks.GET("/:id/subtasks", s.handleSubtasks)

		categories := api.Group("/categories")
		categories.GET("", s.handleListCategories)
		categories.POST("", s.handleCreateCategory)
		categories.GET("/:id", s.handleGetCategory)
		categories.PUT("/:id", s.handleUpdateCategory)
		categories.PATCH("/:id", s.handleUpdateCategory)
		categories.DELETE("/:id", s.handleDeleteCategory)
		categories.GET("/:id/tasks", s.handleCategoryTasks)
		categories.GET("/:id/stats", s.handleCategoryStats)

		cal := api.Group("/calendar")
		cal.GET("/month", s.handleMonth)
		cal.GET("/week", s.handleWeek)
		cal.GET("/day", s.handleDay)
		cal.GET("/today", s.handleToday)
		cal.GET("/range", s.handleRange)
		cal.GET("/stats", s.handleStats)
		cal.GET("/overdue", s.handleCalendarOverdue)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Taskasaurus Rex API"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
