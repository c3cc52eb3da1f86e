package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
)

func (s *Server) handleListTasks(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	from, err := s.optionalDate(c, "date_from")
	if err != nil {
		s.respondError(c, err)
		return
	}
	to, err := s.optionalDate(c, "date_to")
	if err != nil {
		s.respondError(c, err)
		return
	}
	if to != nil {
		// date_to includes the whole day.
		end := calendar.DayEnd(*to, s.svc.Calendar.Location())
		to = &end
	}

	res, err := s.svc.Tasks.List(c.Request.Context(), app.ListTasksRequest{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		DueFrom:    from,
		DueTo:      to,
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
		Offset:     page.Offset,
		Limit:      page.Limit,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in app.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	task, err := s.svc.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	detail, err := s.svc.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var in app.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	task, err := s.svc.Tasks.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type statusBody struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleUpdateTaskStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badBody(c, err)
		return
	}
	task, err := s.svc.Tasks.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Tasks.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

func (s *Server) handleDuplicateTask(c *gin.Context) {
	task, err := s.svc.Tasks.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleSubtasks(c *gin.Context) {
	tasks, err := s.svc.Tasks.Subtasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

func (s *Server) handleOverdueTasks(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Tasks.Overdue(c.Request.Context(), page)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleUpcomingTasks(c *gin.Context) {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		s.respondError(c, err)
		return
	}
	tasks, err := s.svc.Tasks.Upcoming(c.Request.Context(), days, c.Query("priority"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

func (s *Server) handleTaskRange(c *gin.Context) {
	start, err := s.queryDate(c, "start")
	if err != nil {
		s.respondError(c, err)
		return
	}
	end, err := s.queryDate(c, "end")
	if err != nil {
		s.respondError(c, err)
		return
	}
	tasks, err := s.svc.Tasks.DateRange(c.Request.Context(), start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}
