package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskasaurus/taskrex/internal/app"
)

func (s *Server) handleListCategories(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Categories.List(c.Request.Context(), page)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var in app.CreateCategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	cat, err := s.svc.Categories.Create(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleGetCategory(c *gin.Context) {
	detail, err := s.svc.Categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	var in app.UpdateCategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, err)
		return
	}
	cat, err := s.svc.Categories.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	var reassignTo *string
	if v := strings.TrimSpace(c.Query("reassign_to")); v != "" {
		reassignTo = &v
	}
	res, err := s.svc.Categories.Delete(c.Request.Context(), c.Param("id"), reassignTo)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted":       true,
		"category_id":   res.CategoryID,
		"reassigned_to": res.ReassignedTo,
		"tasks_moved":   res.TasksMoved,
	})
}

func (s *Server) handleCategoryTasks(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Categories.Tasks(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCategoryStats(c *gin.Context) {
	stats, err := s.svc.Categories.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
