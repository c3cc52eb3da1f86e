package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleMonth(c *gin.Context) {
	now := time.Now().In(s.svc.Calendar.Location())
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		s.respondError(c, err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.svc.Calendar.Month(c.Request.Context(), year, month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleWeek(c *gin.Context) {
	date, err := s.dateOrToday(c, "date")
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.svc.Calendar.Week(c.Request.Context(), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDay(c *gin.Context) {
	date, err := s.queryDate(c, "date")
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.svc.Calendar.Day(c.Request.Context(), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleToday(c *gin.Context) {
	view, err := s.svc.Calendar.Today(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRange(c *gin.Context) {
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
	view, err := s.svc.Calendar.Range(c.Request.Context(), start, end, c.Query("group_by"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleStats(c *gin.Context) {
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
	view, err := s.svc.Calendar.Stats(c.Request.Context(), start, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleCalendarOverdue(c *gin.Context) {
	page, err := pageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.svc.Calendar.Overdue(c.Request.Context(), page)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
