package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/domain"
)

// queryInt reads an optional integer parameter; absent yields def.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.Invalid(name, "must be an integer (got %q)", raw)
	}
	return n, nil
}

// pageRequest reads skip and limit. Range checks are left to the service.
func pageRequest(c *gin.Context) (app.PageRequest, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return app.PageRequest{}, err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return app.PageRequest{}, err
	}
	return app.PageRequest{Offset: skip, Limit: limit}, nil
}

func (s *Server) queryDate(c *gin.Context, name string) (time.Time, error) {
	return calendar.ParseDate(name, c.Query(name), s.svc.Calendar.Location())
}

// optionalDate is queryDate for parameters that may be omitted.
func (s *Server) optionalDate(c *gin.Context, name string) (*time.Time, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return nil, nil
	}
	t, err := s.queryDate(c, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateOrToday reads a date parameter, defaulting to today in the calendar
// location.
func (s *Server) dateOrToday(c *gin.Context, name string) (time.Time, error) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return time.Now().In(s.svc.Calendar.Location()), nil
	}
	return s.queryDate(c, name)
}
