package service

import (
	"errors"
	"time"

	"github.com/taskasaurus/taskrex/internal/app"
	"github.com/taskasaurus/taskrex/internal/domain"
	"github.com/taskasaurus/taskrex/internal/repository"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// Option configures a service.
type Option func(*settings)

type settings struct {
	now          func() time.Time
	loc          *time.Location
	defaultLimit int
	maxLimit     int
	observer     UseCaseObserver
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone in which calendar days are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPageLimits sets the default and maximum page size. Non-positive
// values keep the built-in limits.
func WithPageLimits(defaultLimit, maxLimit int) Option {
	return func(s *settings) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
		if s.defaultLimit > s.maxLimit {
			s.defaultLimit = s.maxLimit
		}
	}
}

func WithObserver(o UseCaseObserver) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now:          time.Now,
		loc:          time.UTC,
		defaultLimit: DefaultPageLimit,
		maxLimit:     MaxPageLimit,
		observer:     NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// clock returns the current instant at storage precision.
func (s *settings) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// page validates external pagination input. A zero limit selects the
// default; limits above the maximum are capped.
func (s *settings) page(offset, limit int) (repository.Page, error) {
	if offset < 0 {
		return repository.Page{}, domain.Invalid("skip", "must not be negative")
	}
	if limit < 0 {
		return repository.Page{}, domain.Invalid("limit", "must not be negative")
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return repository.Page{Offset: offset, Limit: limit}, nil
}

func (s *settings) pageOf(p app.PageRequest) (repository.Page, error) {
	return s.page(p.Offset, p.Limit)
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation)
}

// storageTime normalises a caller-supplied instant to UTC at storage
// precision.
func storageTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Microsecond)
	return &v
}

// nonEmpty treats a pointer to a blank string as absent.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
