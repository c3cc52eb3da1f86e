package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/domain"
)

// enumValue is a pflag.Value restricted to a fixed set of strings, so bad
// values fail at parse time with the allowed list in the message.
type enumValue struct {
	name    string
	allowed []string
	value   string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnum[T ~string](name string, values []T) *enumValue {
	allowed := make([]string, len(values))
	for i, v := range values {
		allowed[i] = string(v)
	}
	return &enumValue{name: name, allowed: allowed}
}

func statusFlag() *enumValue   { return newEnum("status", domain.TaskStatuses) }
func priorityFlag() *enumValue { return newEnum("priority", domain.TaskPriorities) }
func groupByFlag() *enumValue  { return newEnum("group-by", calendar.GroupBys) }

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, a := range e.allowed {
		if v == a {
			e.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string { return e.name }

// parseDue accepts RFC 3339 or a bare date, read as midnight in loc.
func parseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(calendar.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, domain.Invalid("due", "must be RFC 3339 or YYYY-MM-DD (got %q)", s)
	}
	return t, nil
}

// optionalString is nil when s is blank.
func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func parseDatePair(a *App, args []string) (time.Time, time.Time, error) {
	start, err := calendar.ParseDate("start", args[0], a.location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := calendar.ParseDate("end", args[1], a.location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
