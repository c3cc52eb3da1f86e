package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxCategoryNameLen = 100
	MaxIconLen         = 50
	MaxDescriptionLen  = 500

	// DefaultColor is the neutral gray given to categories created without
	// a color.
	DefaultColor = "#808080"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryPatch is a validated partial update of a category.
type CategoryPatch struct {
	Name        Optional[string]
	Color       Optional[string]
	Icon        Optional[*string]
	Description Optional[*string]
}

// NormalizeCategoryName trims s and checks the name bounds.
func NormalizeCategoryName(s string) (string, error) {
	n := strings.TrimSpace(s)
	if n == "" {
		return "", Invalid("name", "is required")
	}
	if utf8.RuneCountInString(n) > MaxCategoryNameLen {
		return "", Invalid("name", "must be at most %d characters", MaxCategoryNameLen)
	}
	return n, nil
}

// NormalizeColor returns DefaultColor for empty input and the upper-cased
// color for a valid #RRGGBB value.
func NormalizeColor(s string) (string, error) {
	c := strings.TrimSpace(s)
	if c == "" {
		return DefaultColor, nil
	}
	if !hexColorPattern.MatchString(c) {
		return "", Invalid("color", "must be a hex color like #1A2B3C (got %q)", s)
	}
	return strings.ToUpper(c), nil
}

// CheckOptionalText verifies that a nullable text field fits max runes.
func CheckOptionalText(field string, s *string, max int) error {
	if s != nil && utf8.RuneCountInString(*s) > max {
		return Invalid(field, "must be at most %d characters", max)
	}
	return nil
}

// Apply merges p into c and stamps UpdatedAt. A present but blank color
// is rejected; only creation falls back to DefaultColor.
func (c *Category) Apply(p CategoryPatch, now time.Time) error {
	if v, ok := p.Name.Get(); ok {
		name, err := NormalizeCategoryName(v)
		if err != nil {
			return err
		}
		c.Name = name
	}
	if v, ok := p.Color.Get(); ok {
		if strings.TrimSpace(v) == "" {
			return Invalid("color", "must not be empty")
		}
		color, err := NormalizeColor(v)
		if err != nil {
			return err
		}
		c.Color = color
	}
	if v, ok := p.Icon.Get(); ok {
		if err := CheckOptionalText("icon", v, MaxIconLen); err != nil {
			return err
		}
		c.Icon = v
	}
	if v, ok := p.Description.Get(); ok {
		if err := CheckOptionalText("description", v, MaxDescriptionLen); err != nil {
			return err
		}
		c.Description = v
	}
	c.UpdatedAt = now
	return nil
}
