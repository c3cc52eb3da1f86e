// Package importer loads seed files: categories and tasks described in YAML
// (or JSON, which YAML accepts) with symbolic refs in place of ids.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedSchema is the top-level structure of a seed file.
type SeedSchema struct {
	Categories []CategorySeed `yaml:"categories" json:"categories"`
	Tasks      []TaskSeed     `yaml:"tasks" json:"tasks"`
}

// CategorySeed defines a category. Ref is how tasks point at it; it defaults
// to the name when omitted.
type CategorySeed struct {
	Ref         string  `yaml:"ref" json:"ref"`
	Name        string  `yaml:"name" json:"name"`
	Color       string  `yaml:"color" json:"color"`
	Icon        *string `yaml:"icon" json:"icon"`
	Description *string `yaml:"description" json:"description"`
}

// TaskSeed defines a task. ParentRef must name a task that appears earlier
// in the list. Due accepts RFC 3339 or YYYY-MM-DD.
type TaskSeed struct {
	Ref         string  `yaml:"ref" json:"ref"`
	Title       string  `yaml:"title" json:"title"`
	Description *string `yaml:"description" json:"description"`
	Status      string  `yaml:"status" json:"status"`
	Priority    string  `yaml:"priority" json:"priority"`
	Due         string  `yaml:"due" json:"due"`
	CategoryRef string  `yaml:"category_ref" json:"category_ref"`
	ParentRef   string  `yaml:"parent_ref" json:"parent_ref"`
}

// LoadSeedSchema reads and parses a seed file.
func LoadSeedSchema(path string) (*SeedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedSchema(data)
}

// ParseSeedSchema decodes a seed document. Unknown keys are rejected so
// typos surface instead of being silently ignored.
func ParseSeedSchema(data []byte) (*SeedSchema, error) {
	var schema SeedSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		if errors.Is(err, io.EOF) {
			return &schema, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &schema, nil
}

func (c CategorySeed) key() string {
	if c.Ref != "" {
		return c.Ref
	}
	return c.Name
}
