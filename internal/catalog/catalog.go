// Package catalog serves the static list of courses shown on the portal.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"archiv/internal/model"
)

//go:embed courses.yaml
var defaultCourses []byte

var ErrDuplicateID = errors.New("duplicate course id")

type document struct {
	Courses []model.Course `yaml:"courses"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	courses []model.Course
	byID    map[string]int
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCourses)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML catalog. Course ids must be non-empty and unique.
func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode course catalog: %w", err)
	}

	c := &Catalog{courses: doc.Courses, byID: make(map[string]int, len(doc.Courses))}
	for i, course := range doc.Courses {
		if course.ID == "" {
			return nil, fmt.Errorf("course #%d has no id", i+1)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, course.ID)
		}
		c.byID[course.ID] = i
	}
	if c.courses == nil {
		c.courses = []model.Course{}
	}
	return c, nil
}

// All returns the courses in catalog order.
func (c *Catalog) All() []model.Course {
	out := make([]model.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

func (c *Catalog) Get(id string) (model.Course, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Course{}, false
	}
	return c.courses[i], true
}
