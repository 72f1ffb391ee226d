package models

import (
	"encoding/json"
	"fmt"
)

// Lesson is the smallest content unit of the curriculum. Its ID is unique across the whole catalog.
type Lesson struct {
	ID       string          `json:"id" yaml:"id"`
	ModuleID string          `json:"moduleId,omitempty" yaml:"-"`
	Title    string          `json:"title" yaml:"title"`
	Summary  string          `json:"summary,omitempty" yaml:"summary"`
	Duration int             `json:"duration" yaml:"duration"` // minutes
	Content  json.RawMessage `json:"content,omitempty" yaml:"-"`
	Quiz     []QuizQuestion  `json:"-" yaml:"quiz"`
}

// Module is an ordered group of lessons with optional prerequisite modules
type Module struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description,omitempty" yaml:"description"`
	Lessons       []Lesson `json:"lessons" yaml:"lessons"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

// HasLesson reports whether the lesson belongs to the module
func (m *Module) HasLesson(lessonID string) bool {
	for i := range m.Lessons {
		if m.Lessons[i].ID == lessonID {
			return true
		}
	}
	return false
}

// Catalog is a read-only, ordered collection of modules.
//
// A Catalog must be built with NewCatalog and is never mutated afterwards,
// so it can be shared between goroutines.
type Catalog struct {
	modules       []Module
	moduleIndex   map[string]int
	lessonIndex   map[string]lessonPosition
	lessonsNumber int
}

type lessonPosition struct {
	module int
	lesson int
}

// NewCatalog builds a catalog from the ordered modules.
//
// Module IDs and lesson IDs must be unique, lesson IDs across the entire catalog.
// Each lesson gets its ModuleID set to the owning module.
func NewCatalog(modules []Module) (*Catalog, error) {
	c := &Catalog{
		modules:     make([]Module, len(modules)),
		moduleIndex: make(map[string]int, len(modules)),
		lessonIndex: make(map[string]lessonPosition),
	}

	for i, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("module at position %d has empty id", i)
		}
		if _, ok := c.moduleIndex[m.ID]; ok {
			return nil, fmt.Errorf("duplicate module id: %s", m.ID)
		}

		lessons := make([]Lesson, len(m.Lessons))
		for j, l := range m.Lessons {
			if l.ID == "" {
				return nil, fmt.Errorf("lesson at position %d of module %s has empty id", j, m.ID)
			}
			if prev, ok := c.lessonIndex[l.ID]; ok {
				return nil, fmt.Errorf("duplicate lesson id %s in modules %s and %s", l.ID, modules[prev.module].ID, m.ID)
			}
			l.ModuleID = m.ID
			lessons[j] = l
			c.lessonIndex[l.ID] = lessonPosition{module: i, lesson: j}
		}

		m.Lessons = lessons
		m.Prerequisites = append([]string{}, m.Prerequisites...)
		c.modules[i] = m
		c.moduleIndex[m.ID] = i
		c.lessonsNumber += len(lessons)
	}

	return c, nil
}

// Modules returns the modules in catalog order
func (c *Catalog) Modules() []Module {
	return c.modules
}

// Module returns the module with the given ID
func (c *Catalog) Module(id string) (*Module, bool) {
	i, ok := c.moduleIndex[id]
	if !ok {
		return nil, false
	}
	return &c.modules[i], true
}

// Lesson returns the lesson with the given ID
func (c *Catalog) Lesson(id string) (*Lesson, bool) {
	pos, ok := c.lessonIndex[id]
	if !ok {
		return nil, false
	}
	return &c.modules[pos.module].Lessons[pos.lesson], true
}

// LessonsCount returns the number of lessons in the whole catalog
func (c *Catalog) LessonsCount() int {
	return c.lessonsNumber
}

// Neighbors returns the IDs of the previous and next lessons within the lesson's module.
// Empty strings mean there is no such lesson.
func (c *Catalog) Neighbors(lessonID string) (prev, next string) {
	pos, ok := c.lessonIndex[lessonID]
	if !ok {
		return "", ""
	}
	lessons := c.modules[pos.module].Lessons
	if pos.lesson > 0 {
		prev = lessons[pos.lesson-1].ID
	}
	if pos.lesson < len(lessons)-1 {
		next = lessons[pos.lesson+1].ID
	}
	return prev, next
}

// FindPrerequisiteCycle returns the module IDs forming a prerequisite cycle, or nil.
//
// Modules on a cycle can never be unlocked. Prerequisites pointing to unknown modules are ignored here.
func (c *Catalog) FindPrerequisiteCycle() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(c.modules))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = visiting
		stack = append(stack, id)
		m, _ := c.Module(id)
		for _, pre := range m.Prerequisites {
			if _, ok := c.moduleIndex[pre]; !ok {
				continue
			}
			switch state[pre] {
			case visiting:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == pre {
						cycle = append([]string{}, stack[i:]...)
						break
					}
				}
				return true
			case unvisited:
				if visit(pre) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, m := range c.modules {
		if state[m.ID] == unvisited && visit(m.ID) {
			return cycle
		}
	}
	return nil
}
