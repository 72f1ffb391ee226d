package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/appcurriculum/backend/internal/models"
	"gopkg.in/yaml.v3"
)

type fileCatalog struct {
	path string
}

// NewFileCatalog creates a catalog source reading modules from a YAML file.
// The file is read on every LoadModules call, so edits are picked up on the next refresh.
func NewFileCatalog(path string) *fileCatalog {
	return &fileCatalog{
		path: path,
	}
}

type fileCatalogDocument struct {
	Modules []fileModule `yaml:"modules"`
}

type fileModule struct {
	ID            string       `yaml:"id"`
	Title         string       `yaml:"title"`
	Description   string       `yaml:"description"`
	Prerequisites []string     `yaml:"prerequisites"`
	Lessons       []fileLesson `yaml:"lessons"`
}

type fileLesson struct {
	models.Lesson `yaml:",inline"`
	Content       any `yaml:"content"`
}

// LoadModules reads the modules in file order
func (c *fileCatalog) LoadModules(ctx context.Context) ([]models.Module, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return ParseCatalogYAML(data)
}

// ParseCatalogYAML decodes a catalog document. Lesson content may be any YAML value and is kept as JSON.
func ParseCatalogYAML(data []byte) ([]models.Module, error) {
	var doc fileCatalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	modules := make([]models.Module, 0, len(doc.Modules))
	for _, fm := range doc.Modules {
		m := models.Module{
			ID:            fm.ID,
			Title:         fm.Title,
			Description:   fm.Description,
			Prerequisites: fm.Prerequisites,
			Lessons:       make([]models.Lesson, 0, len(fm.Lessons)),
		}
		if m.Prerequisites == nil {
			m.Prerequisites = []string{}
		}
		for _, fl := range fm.Lessons {
			l := fl.Lesson
			if fl.Content != nil {
				content, err := json.Marshal(fl.Content)
				if err != nil {
					return nil, fmt.Errorf("failed to encode content of lesson %s: %w", l.ID, err)
				}
				l.Content = content
			}
			m.Lessons = append(m.Lessons, l)
		}
		modules = append(modules, m)
	}

	return modules, nil
}
