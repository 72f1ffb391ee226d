package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

type catalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *catalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

// LoadModules retrieves all modules ordered by position, each with its ordered lessons,
// lesson quizzes and prerequisites
func (r *catalogRepository) LoadModules(ctx context.Context) ([]models.Module, error) {
	modules, err := r.getModules(ctx)
	if err != nil {
		return nil, err
	}

	moduleIndex := make(map[string]int, len(modules))
	for i := range modules {
		moduleIndex[modules[i].ID] = i
	}

	if err := r.attachPrerequisites(ctx, modules, moduleIndex); err != nil {
		return nil, err
	}
	if err := r.attachLessons(ctx, modules, moduleIndex); err != nil {
		return nil, err
	}

	return modules, nil
}

func (r *catalogRepository) getModules(ctx context.Context) ([]models.Module, error) {
	query := `
		SELECT id, title, COALESCE(description, '')
		FROM modules
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var modules []models.Module
	for rows.Next() {
		var m models.Module
		if err := rows.Scan(&m.ID, &m.Title, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		m.Lessons = []models.Lesson{}
		m.Prerequisites = []string{}
		modules = append(modules, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating modules: %w", err)
	}

	return modules, nil
}

func (r *catalogRepository) attachPrerequisites(ctx context.Context, modules []models.Module, moduleIndex map[string]int) error {
	query := `
		SELECT module_id, prerequisite_id
		FROM module_prerequisites
		ORDER BY module_id, prerequisite_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query module prerequisites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var moduleID, prerequisiteID string
		if err := rows.Scan(&moduleID, &prerequisiteID); err != nil {
			return fmt.Errorf("failed to scan module prerequisite: %w", err)
		}
		i, ok := moduleIndex[moduleID]
		if !ok {
			continue
		}
		modules[i].Prerequisites = append(modules[i].Prerequisites, prerequisiteID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating module prerequisites: %w", err)
	}

	return nil
}

func (r *catalogRepository) attachLessons(ctx context.Context, modules []models.Module, moduleIndex map[string]int) error {
	quizzes, err := r.getQuizQuestions(ctx)
	if err != nil {
		return err
	}

	query := `
		SELECT id, module_id, title, COALESCE(summary, ''), duration, content
		FROM lessons
		ORDER BY module_id, position, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.Lesson
		var content []byte
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Summary, &l.Duration, &content); err != nil {
			return fmt.Errorf("failed to scan lesson: %w", err)
		}
		i, ok := moduleIndex[l.ModuleID]
		if !ok {
			r.logger.Warn("lesson skipped, module not found",
				zap.String("lesson_id", l.ID),
				zap.String("module_id", l.ModuleID),
			)
			continue
		}
		if len(content) > 0 {
			l.Content = json.RawMessage(content)
		}
		l.Quiz = quizzes[l.ID]
		modules[i].Lessons = append(modules[i].Lessons, l)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating lessons: %w", err)
	}

	return nil
}

// getQuizQuestions retrieves quiz questions grouped by lesson ID
func (r *catalogRepository) getQuizQuestions(ctx context.Context) (map[string][]models.QuizQuestion, error) {
	query := `
		SELECT id, lesson_id, prompt, options, correct_option
		FROM quiz_questions
		ORDER BY lesson_id, position, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz questions: %w", err)
	}
	defer rows.Close()

	quizzes := make(map[string][]models.QuizQuestion)
	for rows.Next() {
		var q models.QuizQuestion
		var lessonID string
		var options []byte
		if err := rows.Scan(&q.ID, &lessonID, &q.Prompt, &options, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options of quiz question %s: %w", q.ID, err)
		}
		quizzes[lessonID] = append(quizzes[lessonID], q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz questions: %w", err)
	}

	return quizzes, nil
}
