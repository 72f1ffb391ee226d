package services

import (
	"context"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressLoader is the interface that wraps the method for reading a learner's current progress
type ProgressLoader interface {
	// LoadProgress retrieves the learner's progress. A learner without records gets an empty progress.
	LoadProgress(ctx context.Context, userID int) (*models.LearnerProgress, error)
}

type moduleService struct {
	catalog  CatalogProvider
	progress ProgressLoader
	logger   *zap.Logger
}

// NewModuleService creates a new module service
func NewModuleService(catalog CatalogProvider, progress ProgressLoader, logger *zap.Logger) *moduleService {
	return &moduleService{
		catalog:  catalog,
		progress: progress,
		logger:   logger,
	}
}

// ListModules retrieves all modules in catalog order with the learner's percent and unlock status
func (s *moduleService) ListModules(ctx context.Context, userID int) ([]models.ModuleListItem, error) {
	catalog, progress, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedModules := CompletedModules(catalog, progress.CompletedLessons)
	modules := catalog.Modules()
	items := make([]models.ModuleListItem, 0, len(modules))
	for i := range modules {
		items = append(items, moduleListItem(catalog, &modules[i], progress.CompletedLessons, completedModules))
	}

	return items, nil
}

// GetModule retrieves the module with its lessons.
//
// Returns ErrModuleNotFound for an unknown module and ErrModuleLocked when its prerequisites are not completed.
func (s *moduleService) GetModule(ctx context.Context, userID int, moduleID string) (*models.ModuleDetailResponse, error) {
	catalog, progress, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	module, ok := catalog.Module(moduleID)
	if !ok {
		return nil, ErrModuleNotFound
	}
	completedModules := CompletedModules(catalog, progress.CompletedLessons)
	if !IsModuleUnlocked(catalog, moduleID, completedModules) {
		return nil, ErrModuleLocked
	}

	lessons := make([]models.LessonListItem, 0, len(module.Lessons))
	for _, l := range module.Lessons {
		lessons = append(lessons, models.LessonListItem{
			ID:        l.ID,
			Title:     l.Title,
			Summary:   l.Summary,
			Duration:  l.Duration,
			Completed: progress.CompletedLessons.Has(l.ID),
			HasQuiz:   len(l.Quiz) > 0,
		})
	}

	return &models.ModuleDetailResponse{
		Module:  moduleListItem(catalog, module, progress.CompletedLessons, completedModules),
		Lessons: lessons,
	}, nil
}

// GetLesson retrieves the lesson content with navigation to its neighbors.
//
// Returns ErrLessonNotFound for an unknown lesson and ErrModuleLocked when the lesson's module is locked.
func (s *moduleService) GetLesson(ctx context.Context, userID int, lessonID string) (*models.LessonDetailResponse, error) {
	catalog, progress, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	lesson, ok := catalog.Lesson(lessonID)
	if !ok {
		return nil, ErrLessonNotFound
	}
	if !IsModuleUnlocked(catalog, lesson.ModuleID, CompletedModules(catalog, progress.CompletedLessons)) {
		return nil, ErrModuleLocked
	}

	prev, next := catalog.Neighbors(lessonID)
	return &models.LessonDetailResponse{
		ID:         lesson.ID,
		ModuleID:   lesson.ModuleID,
		Title:      lesson.Title,
		Summary:    lesson.Summary,
		Duration:   lesson.Duration,
		Content:    lesson.Content,
		Completed:  progress.CompletedLessons.Has(lesson.ID),
		HasQuiz:    len(lesson.Quiz) > 0,
		PrevLesson: prev,
		NextLesson: next,
	}, nil
}

func (s *moduleService) load(ctx context.Context, userID int) (*models.Catalog, *models.LearnerProgress, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.progress.LoadProgress(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return catalog, progress, nil
}

func moduleListItem(catalog *models.Catalog, m *models.Module, completedLessons, completedModules models.IDSet) models.ModuleListItem {
	duration := 0
	for _, l := range m.Lessons {
		duration += l.Duration
	}
	prerequisites := m.Prerequisites
	if prerequisites == nil {
		prerequisites = []string{}
	}
	return models.ModuleListItem{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Prerequisites: prerequisites,
		TotalLessons:  len(m.Lessons),
		Duration:      duration,
		Percent:       ModulePercent(m, completedLessons),
		Completed:     completedModules.Has(m.ID),
		Unlocked:      IsModuleUnlocked(catalog, m.ID, completedModules),
	}
}
