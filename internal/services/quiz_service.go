package services

import (
	"context"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

// LessonCompleter is the interface that wraps the method for completing a lesson on behalf of a learner
type LessonCompleter interface {
	CompleteLesson(ctx context.Context, userID int, lessonID string, req models.CompleteLessonRequest) (*models.CompleteLessonResponse, error)
}

type quizService struct {
	catalog   CatalogProvider
	progress  ProgressLoader
	completer LessonCompleter
	logger    *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(catalog CatalogProvider, progress ProgressLoader, completer LessonCompleter, logger *zap.Logger) *quizService {
	return &quizService{
		catalog:   catalog,
		progress:  progress,
		completer: completer,
		logger:    logger,
	}
}

// GetQuiz retrieves the lesson's quiz without the correct answers
func (s *quizService) GetQuiz(ctx context.Context, userID int, lessonID string) (*models.QuizResponse, error) {
	lesson, err := s.accessibleLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	return &models.QuizResponse{
		LessonID:  lesson.ID,
		Questions: lesson.Quiz,
	}, nil
}

// SubmitQuiz scores the answers. A quiz passed with every answer correct completes the lesson,
// with the lesson duration credited as time spent.
func (s *quizService) SubmitQuiz(ctx context.Context, userID int, lessonID string, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	lesson, err := s.accessibleLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	score := ScoreQuiz(lesson.Quiz, req.Answers)
	response := &models.SubmitQuizResponse{
		CorrectCount: score.CorrectCount,
		Total:        score.Total,
		Passed:       score.Passed(),
	}

	s.logger.Debug("quiz submitted",
		zap.Int("user_id", userID),
		zap.String("lesson_id", lessonID),
		zap.Int("correct", score.CorrectCount),
		zap.Int("total", score.Total),
	)

	if !response.Passed {
		return response, nil
	}

	completion, err := s.completer.CompleteLesson(ctx, userID, lesson.ID, models.CompleteLessonRequest{
		ModuleID: lesson.ModuleID,
	})
	if err != nil {
		return nil, err
	}
	response.Completion = completion

	return response, nil
}

func (s *quizService) accessibleLesson(ctx context.Context, userID int, lessonID string) (*models.Lesson, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	lesson, ok := catalog.Lesson(lessonID)
	if !ok {
		return nil, ErrLessonNotFound
	}
	if len(lesson.Quiz) == 0 {
		return nil, ErrQuizNotFound
	}

	progress, err := s.progress.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsModuleUnlocked(catalog, lesson.ModuleID, CompletedModules(catalog, progress.CompletedLessons)) {
		return nil, ErrModuleLocked
	}

	return lesson, nil
}
