package services

import (
	"context"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressPersister is the interface that wraps methods for storing learner progress changes.
//
// Implementations may store synchronously or hand the change over to a queue.
// The ProgressStore logs returned errors and keeps its in-memory state either way.
type ProgressPersister interface {
	// SaveCompletion stores a newly completed lesson.
	//
	// Saving the same (user, lesson) pair twice must not create a second record.
	SaveCompletion(ctx context.Context, completion models.LessonCompletion) error
	// SaveSummary stores the aggregate progress of a learner (total time, streak, activity dates).
	SaveSummary(ctx context.Context, summary models.ProgressSummary) error
	// SaveAchievements stores newly earned achievements. Stored achievements are never removed.
	SaveAchievements(ctx context.Context, earned []models.EarnedAchievement) error
}

// CompletionOutcome describes what CompleteLesson did
type CompletionOutcome struct {
	// Found is false when the module is unknown or does not contain the lesson
	Found bool
	// Recorded is true only when the lesson was not completed before
	Recorded        bool
	MinutesCredited int
}

// ProgressStore holds the progress of one learner for the duration of a session or request.
//
// It is not safe for concurrent use, callers serialize access per learner.
type ProgressStore struct {
	catalog   *models.Catalog
	progress  *models.LearnerProgress
	persister ProgressPersister
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
}

// NewProgressStore creates a store over the learner's progress.
//
// "now" supplies the current time and "location" decides calendar day boundaries for streaks.
// The store takes ownership of progress.
func NewProgressStore(
	catalog *models.Catalog,
	progress *models.LearnerProgress,
	persister ProgressPersister,
	logger *zap.Logger,
	now func() time.Time,
	location *time.Location,
) *ProgressStore {
	progress.Normalize()
	if location == nil {
		location = time.UTC
	}
	return &ProgressStore{
		catalog:   catalog,
		progress:  progress,
		persister: persister,
		logger:    logger,
		now:       now,
		location:  location,
	}
}

// CompleteLesson marks the lesson of the module as completed.
//
// An unknown module, or a lesson outside the module, leaves the state untouched and is only logged.
// Completing an already completed lesson changes nothing but the last access time.
// A new completion credits max(1, minutesSpent) minutes, or the lesson duration when minutesSpent is 0.
// Achievements and streaks are not evaluated here.
func (s *ProgressStore) CompleteLesson(ctx context.Context, lessonID, moduleID string, minutesSpent int) CompletionOutcome {
	module, ok := s.catalog.Module(moduleID)
	if !ok {
		s.logger.Warn("lesson completion ignored, module not found",
			zap.Int("user_id", s.progress.UserID),
			zap.String("module_id", moduleID),
			zap.String("lesson_id", lessonID),
		)
		return CompletionOutcome{}
	}
	if !module.HasLesson(lessonID) {
		s.logger.Warn("lesson completion ignored, lesson not found in module",
			zap.Int("user_id", s.progress.UserID),
			zap.String("module_id", moduleID),
			zap.String("lesson_id", lessonID),
		)
		return CompletionOutcome{}
	}

	now := s.now()
	s.progress.LastAccessed = &now

	if !s.progress.CompletedLessons.Add(lessonID) {
		s.saveSummary(ctx)
		return CompletionOutcome{Found: true}
	}

	credit := minutesSpent
	if credit <= 0 {
		lesson, _ := s.catalog.Lesson(lessonID)
		credit = lesson.Duration
	}
	if credit < 1 {
		credit = 1
	}
	s.progress.TotalTimeSpent += credit

	completion := models.LessonCompletion{
		UserID:       s.progress.UserID,
		LessonID:     lessonID,
		ModuleID:     moduleID,
		CompletedAt:  now,
		MinutesSpent: credit,
	}
	if err := s.persister.SaveCompletion(ctx, completion); err != nil {
		s.logger.Error("failed to persist lesson completion",
			zap.Error(err),
			zap.Int("user_id", s.progress.UserID),
			zap.String("lesson_id", lessonID),
		)
	}
	s.saveSummary(ctx)

	return CompletionOutcome{Found: true, Recorded: true, MinutesCredited: credit}
}

// RecordActivity counts today towards the learner's streak and returns the new streak.
// Recording activity several times on the same day is a no-op after the first call.
func (s *ProgressStore) RecordActivity(ctx context.Context) int {
	today := models.CalendarDay(s.now(), s.location)
	if s.progress.LastActive != nil && s.progress.LastActive.Equal(today) && s.progress.Streak > 0 {
		return s.progress.Streak
	}

	s.progress.Streak = UpdateStreak(s.progress.LastActive, today, s.progress.Streak)
	s.progress.LastActive = &today
	s.saveSummary(ctx)

	return s.progress.Streak
}

// EvaluateAchievements adds the achievements reached by the current state to the learner's earned set
// and returns the ones earned by this call. Call it after CompleteLesson and RecordActivity.
func (s *ProgressStore) EvaluateAchievements(ctx context.Context, defs []models.Achievement) []models.Achievement {
	eval := EvaluateAchievements(s.progress, s.catalog, defs)

	now := s.now()
	var newly []models.Achievement
	var records []models.EarnedAchievement
	for _, def := range defs {
		if !eval.Earned.Has(def.ID) || !s.progress.Achievements.Add(def.ID) {
			continue
		}
		newly = append(newly, def)
		records = append(records, models.EarnedAchievement{
			UserID:        s.progress.UserID,
			AchievementID: def.ID,
			EarnedAt:      now,
		})
	}

	if len(records) > 0 {
		if err := s.persister.SaveAchievements(ctx, records); err != nil {
			s.logger.Error("failed to persist earned achievements",
				zap.Error(err),
				zap.Int("user_id", s.progress.UserID),
				zap.Int("count", len(records)),
			)
		}
	}

	return newly
}

// ModuleProgress returns the percentage of every catalog module, recomputed from the completed lessons
func (s *ProgressStore) ModuleProgress() []models.ModuleProgressItem {
	return ModuleProgress(s.catalog, s.progress.CompletedLessons)
}

// CompletedModules returns the IDs of modules at 100%
func (s *ProgressStore) CompletedModules() models.IDSet {
	return CompletedModules(s.catalog, s.progress.CompletedLessons)
}

// Snapshot returns a copy of the current state
func (s *ProgressStore) Snapshot() *models.LearnerProgress {
	return s.progress.Clone()
}

func (s *ProgressStore) saveSummary(ctx context.Context) {
	if err := s.persister.SaveSummary(ctx, s.progress.Summary()); err != nil {
		s.logger.Error("failed to persist progress summary",
			zap.Error(err),
			zap.Int("user_id", s.progress.UserID),
		)
	}
}

// ProgressView builds the API view of a progress snapshot
func ProgressView(catalog *models.Catalog, progress *models.LearnerProgress) *models.ProgressResponse {
	view := &models.ProgressResponse{
		CompletedLessons: progress.CompletedLessons.Sorted(),
		ModuleProgress:   ModuleProgress(catalog, progress.CompletedLessons),
		TotalTimeSpent:   progress.TotalTimeSpent,
		Streak:           progress.Streak,
		Achievements:     progress.Achievements.Sorted(),
	}
	if progress.LastActive != nil {
		view.LastActive = progress.LastActive.Format(time.DateOnly)
	}
	return view
}
