package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogProvider is the interface that wraps the method for accessing the current catalog
type CatalogProvider interface {
	// Catalog returns the current read-only catalog.
	//
	// If the catalog cannot be loaded, the error will be returned together with "nil" value.
	Catalog(ctx context.Context) (*models.Catalog, error)
}

// ProgressRepository is the interface that wraps methods for reading persisted learner progress
type ProgressRepository interface {
	// GetProgress assembles the progress of a learner from completed lessons, the aggregate record and earned achievements.
	//
	// A learner without any record gets an empty progress, not an error.
	GetProgress(ctx context.Context, userID int) (*models.LearnerProgress, error)
	// GetEarnedAchievements retrieves the learner's earned achievements with the time they were earned.
	GetEarnedAchievements(ctx context.Context, userID int) ([]models.EarnedAchievement, error)
}

// ProgressSnapshotCache is the interface that wraps methods for the fast progress snapshot store
type ProgressSnapshotCache interface {
	// Get retrieves the learner's progress snapshot. On a miss "nil" is returned without error.
	Get(ctx context.Context, userID int) (*models.LearnerProgress, error)
	// Set stores the learner's progress snapshot.
	Set(ctx context.Context, progress *models.LearnerProgress) error
}

type progressService struct {
	catalog      CatalogProvider
	repo         ProgressRepository
	cache        ProgressSnapshotCache
	persister    ProgressPersister
	achievements []models.Achievement
	logger       *zap.Logger
	now          func() time.Time
	location     *time.Location
	locks        *learnerLocks
}

// NewProgressService creates a new progress service.
//
// "achievements" is the list of achievement definitions evaluated after every completion and activity.
// "location" decides calendar day boundaries for streaks.
func NewProgressService(
	catalog CatalogProvider,
	repo ProgressRepository,
	cache ProgressSnapshotCache,
	persister ProgressPersister,
	achievements []models.Achievement,
	logger *zap.Logger,
	location *time.Location,
) *progressService {
	return &progressService{
		catalog:      catalog,
		repo:         repo,
		cache:        cache,
		persister:    persister,
		achievements: achievements,
		logger:       logger,
		now:          time.Now,
		location:     location,
		locks:        newLearnerLocks(),
	}
}

// LoadProgress retrieves the learner's progress, preferring the snapshot cache over the repository.
// A cache miss is filled under the learner's lock so a stale repository read never replaces
// a snapshot written by a concurrent completion.
func (s *progressService) LoadProgress(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	if progress := s.cachedProgress(ctx, userID); progress != nil {
		return progress, nil
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	return s.loadProgress(ctx, userID)
}

// loadProgress is LoadProgress for callers already holding the learner's lock
func (s *progressService) loadProgress(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	if progress := s.cachedProgress(ctx, userID); progress != nil {
		return progress, nil
	}

	progress, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	progress.UserID = userID
	progress.Normalize()

	s.storeSnapshot(ctx, progress)
	return progress, nil
}

func (s *progressService) cachedProgress(ctx context.Context, userID int) *models.LearnerProgress {
	if s.cache == nil {
		return nil
	}
	progress, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to read progress snapshot", zap.Error(err), zap.Int("user_id", userID))
		return nil
	}
	if progress == nil {
		return nil
	}
	progress.UserID = userID
	progress.Normalize()
	return progress
}

// GetProgress retrieves the learner's progress view
func (s *progressService) GetProgress(ctx context.Context, userID int) (*models.ProgressResponse, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProgressView(catalog, progress), nil
}

// CompleteLesson records the lesson as completed, counts today's activity and awards reached achievements.
//
// An unknown lesson or module is not an error: the response has Recorded set to false and the progress is unchanged.
// A lesson in a locked module returns ErrModuleLocked.
func (s *progressService) CompleteLesson(ctx context.Context, userID int, lessonID string, req models.CompleteLessonRequest) (*models.CompleteLessonResponse, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	progress, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	store := NewProgressStore(catalog, progress, s.persister, s.logger, s.now, s.location)
	completedBefore := store.CompletedModules()
	if _, ok := catalog.Module(req.ModuleID); ok && !IsModuleUnlocked(catalog, req.ModuleID, completedBefore) {
		return nil, ErrModuleLocked
	}

	outcome := store.CompleteLesson(ctx, lessonID, req.ModuleID, req.MinutesSpent)
	response := &models.CompleteLessonResponse{
		Recorded:        outcome.Recorded,
		NewAchievements: []models.Achievement{},
		UnlockedModules: []string{},
	}
	if !outcome.Found {
		response.Progress = ProgressView(catalog, store.Snapshot())
		return response, nil
	}

	store.RecordActivity(ctx)
	if newly := store.EvaluateAchievements(ctx, s.achievements); newly != nil {
		response.NewAchievements = newly
	}

	if outcome.Recorded {
		completedAfter := store.CompletedModules()
		for _, m := range catalog.Modules() {
			if !IsModuleUnlocked(catalog, m.ID, completedBefore) && IsModuleUnlocked(catalog, m.ID, completedAfter) {
				response.UnlockedModules = append(response.UnlockedModules, m.ID)
			}
		}
	}

	snapshot := store.Snapshot()
	s.storeSnapshot(ctx, snapshot)
	response.Progress = ProgressView(catalog, snapshot)

	return response, nil
}

// RecordActivity counts today towards the learner's streak and awards reached streak achievements
func (s *progressService) RecordActivity(ctx context.Context, userID int) (*models.ActivityResponse, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	progress, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	store := NewProgressStore(catalog, progress, s.persister, s.logger, s.now, s.location)
	streak := store.RecordActivity(ctx)
	store.EvaluateAchievements(ctx, s.achievements)

	snapshot := store.Snapshot()
	s.storeSnapshot(ctx, snapshot)

	return &models.ActivityResponse{
		Streak:     streak,
		LastActive: snapshot.LastActive.Format(time.DateOnly),
	}, nil
}

// GetAchievements retrieves every achievement with the learner's status
func (s *progressService) GetAchievements(ctx context.Context, userID int) ([]models.AchievementStatus, error) {
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.LoadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	eval := EvaluateAchievements(progress, catalog, s.achievements)
	statuses := AchievementStatuses(s.achievements, eval, progress.Achievements)

	earned, err := s.repo.GetEarnedAchievements(ctx, userID)
	if err != nil {
		// earnedAt is decorative, the statuses are still correct without it
		s.logger.Warn("failed to get earned achievements", zap.Error(err), zap.Int("user_id", userID))
		return statuses, nil
	}
	earnedAt := make(map[string]time.Time, len(earned))
	for _, e := range earned {
		earnedAt[e.AchievementID] = e.EarnedAt
	}
	for i := range statuses {
		if t, ok := earnedAt[statuses[i].ID]; ok && statuses[i].Earned {
			statuses[i].EarnedAt = &t
		}
	}

	return statuses, nil
}

func (s *progressService) storeSnapshot(ctx context.Context, progress *models.LearnerProgress) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, progress); err != nil {
		s.logger.Warn("failed to store progress snapshot", zap.Error(err), zap.Int("user_id", progress.UserID))
	}
}

// learnerLocks serializes progress updates of the same learner within the process
type learnerLocks struct {
	mu    sync.Mutex
	locks map[int]*learnerLock
}

type learnerLock struct {
	sync.Mutex
	refs int
}

func newLearnerLocks() *learnerLocks {
	return &learnerLocks{locks: make(map[int]*learnerLock)}
}

// lock acquires the learner's lock and returns the function releasing it
func (l *learnerLocks) lock(userID int) func() {
	l.mu.Lock()
	lk, ok := l.locks[userID]
	if !ok {
		lk = &learnerLock{}
		l.locks[userID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
