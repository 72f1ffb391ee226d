package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/stretchr/testify/require"
)

// fixedNow is Tuesday noon UTC, all tests run against it
var fixedNow = time.Date(2024, time.March, 12, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// testModules is a three module curriculum:
// app-fundamentals (af-1..af-3) -> study-techniques (st-1, st-2) -> mastery (ms-1)
// plus the standalone extras module without lessons.
func testModules() []models.Module {
	return []models.Module{
		{
			ID:    "app-fundamentals",
			Title: "App Fundamentals",
			Lessons: []models.Lesson{
				{ID: "af-1", Title: "Getting Started", Duration: 5},
				{ID: "af-2", Title: "Setting Goals", Duration: 8},
				{ID: "af-3", Title: "Tracking Progress", Duration: 7, Quiz: []models.QuizQuestion{
					{ID: "q1", Prompt: "When does your streak grow?", Options: []string{"Every lesson", "On consecutive days"}, CorrectOption: 1},
					{ID: "q2", Prompt: "What unlocks a module?", Options: []string{"Its prerequisites", "Waiting"}, CorrectOption: 0},
				}},
			},
		},
		{
			ID:            "study-techniques",
			Title:         "Study Techniques",
			Prerequisites: []string{"app-fundamentals"},
			Lessons: []models.Lesson{
				{ID: "st-1", Title: "Spaced Repetition", Duration: 10, Quiz: []models.QuizQuestion{
					{ID: "q1", Prompt: "Review when?", Options: []string{"Later", "Never"}, CorrectOption: 0},
				}},
				{ID: "st-2", Title: "Active Recall", Duration: 10},
			},
		},
		{
			ID:            "mastery",
			Title:         "Mastery",
			Prerequisites: []string{"study-techniques"},
			Lessons: []models.Lesson{
				{ID: "ms-1", Title: "Teaching Others", Duration: 30},
			},
		},
		{
			ID:    "extras",
			Title: "Extras",
		},
	}
}

func testCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	catalog, err := models.NewCatalog(testModules())
	require.NoError(t, err)
	return catalog
}

// mockPersister records every write
type mockPersister struct {
	mu           sync.Mutex
	completions  []models.LessonCompletion
	summaries    []models.ProgressSummary
	achievements []models.EarnedAchievement
	err          error
}

func (m *mockPersister) SaveCompletion(ctx context.Context, completion models.LessonCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, completion)
	return m.err
}

func (m *mockPersister) SaveSummary(ctx context.Context, summary models.ProgressSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, summary)
	return m.err
}

func (m *mockPersister) SaveAchievements(ctx context.Context, earned []models.EarnedAchievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements = append(m.achievements, earned...)
	return m.err
}

// mockCatalogProvider is a mock implementation of CatalogProvider
type mockCatalogProvider struct {
	catalog *models.Catalog
	err     error
}

func (m *mockCatalogProvider) Catalog(ctx context.Context) (*models.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	progress  map[int]*models.LearnerProgress
	earned    []models.EarnedAchievement
	err       error
	earnedErr error
	calls     int
}

func (m *mockProgressRepository) GetProgress(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.progress[userID]; ok {
		return p.Clone(), nil
	}
	return models.NewLearnerProgress(userID), nil
}

func (m *mockProgressRepository) GetEarnedAchievements(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	if m.earnedErr != nil {
		return nil, m.earnedErr
	}
	return m.earned, nil
}

// mockSnapshotCache is an in-memory ProgressSnapshotCache
type mockSnapshotCache struct {
	mu        sync.Mutex
	snapshots map[int]*models.LearnerProgress
	getErr    error
	setErr    error
}

func newMockSnapshotCache() *mockSnapshotCache {
	return &mockSnapshotCache{snapshots: make(map[int]*models.LearnerProgress)}
}

func (m *mockSnapshotCache) Get(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.snapshots[userID]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *mockSnapshotCache) Set(ctx context.Context, progress *models.LearnerProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.snapshots[progress.UserID] = progress.Clone()
	return nil
}

// mockCatalogSource is a mock implementation of CatalogSource
type mockCatalogSource struct {
	modules []models.Module
	err     error
	calls   int
}

func (m *mockCatalogSource) LoadModules(ctx context.Context) ([]models.Module, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

// mockCatalogCache is an in-memory CatalogCache
type mockCatalogCache struct {
	modules []models.Module
	ttl     time.Duration
	getErr  error
	setErr  error
	sets    int
}

func (m *mockCatalogCache) Get(ctx context.Context) ([]models.Module, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.modules, nil
}

func (m *mockCatalogCache) Set(ctx context.Context, modules []models.Module, ttl time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.modules = modules
	m.ttl = ttl
	return nil
}
