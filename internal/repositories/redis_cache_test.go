package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRedisStore is an in-memory RedisStore
type mockRedisStore struct {
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	lastKey string
}

func newMockRedisStore() *mockRedisStore {
	return &mockRedisStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *mockRedisStore) Get(ctx context.Context, key string) *redis.StringCmd {
	m.lastKey = key
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockRedisStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastKey = key
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	m.values[key] = fmt.Sprintf("%s", value)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestProgressSnapshotCache_SetGet(t *testing.T) {
	store := newMockRedisStore()
	cache := NewProgressSnapshotCache(store, time.Hour)

	lastActive := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	progress := models.NewLearnerProgress(42)
	progress.CompletedLessons = models.NewIDSet("af-2", "af-1")
	progress.Achievements = models.NewIDSet("first-lesson")
	progress.TotalTimeSpent = 13
	progress.Streak = 2
	progress.LastActive = &lastActive

	require.NoError(t, cache.Set(context.Background(), progress))
	assert.Equal(t, "progress:snapshot:42", store.lastKey)
	assert.Equal(t, time.Hour, store.ttls["progress:snapshot:42"])
	assert.Contains(t, store.values["progress:snapshot:42"], `"completedLessons":["af-1","af-2"]`)

	got, err := cache.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, progress, got)
}

func TestProgressSnapshotCache_Get(t *testing.T) {
	tests := []struct {
		name            string
		stored          string
		getErr          error
		expectedNil     bool
		expectedError   bool
		expectedLessons []string
	}{
		{
			name:        "miss",
			expectedNil: true,
		},
		{
			name:            "array sets",
			stored:          `{"completedLessons":["b","a"],"achievements":["first-lesson"]}`,
			expectedLessons: []string{"a", "b"},
		},
		{
			name:            "object sets",
			stored:          `{"completedLessons":{"a":true,"b":false,"c":1},"achievements":{}}`,
			expectedLessons: []string{"a", "c"},
		},
		{
			name:            "null sets",
			stored:          `{"completedLessons":null}`,
			expectedLessons: []string{},
		},
		{
			name:          "corrupt snapshot",
			stored:        `{"completedLessons":"a"}`,
			expectedError: true,
		},
		{
			name:          "redis error",
			getErr:        errors.New("connection refused"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockRedisStore()
			store.getErr = tt.getErr
			if tt.stored != "" {
				store.values["progress:snapshot:1"] = tt.stored
			}
			cache := NewProgressSnapshotCache(store, time.Hour)

			progress, err := cache.Get(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, progress)
				return
			}
			require.NoError(t, err)
			if tt.expectedNil {
				assert.Nil(t, progress)
				return
			}
			assert.Equal(t, 1, progress.UserID)
			assert.Equal(t, tt.expectedLessons, progress.CompletedLessons.Sorted())
			assert.NotNil(t, progress.Achievements)
		})
	}
}

func TestProgressSnapshotCache_SetError(t *testing.T) {
	store := newMockRedisStore()
	store.setErr = errors.New("connection refused")
	cache := NewProgressSnapshotCache(store, time.Hour)

	err := cache.Set(context.Background(), models.NewLearnerProgress(1))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write progress snapshot")
}

func TestCatalogCache_SetGet(t *testing.T) {
	store := newMockRedisStore()
	cache := NewCatalogCache(store)

	modules := []models.Module{
		{
			ID:            "app-fundamentals",
			Title:         "App Fundamentals",
			Description:   "Start here",
			Prerequisites: []string{},
			Lessons: []models.Lesson{
				{ID: "af-1", ModuleID: "app-fundamentals", Title: "Welcome", Duration: 5, Content: json.RawMessage(`{"body":"hi"}`)},
				{ID: "af-2", ModuleID: "app-fundamentals", Title: "Quiz", Duration: 3, Quiz: []models.QuizQuestion{
					{ID: "q1", Prompt: "Pick", Options: []string{"a", "b"}, CorrectOption: 1},
				}},
			},
		},
		{
			ID:            "study-techniques",
			Title:         "Study Techniques",
			Prerequisites: []string{"app-fundamentals"},
			Lessons:       []models.Lesson{},
		},
	}

	require.NoError(t, cache.Set(context.Background(), modules, 10*time.Minute))
	assert.Equal(t, 10*time.Minute, store.ttls["catalog:modules"])

	got, err := cache.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, modules, got)
	// quiz answers survive the round trip
	assert.Equal(t, 1, got[0].Lessons[1].Quiz[0].CorrectOption)
}

func TestCatalogCache_Get(t *testing.T) {
	t.Run("miss", func(t *testing.T) {
		cache := NewCatalogCache(newMockRedisStore())

		modules, err := cache.Get(context.Background())

		assert.NoError(t, err)
		assert.Nil(t, modules)
	})

	t.Run("redis error", func(t *testing.T) {
		store := newMockRedisStore()
		store.getErr = errors.New("connection refused")
		cache := NewCatalogCache(store)

		modules, err := cache.Get(context.Background())

		assert.Error(t, err)
		assert.Nil(t, modules)
	})

	t.Run("corrupt value", func(t *testing.T) {
		store := newMockRedisStore()
		store.values["catalog:modules"] = `{"not":"a list"}`
		cache := NewCatalogCache(store)

		modules, err := cache.Get(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode catalog cache")
		assert.Nil(t, modules)
	})
}
