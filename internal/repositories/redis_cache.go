package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/go-redis/redis/v8"
)

const (
	catalogCacheKey        = "catalog:modules"
	progressSnapshotPrefix = "progress:snapshot:"
)

// RedisStore is the subset of the Redis client used by the caches.
// *redis.Client implements it.
type RedisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type progressSnapshotCache struct {
	redis RedisStore
	ttl   time.Duration
}

// NewProgressSnapshotCache creates a Redis backed store of learner progress snapshots
func NewProgressSnapshotCache(redis RedisStore, ttl time.Duration) *progressSnapshotCache {
	return &progressSnapshotCache{
		redis: redis,
		ttl:   ttl,
	}
}

// Get retrieves the learner's snapshot, or nil when there is none.
//
// completedLessons and achievements are accepted as an array of IDs, an object of ID flags or null.
func (c *progressSnapshotCache) Get(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	data, err := c.redis.Get(ctx, progressSnapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress snapshot: %w", err)
	}

	var progress models.LearnerProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress snapshot: %w", err)
	}
	progress.UserID = userID
	progress.Normalize()

	return &progress, nil
}

// Set stores the learner's snapshot, sets are always written as sorted arrays
func (c *progressSnapshotCache) Set(ctx context.Context, progress *models.LearnerProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress snapshot: %w", err)
	}
	if err := c.redis.Set(ctx, progressSnapshotKey(progress.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write progress snapshot: %w", err)
	}
	return nil
}

func progressSnapshotKey(userID int) string {
	return progressSnapshotPrefix + strconv.Itoa(userID)
}

type catalogCache struct {
	redis RedisStore
}

// NewCatalogCache creates a Redis backed catalog cache shared by all API instances
func NewCatalogCache(redis RedisStore) *catalogCache {
	return &catalogCache{
		redis: redis,
	}
}

// cachedLesson keeps quiz answers, which the API representation of a lesson hides
type cachedLesson struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Summary  string           `json:"summary,omitempty"`
	Duration int              `json:"duration"`
	Content  json.RawMessage  `json:"content,omitempty"`
	Quiz     []cachedQuestion `json:"quiz,omitempty"`
}

type cachedQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

type cachedModule struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Prerequisites []string       `json:"prerequisites"`
	Lessons       []cachedLesson `json:"lessons"`
}

// Get retrieves the cached modules, or nil on a miss
func (c *catalogCache) Get(ctx context.Context) ([]models.Module, error) {
	data, err := c.redis.Get(ctx, catalogCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	var cached []cachedModule
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode catalog cache: %w", err)
	}

	modules := make([]models.Module, 0, len(cached))
	for _, cm := range cached {
		m := models.Module{
			ID:            cm.ID,
			Title:         cm.Title,
			Description:   cm.Description,
			Prerequisites: cm.Prerequisites,
			Lessons:       make([]models.Lesson, 0, len(cm.Lessons)),
		}
		for _, cl := range cm.Lessons {
			l := models.Lesson{
				ID:       cl.ID,
				ModuleID: cm.ID,
				Title:    cl.Title,
				Summary:  cl.Summary,
				Duration: cl.Duration,
				Content:  cl.Content,
			}
			for _, q := range cl.Quiz {
				l.Quiz = append(l.Quiz, models.QuizQuestion{
					ID:            q.ID,
					Prompt:        q.Prompt,
					Options:       q.Options,
					CorrectOption: q.Correct,
				})
			}
			m.Lessons = append(m.Lessons, l)
		}
		modules = append(modules, m)
	}

	return modules, nil
}

// Set stores the modules for ttl
func (c *catalogCache) Set(ctx context.Context, modules []models.Module, ttl time.Duration) error {
	cached := make([]cachedModule, 0, len(modules))
	for _, m := range modules {
		cm := cachedModule{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Prerequisites: m.Prerequisites,
			Lessons:       make([]cachedLesson, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			cl := cachedLesson{
				ID:       l.ID,
				Title:    l.Title,
				Summary:  l.Summary,
				Duration: l.Duration,
				Content:  l.Content,
			}
			for _, q := range l.Quiz {
				cl.Quiz = append(cl.Quiz, cachedQuestion{
					ID:      q.ID,
					Prompt:  q.Prompt,
					Options: q.Options,
					Correct: q.CorrectOption,
				})
			}
			cm.Lessons = append(cm.Lessons, cl)
		}
		cached = append(cached, cm)
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache: %w", err)
	}
	if err := c.redis.Set(ctx, catalogCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}
