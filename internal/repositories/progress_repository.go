package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appcurriculum/backend/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// GetProgress assembles the learner's progress from completions, the aggregate record and achievements.
// A learner without records gets an empty progress.
func (r *progressRepository) GetProgress(ctx context.Context, userID int) (*models.LearnerProgress, error) {
	progress := models.NewLearnerProgress(userID)

	lessons, err := r.getIDs(ctx, `SELECT lesson_id FROM lesson_completions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed lessons: %w", err)
	}
	progress.CompletedLessons = models.NewIDSet(lessons...)

	query := `
		SELECT total_time_spent, streak, last_active, last_accessed
		FROM learner_progress
		WHERE user_id = ?
	`
	var lastActive, lastAccessed sql.NullTime
	err = r.db.QueryRowContext(ctx, query, userID).Scan(
		&progress.TotalTimeSpent,
		&progress.Streak,
		&lastActive,
		&lastAccessed,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get progress summary: %w", err)
	}
	if lastActive.Valid {
		day := models.CalendarDay(lastActive.Time, time.UTC)
		progress.LastActive = &day
	}
	if lastAccessed.Valid {
		progress.LastAccessed = &lastAccessed.Time
	}

	achievements, err := r.getIDs(ctx, `SELECT achievement_id FROM learner_achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	progress.Achievements = models.NewIDSet(achievements...)

	return progress, nil
}

// GetEarnedAchievements retrieves the learner's earned achievements ordered by the time they were earned
func (r *progressRepository) GetEarnedAchievements(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	query := `
		SELECT achievement_id, earned_at
		FROM learner_achievements
		WHERE user_id = ?
		ORDER BY earned_at, achievement_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var earned []models.EarnedAchievement
	for rows.Next() {
		e := models.EarnedAchievement{UserID: userID}
		if err := rows.Scan(&e.AchievementID, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		earned = append(earned, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return earned, nil
}

// SaveCompletion stores a completed lesson. A second completion of the same lesson is ignored.
func (r *progressRepository) SaveCompletion(ctx context.Context, completion models.LessonCompletion) error {
	query := `
		INSERT IGNORE INTO lesson_completions (user_id, lesson_id, module_id, completed_at, minutes_spent)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		completion.UserID,
		completion.LessonID,
		completion.ModuleID,
		completion.CompletedAt,
		completion.MinutesSpent,
	)
	if err != nil {
		return fmt.Errorf("failed to save lesson completion: %w", err)
	}

	return nil
}

// SaveSummary upserts the aggregate progress record.
//
// Total time never decreases and activity dates never move backwards, so a late or repeated write
// cannot undo a newer one. The streak is taken only from a write that is not older than the stored day.
func (r *progressRepository) SaveSummary(ctx context.Context, summary models.ProgressSummary) error {
	// assignments are evaluated left to right, streak must read last_active before it is updated
	query := `
		INSERT INTO learner_progress (user_id, total_time_spent, streak, last_active, last_accessed)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_time_spent = GREATEST(total_time_spent, VALUES(total_time_spent)),
			streak = IF(last_active IS NULL OR VALUES(last_active) >= last_active, VALUES(streak), streak),
			last_active = IF(last_active IS NULL OR VALUES(last_active) > last_active, VALUES(last_active), last_active),
			last_accessed = IF(last_accessed IS NULL OR VALUES(last_accessed) > last_accessed, VALUES(last_accessed), last_accessed)
	`

	_, err := r.db.ExecContext(ctx, query,
		summary.UserID,
		summary.TotalTimeSpent,
		summary.Streak,
		nullableDate(summary.LastActive),
		nullableTime(summary.LastAccessed),
	)
	if err != nil {
		return fmt.Errorf("failed to save progress summary: %w", err)
	}

	return nil
}

// SaveAchievements stores earned achievements. Already stored achievements keep their original time.
func (r *progressRepository) SaveAchievements(ctx context.Context, earned []models.EarnedAchievement) error {
	if len(earned) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("(?, ?, ?), ", len(earned)), ", ")
	query := `INSERT IGNORE INTO learner_achievements (user_id, achievement_id, earned_at) VALUES ` + placeholders

	args := make([]any, 0, len(earned)*3)
	for _, e := range earned {
		args = append(args, e.UserID, e.AchievementID, e.EarnedAt)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}

	return nil
}

func (r *progressRepository) getIDs(ctx context.Context, query string, userID int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
