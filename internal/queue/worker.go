package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ProgressWriter is the interface that wraps methods for durable progress writes
type ProgressWriter interface {
	// SaveCompletion stores a completed lesson, ignoring a repeated completion.
	SaveCompletion(ctx context.Context, completion models.LessonCompletion) error
	// SaveSummary upserts the aggregate progress without moving totals or dates backwards.
	SaveSummary(ctx context.Context, summary models.ProgressSummary) error
	// SaveAchievements stores earned achievements, ignoring already stored ones.
	SaveAchievements(ctx context.Context, earned []models.EarnedAchievement) error
}

// Worker applies queued progress writes
type Worker struct {
	logger *zap.Logger
	writer ProgressWriter
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, writer ProgressWriter) *Worker {
	return &Worker{
		logger: logger,
		writer: writer,
	}
}

// Register registers the task handlers on the mux
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeSaveCompletion, w.HandleSaveCompletion)
	mux.HandleFunc(TypeSaveSummary, w.HandleSaveSummary)
	mux.HandleFunc(TypeSaveAchievements, w.HandleSaveAchievements)
}

// HandleSaveCompletion handles lesson completion writes
func (w *Worker) HandleSaveCompletion(ctx context.Context, t *asynq.Task) error {
	var completion models.LessonCompletion
	if err := decodePayload(t, &completion); err != nil {
		return err
	}

	if err := w.writer.SaveCompletion(ctx, completion); err != nil {
		w.logger.Error("Failed to save lesson completion",
			zap.Error(err),
			zap.Int("user_id", completion.UserID),
			zap.String("lesson_id", completion.LessonID),
		)
		return err
	}

	w.logger.Debug("Lesson completion saved", zap.Int("user_id", completion.UserID), zap.String("lesson_id", completion.LessonID))
	return nil
}

// HandleSaveSummary handles aggregate progress writes
func (w *Worker) HandleSaveSummary(ctx context.Context, t *asynq.Task) error {
	var summary models.ProgressSummary
	if err := decodePayload(t, &summary); err != nil {
		return err
	}

	if err := w.writer.SaveSummary(ctx, summary); err != nil {
		w.logger.Error("Failed to save progress summary", zap.Error(err), zap.Int("user_id", summary.UserID))
		return err
	}

	return nil
}

// HandleSaveAchievements handles earned achievements writes
func (w *Worker) HandleSaveAchievements(ctx context.Context, t *asynq.Task) error {
	var earned []models.EarnedAchievement
	if err := decodePayload(t, &earned); err != nil {
		return err
	}

	if err := w.writer.SaveAchievements(ctx, earned); err != nil {
		w.logger.Error("Failed to save achievements", zap.Error(err), zap.Int("count", len(earned)))
		return err
	}

	w.logger.Info("Achievements saved", zap.Int("count", len(earned)))
	return nil
}

// decodePayload decodes the task payload. A malformed payload is never retried.
func decodePayload(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
