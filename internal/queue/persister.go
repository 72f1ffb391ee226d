// Package queue moves durable progress writes out of the request path.
//
// The API enqueues every progress change as an asynq task and the worker applies it to the database.
// All writes are idempotent, so asynq retries are safe.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appcurriculum/backend/internal/models"
	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeSaveCompletion   = "progress:completion"
	TypeSaveSummary      = "progress:summary"
	TypeSaveAchievements = "progress:achievements"
)

// QueueName is the asynq queue carrying progress writes
const QueueName = "progress"

const maxRetry = 10

// Enqueuer is the interface that wraps the method for submitting tasks.
// *asynq.Client implements it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type persister struct {
	client Enqueuer
}

// NewPersister creates a progress persister that enqueues writes for the worker
func NewPersister(client Enqueuer) *persister {
	return &persister{
		client: client,
	}
}

// SaveCompletion enqueues a lesson completion write
func (p *persister) SaveCompletion(ctx context.Context, completion models.LessonCompletion) error {
	return p.enqueue(ctx, TypeSaveCompletion, completion)
}

// SaveSummary enqueues an aggregate progress write
func (p *persister) SaveSummary(ctx context.Context, summary models.ProgressSummary) error {
	return p.enqueue(ctx, TypeSaveSummary, summary)
}

// SaveAchievements enqueues an earned achievements write
func (p *persister) SaveAchievements(ctx context.Context, earned []models.EarnedAchievement) error {
	if len(earned) == 0 {
		return nil
	}
	return p.enqueue(ctx, TypeSaveAchievements, earned)
}

func (p *persister) enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, data)
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(QueueName), asynq.MaxRetry(maxRetry)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}
