package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/pkg/logger"
)

// OutboxHandler processes one task type's payload
type OutboxHandler func(ctx context.Context, payload string) error

// OutboxService drains the outbox table: side effects that must not fail
// their originating operation are enqueued as tasks and retried here with
// backoff until done or exhausted.
type OutboxService struct {
	repo     repository.OutboxRepository
	handlers map[string]OutboxHandler
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo repository.OutboxRepository) *OutboxService {
	return &OutboxService{
		repo:     repo,
		handlers: make(map[string]OutboxHandler),
	}
}

// Register binds a handler to a task type
func (s *OutboxService) Register(taskType string, handler OutboxHandler) {
	s.handlers[taskType] = handler
}

// ProcessPending runs one drain cycle over runnable pending tasks.
// Returns how many tasks completed.
func (s *OutboxService) ProcessPending(ctx context.Context) (int, error) {
	tasks, err := s.repo.FindPending(ctx, 50)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range tasks {
		task := &tasks[i]
		if err := s.processTask(ctx, task); err == nil {
			done++
		}
	}
	return done, nil
}

func (s *OutboxService) processTask(ctx context.Context, task *models.OutboxTask) error {
	handler, ok := s.handlers[task.TaskType]
	if !ok {
		task.Status = models.OutboxStatusFailed
		task.LastError = strPtr(fmt.Sprintf("no handler for task type %q", task.TaskType))
		s.repo.Update(ctx, task)
		return fmt.Errorf("no handler for task type %q", task.TaskType)
	}

	task.Attempts++
	if err := handler(ctx, task.Payload); err != nil {
		task.LastError = strPtr(err.Error())
		if task.Attempts >= models.MaxOutboxAttempts {
			task.Status = models.OutboxStatusFailed
			logger.Error("outbox task exhausted retries",
				slog.Uint64("task_id", uint64(task.ID)),
				slog.String("task_type", task.TaskType),
				slog.String("error", err.Error()))
		} else {
			// Linear backoff: each failure pushes the next attempt further out
			task.RunAfter = time.Now().Add(time.Duration(task.Attempts) * time.Minute)
		}
		if updErr := s.repo.Update(ctx, task); updErr != nil {
			return updErr
		}
		return err
	}

	now := time.Now()
	task.Status = models.OutboxStatusDone
	task.DoneAt = &now
	task.LastError = nil
	return s.repo.Update(ctx, task)
}

func strPtr(s string) *string {
	return &s
}
