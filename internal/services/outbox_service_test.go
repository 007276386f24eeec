package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/models"
)

func TestProcessPending_CompletesTasks(t *testing.T) {
	repo := &mockOutboxRepository{}
	svc := NewOutboxService(repo)

	repo.mockFindPending = func(ctx context.Context, limit int) ([]models.OutboxTask, error) {
		return []models.OutboxTask{
			{ID: 1, TaskType: "demo", Payload: `{"n":1}`, Status: models.OutboxStatusPending},
			{ID: 2, TaskType: "demo", Payload: `{"n":2}`, Status: models.OutboxStatusPending},
		}, nil
	}

	var updated []models.OutboxTask
	repo.mockUpdate = func(ctx context.Context, task *models.OutboxTask) error {
		updated = append(updated, *task)
		return nil
	}

	var payloads []string
	svc.Register("demo", func(ctx context.Context, payload string) error {
		payloads = append(payloads, payload)
		return nil
	})

	done, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, done)
	assert.Equal(t, []string{`{"n":1}`, `{"n":2}`}, payloads)

	require.Len(t, updated, 2)
	for _, task := range updated {
		assert.Equal(t, models.OutboxStatusDone, task.Status)
		assert.NotNil(t, task.DoneAt)
		assert.Nil(t, task.LastError)
	}
}

func TestProcessPending_FailureBacksOff(t *testing.T) {
	repo := &mockOutboxRepository{}
	svc := NewOutboxService(repo)

	repo.mockFindPending = func(ctx context.Context, limit int) ([]models.OutboxTask, error) {
		return []models.OutboxTask{
			{ID: 1, TaskType: "demo", Status: models.OutboxStatusPending, Attempts: 1},
		}, nil
	}

	var updated *models.OutboxTask
	repo.mockUpdate = func(ctx context.Context, task *models.OutboxTask) error {
		updated = task
		return nil
	}

	svc.Register("demo", func(ctx context.Context, payload string) error {
		return errors.New("transient")
	})

	before := time.Now()
	done, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, done)

	require.NotNil(t, updated)
	assert.Equal(t, models.OutboxStatusPending, updated.Status)
	assert.Equal(t, 2, updated.Attempts)
	require.NotNil(t, updated.LastError)
	assert.Equal(t, "transient", *updated.LastError)
	// Second attempt pushes the task roughly two minutes out
	assert.True(t, updated.RunAfter.After(before.Add(time.Minute)))
}

func TestProcessPending_ExhaustedRetriesFail(t *testing.T) {
	repo := &mockOutboxRepository{}
	svc := NewOutboxService(repo)

	repo.mockFindPending = func(ctx context.Context, limit int) ([]models.OutboxTask, error) {
		return []models.OutboxTask{
			{ID: 1, TaskType: "demo", Status: models.OutboxStatusPending, Attempts: models.MaxOutboxAttempts - 1},
		}, nil
	}

	var updated *models.OutboxTask
	repo.mockUpdate = func(ctx context.Context, task *models.OutboxTask) error {
		updated = task
		return nil
	}

	svc.Register("demo", func(ctx context.Context, payload string) error {
		return errors.New("permanent")
	})

	_, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.OutboxStatusFailed, updated.Status)
	assert.Equal(t, models.MaxOutboxAttempts, updated.Attempts)
}

func TestProcessPending_UnknownTaskType(t *testing.T) {
	repo := &mockOutboxRepository{}
	svc := NewOutboxService(repo)

	repo.mockFindPending = func(ctx context.Context, limit int) ([]models.OutboxTask, error) {
		return []models.OutboxTask{
			{ID: 1, TaskType: "mystery", Status: models.OutboxStatusPending},
		}, nil
	}

	var updated *models.OutboxTask
	repo.mockUpdate = func(ctx context.Context, task *models.OutboxTask) error {
		updated = task
		return nil
	}

	done, err := svc.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, done)
	require.NotNil(t, updated)
	assert.Equal(t, models.OutboxStatusFailed, updated.Status)
}
