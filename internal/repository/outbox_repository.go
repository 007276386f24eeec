package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// OutboxRepository defines the interface for outbox task data access
type OutboxRepository interface {
	Enqueue(ctx context.Context, task *models.OutboxTask) error
	FindPending(ctx context.Context, limit int) ([]models.OutboxTask, error)
	Update(ctx context.Context, task *models.OutboxTask) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, task *models.OutboxTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindPending returns runnable pending tasks, oldest first. Tasks with a
// future run_after are skipped until their backoff elapses.
func (r *outboxRepository) FindPending(ctx context.Context, limit int) ([]models.OutboxTask, error) {
	if limit <= 0 {
		limit = 50
	}
	var tasks []models.OutboxTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND run_after <= ?", models.OutboxStatusPending, time.Now()).
		Order("id ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *outboxRepository) Update(ctx context.Context, task *models.OutboxTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}
