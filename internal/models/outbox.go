package models

import (
	"time"
)

// OutboxTask is a queued secondary side effect (fee collection, reminder
// email). Primary operations enqueue tasks instead of running side effects
// inline, so a failure is recorded and retriable rather than silently lost —
// and never aborts the already-committed primary operation.
type OutboxTask struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TaskType  string     `gorm:"not null;index" json:"task_type"`
	Payload   string     `gorm:"type:text;not null" json:"payload"` // JSON
	Status    string     `gorm:"default:pending;not null;index" json:"status"`
	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError *string    `gorm:"type:text" json:"last_error"`
	RunAfter  time.Time  `gorm:"index" json:"run_after"`
	DoneAt    *time.Time `json:"done_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for OutboxTask
func (OutboxTask) TableName() string {
	return "outbox_tasks"
}

// Outbox task status constants
const (
	OutboxStatusPending = "pending"
	OutboxStatusDone    = "done"
	OutboxStatusFailed  = "failed"
)

// Outbox task type constants
const (
	TaskTypeFeeCollection = "fee_collection"
)

// MaxOutboxAttempts is the retry budget before a task is parked as failed
const MaxOutboxAttempts = 5
