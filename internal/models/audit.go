package models

import (
	"time"
)

// AuditLog represents a system audit entry for financial operations
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Actor     string    `gorm:"size:100" json:"actor"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, CONFIRM, PAY, CANCEL...
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Project, ContractorPayment, Fee
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
