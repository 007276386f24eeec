package models

import (
	"time"
)

// Administrator fee type constants
const (
	FeeTypePercentage = "percentage"
	FeeTypeFixed      = "fixed"
	FeeTypeManual     = "manual"
	FeeTypeNone       = "none"
)

// Administrator fee status constants
const (
	FeeStatusCreated   = "created"
	FeeStatusCollected = "collected"
)

// FeeConfig is the administrator fee configuration attached to a project
type FeeConfig struct {
	Type        string  `json:"type"`
	Percentage  float64 `json:"percentage,omitempty"`
	FixedAmount float64 `json:"fixed_amount,omitempty"`
}

// Valid returns true for a supported fee type with sane parameters
func (c FeeConfig) Valid() bool {
	switch c.Type {
	case FeeTypePercentage:
		return c.Percentage >= 0 && c.Percentage <= 100
	case FeeTypeFixed, FeeTypeManual:
		return c.FixedAmount >= 0
	case FeeTypeNone, "":
		return true
	}
	return false
}

// AdministratorFee is the commission the studio collects from the master
// ledger on a received payment. Lifecycle: created → collected.
type AdministratorFee struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ProjectID     uint       `gorm:"not null;index" json:"project_id"`
	InstallmentID *uint      `gorm:"index" json:"installment_id"`
	BaseAmount    float64    `gorm:"type:decimal(15,2);not null" json:"base_amount"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency      string     `gorm:"default:ARS;not null" json:"currency"`
	FeeType       string     `gorm:"not null" json:"fee_type"`
	Status        string     `gorm:"default:created;not null;index" json:"status"`
	CollectedAt   *time.Time `json:"collected_at"`
	MovementID    *uint      `json:"movement_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName specifies the table name for AdministratorFee
func (AdministratorFee) TableName() string {
	return "administrator_fees"
}

// IsCollected returns true once the fee has been transferred to admin cash
func (f *AdministratorFee) IsCollected() bool {
	return f.Status == FeeStatusCollected
}
