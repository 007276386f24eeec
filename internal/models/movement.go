package models

import (
	"time"
)

// CashMovement is one row of the append-only movement log. Every balance
// change on any ledger must be backed by a movement row; movements are never
// updated or deleted. Corrections are inverse adjustment entries.
type CashMovement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MovementType    string    `gorm:"not null;index" json:"movement_type"`
	SourceType      string    `gorm:"not null" json:"source_type"`
	SourceID        *uint     `json:"source_id"`
	DestinationType string    `gorm:"not null" json:"destination_type"`
	DestinationID   *uint     `json:"destination_id"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"` // signed
	Currency        string    `gorm:"default:ARS;not null" json:"currency"`
	Description     string    `gorm:"not null" json:"description"`
	ProjectID       *uint     `gorm:"index" json:"project_id"`
	PaymentMethod   *string   `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number"`
	BankAccount     *string   `json:"bank_account"`
	RelatedMovement *uint     `json:"related_movement"` // pairs mirror/exchange legs
	CreatedBy       string    `gorm:"default:system" json:"created_by"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`

	// Associations
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName specifies the table name for CashMovement
func (CashMovement) TableName() string {
	return "cash_movements"
}

// Movement type constants
const (
	MovementTypeDownPayment       = "down_payment"
	MovementTypeMasterIncome      = "master_income"
	MovementTypeMasterDuplication = "master_duplication"
	MovementTypeFeeCollection     = "fee_collection"
	MovementTypeExpense           = "expense"
	MovementTypeTransfer          = "transfer"
	MovementTypeAdjustment        = "adjustment"
	MovementTypeCurrencyExchange  = "currency_exchange"
)

// Ledger party constants for polymorphic source/destination references
const (
	LedgerPartyExternal = "external"
	LedgerPartyProject  = "project"
	LedgerPartyMaster   = "master"
	LedgerPartyAdmin    = "admin"
)

// IsIncome returns true when the movement adds funds to its destination
func (m *CashMovement) IsIncome() bool {
	return m.Amount > 0
}

// CashMovementResponse is the JSON response format for movements
type CashMovementResponse struct {
	ID              uint      `json:"id"`
	MovementType    string    `json:"movement_type"`
	SourceType      string    `json:"source_type"`
	SourceID        *uint     `json:"source_id"`
	DestinationType string    `json:"destination_type"`
	DestinationID   *uint     `json:"destination_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Description     string    `json:"description"`
	ProjectID       *uint     `json:"project_id"`
	PaymentMethod   *string   `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number"`
	BankAccount     *string   `json:"bank_account"`
	RelatedMovement *uint     `json:"related_movement"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToResponse converts CashMovement to CashMovementResponse
func (m *CashMovement) ToResponse() CashMovementResponse {
	return CashMovementResponse{
		ID:              m.ID,
		MovementType:    m.MovementType,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		DestinationType: m.DestinationType,
		DestinationID:   m.DestinationID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		Description:     m.Description,
		ProjectID:       m.ProjectID,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		BankAccount:     m.BankAccount,
		RelatedMovement: m.RelatedMovement,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}
