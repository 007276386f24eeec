package models

import (
	"time"
)

// ExchangeRate is a snapshot of the ARS-per-USD rate from an external
// provider. The core treats the provider as an opaque read; rates are only
// ever applied through explicit currency_exchange movements.
type ExchangeRate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Rate      float64   `gorm:"type:decimal(12,4);not null" json:"rate"` // ARS per USD
	Source    string    `gorm:"not null" json:"source"`
	FetchedAt time.Time `gorm:"not null;index" json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ExchangeRate
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
