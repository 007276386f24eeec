package models

import (
	"time"
)

// ProjectCashBox is the per-project ledger. ARS and USD are tracked as two
// fully independent balances; funds only cross between them through explicit
// currency_exchange movements.
type ProjectCashBox struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ProjectID         uint      `gorm:"uniqueIndex;not null" json:"project_id"`
	CurrentBalanceARS float64   `gorm:"type:decimal(15,2);default:0" json:"current_balance_ars"`
	CurrentBalanceUSD float64   `gorm:"type:decimal(15,2);default:0" json:"current_balance_usd"`
	TotalIncomeARS    float64   `gorm:"type:decimal(15,2);default:0" json:"total_income_ars"`
	TotalIncomeUSD    float64   `gorm:"type:decimal(15,2);default:0" json:"total_income_usd"`
	TotalExpenseARS   float64   `gorm:"type:decimal(15,2);default:0" json:"total_expense_ars"`
	TotalExpenseUSD   float64   `gorm:"type:decimal(15,2);default:0" json:"total_expense_usd"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for ProjectCashBox
func (ProjectCashBox) TableName() string {
	return "project_cash_box"
}

// BalanceFor returns the current balance in the given currency
func (b *ProjectCashBox) BalanceFor(currency string) float64 {
	if currency == CurrencyUSD {
		return b.CurrentBalanceUSD
	}
	return b.CurrentBalanceARS
}

// MasterCash is the single firm-wide ledger. Every project income is
// mirrored here as a duplicate movement (double cash-box system).
type MasterCash struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Balance      float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	TotalIncome  float64   `gorm:"type:decimal(15,2);default:0" json:"total_income"`
	TotalExpense float64   `gorm:"type:decimal(15,2);default:0" json:"total_expense"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for MasterCash
func (MasterCash) TableName() string {
	return "master_cash"
}

// AdminCash is the administrator pool that collected fees transfer into
type AdminCash struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Balance        float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	TotalCollected float64   `gorm:"type:decimal(15,2);default:0" json:"total_collected"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for AdminCash
func (AdminCash) TableName() string {
	return "admin_cash"
}
