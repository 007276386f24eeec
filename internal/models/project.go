package models

import (
	"time"
)

// Project represents a construction project under management
type Project struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Code                  string     `gorm:"uniqueIndex;not null" json:"code"`
	ClientID              uint       `gorm:"not null;index" json:"client_id"`
	Name                  string     `gorm:"not null" json:"name"`
	TotalAmount           float64    `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Currency              string     `gorm:"default:ARS;not null" json:"currency"`
	DownPaymentAmount     float64    `gorm:"type:decimal(15,2);default:0" json:"down_payment_amount"`
	DownPaymentPercentage float64    `gorm:"type:decimal(5,2);default:0" json:"down_payment_percentage"`
	InstallmentsCount     int        `gorm:"default:1" json:"installments_count"`
	PaymentFrequency      string     `gorm:"default:monthly" json:"payment_frequency"`
	FirstPaymentDate      time.Time  `gorm:"type:date" json:"first_payment_date"`
	LateFeePercentage     float64    `gorm:"type:decimal(5,2);default:0" json:"late_fee_percentage"`
	AdminFeeType          string     `gorm:"default:none" json:"admin_fee_type"`
	AdminFeePercentage    float64    `gorm:"type:decimal(5,2);default:0" json:"admin_fee_percentage"`
	AdminFeeFixedAmount   float64    `gorm:"type:decimal(15,2);default:0" json:"admin_fee_fixed_amount"`
	Status                string     `gorm:"default:draft;index" json:"status"`
	Phases                *string    `gorm:"type:text" json:"phases,omitempty"` // JSON blob, presentation-owned
	DeletedAt             *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Associations
	Client       Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CashBox      *ProjectCashBox  `gorm:"foreignKey:ProjectID" json:"cash_box,omitempty"`
	Installments []Installment    `gorm:"foreignKey:ProjectID" json:"installments,omitempty"`
	Movements    []CashMovement   `gorm:"foreignKey:ProjectID" json:"movements,omitempty"`
	Fees         []AdministratorFee `gorm:"foreignKey:ProjectID" json:"fees,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Project status constants
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Payment frequency constants
const (
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)

// ValidFrequency returns true for a supported payment frequency
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// IsDeleted returns true if the project has been soft-deleted
func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}

// FinancedAmount is the remainder paid in installments after the down payment
func (p *Project) FinancedAmount() float64 {
	return p.TotalAmount - p.DownPaymentAmount
}

// MayActivate returns true if the project can transition to active
func (p *Project) MayActivate() bool {
	return p.Status == ProjectStatusDraft || p.Status == ProjectStatusOnHold
}

// MayHold returns true if the project can be put on hold
func (p *Project) MayHold() bool {
	return p.Status == ProjectStatusActive
}

// MayComplete returns true if the project can be completed
func (p *Project) MayComplete() bool {
	return p.Status == ProjectStatusActive
}

// MayCancel returns true if the project can be cancelled
func (p *Project) MayCancel() bool {
	return p.Status == ProjectStatusDraft ||
		p.Status == ProjectStatusActive ||
		p.Status == ProjectStatusOnHold
}

// FeeConfig extracts the administrator fee configuration
func (p *Project) FeeConfig() FeeConfig {
	return FeeConfig{
		Type:        p.AdminFeeType,
		Percentage:  p.AdminFeePercentage,
		FixedAmount: p.AdminFeeFixedAmount,
	}
}

// ProjectResponse is the JSON response format for projects
type ProjectResponse struct {
	ID                    uint       `json:"id"`
	Code                  string     `json:"code"`
	ClientID              uint       `json:"client_id"`
	ClientName            string     `json:"client_name,omitempty"`
	Name                  string     `json:"name"`
	TotalAmount           float64    `json:"total_amount"`
	Currency              string     `json:"currency"`
	DownPaymentAmount     float64    `json:"down_payment_amount"`
	DownPaymentPercentage float64    `json:"down_payment_percentage"`
	InstallmentsCount     int        `json:"installments_count"`
	PaymentFrequency      string     `json:"payment_frequency"`
	LateFeePercentage     float64    `json:"late_fee_percentage"`
	AdminFeeType          string     `json:"admin_fee_type"`
	Status                string     `json:"status"`
	BalanceARS            float64    `json:"balance_ars"`
	BalanceUSD            float64    `json:"balance_usd"`
	DeletedAt             *time.Time `json:"deleted_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	Installments []InstallmentResponse `json:"installments,omitempty"`
}

// ToResponse converts Project to ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	resp := ProjectResponse{
		ID:                    p.ID,
		Code:                  p.Code,
		ClientID:              p.ClientID,
		Name:                  p.Name,
		TotalAmount:           p.TotalAmount,
		Currency:              p.Currency,
		DownPaymentAmount:     p.DownPaymentAmount,
		DownPaymentPercentage: p.DownPaymentPercentage,
		InstallmentsCount:     p.InstallmentsCount,
		PaymentFrequency:      p.PaymentFrequency,
		LateFeePercentage:     p.LateFeePercentage,
		AdminFeeType:          p.AdminFeeType,
		Status:                p.Status,
		DeletedAt:             p.DeletedAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}

	if p.Client.ID != 0 {
		resp.ClientName = p.Client.FullName
	}

	if p.CashBox != nil {
		resp.BalanceARS = p.CashBox.CurrentBalanceARS
		resp.BalanceUSD = p.CashBox.CurrentBalanceUSD
	}

	for _, inst := range p.Installments {
		resp.Installments = append(resp.Installments, inst.ToResponse())
	}

	return resp
}
