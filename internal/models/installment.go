package models

import (
	"time"
)

// Installment represents one scheduled payment of a project. Number 0 is the
// down payment due at signing; 1..N are the financed installments.
type Installment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ProjectID         uint       `gorm:"not null;index:idx_installments_project_number,unique" json:"project_id"`
	Number            int        `gorm:"column:installment_number;not null;index:idx_installments_project_number,unique" json:"installment_number"`
	Amount            float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate           time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	Status            string     `gorm:"default:pending;not null;index" json:"status"`
	PaidAmount        float64    `gorm:"type:decimal(15,2);default:0" json:"paid_amount"`
	PaidAt            *time.Time `json:"paid_at"`
	LateFeeAmount     float64    `gorm:"type:decimal(15,2);default:0" json:"late_fee_amount"`
	ReminderSentAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName specifies the table name for Installment
func (Installment) TableName() string {
	return "installments"
}

// Installment status constants
const (
	InstallmentStatusPending   = "pending"
	InstallmentStatusPaid      = "paid"
	InstallmentStatusOverdue   = "overdue"
	InstallmentStatusCancelled = "cancelled"
)

// IsDownPayment returns true for the synthetic installment 0
func (i *Installment) IsDownPayment() bool {
	return i.Number == 0
}

// IsOverdue returns true if the installment is unpaid and past due
func (i *Installment) IsOverdue() bool {
	if i.Status != InstallmentStatusPending && i.Status != InstallmentStatusOverdue {
		return false
	}
	return time.Now().After(i.DueDate)
}

// OverdueDays returns the number of days past the due date
func (i *Installment) OverdueDays() int {
	if !i.IsOverdue() {
		return 0
	}
	return int(time.Since(i.DueDate).Hours() / 24)
}

// MarkPaid records a payment on the installment
func (i *Installment) MarkPaid(amount float64, at time.Time) {
	i.Status = InstallmentStatusPaid
	i.PaidAmount = amount
	i.PaidAt = &at
}

// InstallmentResponse is the JSON response format for installments
type InstallmentResponse struct {
	ID            uint       `json:"id"`
	ProjectID     uint       `json:"project_id"`
	Number        int        `json:"installment_number"`
	Amount        float64    `json:"amount"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	PaidAmount    float64    `json:"paid_amount"`
	PaidAt        *time.Time `json:"paid_at"`
	LateFeeAmount float64    `json:"late_fee_amount"`
	OverdueDays   int        `json:"overdue_days"`
	IsDownPayment bool       `json:"is_down_payment"`
}

// ToResponse converts Installment to InstallmentResponse
func (i *Installment) ToResponse() InstallmentResponse {
	return InstallmentResponse{
		ID:            i.ID,
		ProjectID:     i.ProjectID,
		Number:        i.Number,
		Amount:        i.Amount,
		DueDate:       i.DueDate,
		Status:        i.Status,
		PaidAmount:    i.PaidAmount,
		PaidAt:        i.PaidAt,
		LateFeeAmount: i.LateFeeAmount,
		OverdueDays:   i.OverdueDays(),
		IsDownPayment: i.IsDownPayment(),
	}
}
