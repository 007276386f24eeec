package models

import (
	"time"
)

// ProjectContractor is a contractor or provider assigned to a project, with
// its own budget and payment schedule paid out of the project cash box.
type ProjectContractor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"not null;index" json:"project_id"`
	Name        string    `gorm:"not null" json:"name"`
	Trade       string    `json:"trade"` // plumbing, electrical, masonry...
	ContactInfo *string   `json:"contact_info"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Project     Project                `gorm:"foreignKey:ProjectID" json:"-"`
	BudgetItems []ContractorBudgetItem `gorm:"foreignKey:ProjectContractorID" json:"budget_items,omitempty"`
	Payments    []ContractorPayment    `gorm:"foreignKey:ProjectContractorID" json:"payments,omitempty"`
}

// TableName specifies the table name for ProjectContractor
func (ProjectContractor) TableName() string {
	return "project_contractors"
}

// BudgetTotal sums the loaded budget items
func (c *ProjectContractor) BudgetTotal() float64 {
	var total float64
	for _, item := range c.BudgetItems {
		total += item.TotalAmount
	}
	return total
}

// ContractorBudgetItem is one line of a contractor's budget
type ContractorBudgetItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ProjectContractorID uint      `gorm:"not null;index" json:"project_contractor_id"`
	Category            string    `gorm:"not null" json:"category"`
	Description         *string   `json:"description"`
	Quantity            float64   `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice           float64   `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TotalAmount         float64   `gorm:"type:decimal(15,2);not null" json:"total_amount"` // quantity × unit_price
	OrderIndex          int       `gorm:"default:0" json:"order_index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for ContractorBudgetItem
func (ContractorBudgetItem) TableName() string {
	return "contractor_budgets"
}

// ContractorPayment is a scheduled or ad-hoc payment to a contractor. It can
// transition to paid only when the project cash box holds enough balance in
// the payment's currency.
type ContractorPayment struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ProjectContractorID uint       `gorm:"not null;index" json:"project_contractor_id"`
	BudgetItemID        *uint      `gorm:"index" json:"budget_item_id"`
	Amount              float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency            string     `gorm:"default:ARS;not null" json:"currency"`
	Status              string     `gorm:"default:pending;not null;index" json:"status"`
	PaymentType         string     `gorm:"default:progress" json:"payment_type"`
	Description         *string    `json:"description"`
	DueDate             time.Time  `gorm:"type:date" json:"due_date"`
	PaidAt              *time.Time `json:"paid_at"`
	PaidBy              *string    `json:"paid_by"`
	ReceiptFileURL      *string    `json:"receipt_file_url"`
	MovementID          *uint      `gorm:"index" json:"movement_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Associations
	Contractor ProjectContractor `gorm:"foreignKey:ProjectContractorID" json:"contractor,omitempty"`
	Movement   *CashMovement     `gorm:"foreignKey:MovementID" json:"-"`
}

// TableName specifies the table name for ContractorPayment
func (ContractorPayment) TableName() string {
	return "contractor_payments"
}

// Contractor payment status constants
const (
	ContractorPaymentStatusPending   = "pending"
	ContractorPaymentStatusPaid      = "paid"
	ContractorPaymentStatusOverdue   = "overdue"
	ContractorPaymentStatusCancelled = "cancelled"
)

// Contractor payment type constants
const (
	ContractorPaymentTypeAdvance    = "advance"
	ContractorPaymentTypeProgress   = "progress"
	ContractorPaymentTypeFinal      = "final"
	ContractorPaymentTypeAdjustment = "adjustment"
)

// MayPay returns true if the payment can transition to paid
func (p *ContractorPayment) MayPay() bool {
	return p.Status == ContractorPaymentStatusPending || p.Status == ContractorPaymentStatusOverdue
}

// MayCancel returns true if the payment can be cancelled
func (p *ContractorPayment) MayCancel() bool {
	return p.Status == ContractorPaymentStatusPending || p.Status == ContractorPaymentStatusOverdue
}

// ContractorPaymentResponse is the JSON response format for contractor payments
type ContractorPaymentResponse struct {
	ID                  uint       `json:"id"`
	ProjectContractorID uint       `json:"project_contractor_id"`
	ContractorName      string     `json:"contractor_name,omitempty"`
	BudgetItemID        *uint      `json:"budget_item_id"`
	Amount              float64    `json:"amount"`
	Currency            string     `json:"currency"`
	Status              string     `json:"status"`
	PaymentType         string     `json:"payment_type"`
	Description         *string    `json:"description"`
	DueDate             time.Time  `json:"due_date"`
	PaidAt              *time.Time `json:"paid_at"`
	PaidBy              *string    `json:"paid_by"`
	ReceiptFileURL      *string    `json:"receipt_file_url"`
	MovementID          *uint      `json:"movement_id"`
	CreatedAt           time.Time  `json:"created_at"`
}

// ToResponse converts ContractorPayment to ContractorPaymentResponse
func (p *ContractorPayment) ToResponse() ContractorPaymentResponse {
	resp := ContractorPaymentResponse{
		ID:                  p.ID,
		ProjectContractorID: p.ProjectContractorID,
		BudgetItemID:        p.BudgetItemID,
		Amount:              p.Amount,
		Currency:            p.Currency,
		Status:              p.Status,
		PaymentType:         p.PaymentType,
		Description:         p.Description,
		DueDate:             p.DueDate,
		PaidAt:              p.PaidAt,
		PaidBy:              p.PaidBy,
		ReceiptFileURL:      p.ReceiptFileURL,
		MovementID:          p.MovementID,
		CreatedAt:           p.CreatedAt,
	}
	if p.Contractor.ID != 0 {
		resp.ContractorName = p.Contractor.Name
	}
	return resp
}
