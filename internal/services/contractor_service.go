package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/statemachine"
)

// BudgetItemInput is one budget line; the total is always recomputed from
// quantity and unit price, never trusted from the caller.
type BudgetItemInput struct {
	Category    string
	Description *string
	Quantity    float64
	UnitPrice   float64
}

// RegisterContractorInput creates a contractor with its budget
type RegisterContractorInput struct {
	ProjectID   uint
	Name        string
	Trade       string
	ContactInfo *string
	BudgetItems []BudgetItemInput
	Actor       string
}

// SchedulePaymentInput creates a contractor payment in pending state
type SchedulePaymentInput struct {
	ContractorID uint
	BudgetItemID *uint
	Amount       float64
	Currency     string
	PaymentType  string
	Description  *string
	DueDate      time.Time
	Actor        string
}

// PayInput confirms a contractor payment against the project cash box
type PayInput struct {
	PaidBy          *string
	PaymentMethod   *string
	ReferenceNumber *string
	ReceiptFileURL  *string
	Actor           string
}

// ContractorProgress summarizes how much of a contractor's budget is paid
type ContractorProgress struct {
	ContractorID uint    `json:"contractor_id"`
	BudgetTotal  float64 `json:"budget_total"`
	TotalPaid    float64 `json:"total_paid"`
	Percentage   float64 `json:"percentage"`
}

// ContractorService manages contractors, their budgets and their payments.
// Payments only leave pending when the project cash box covers them.
type ContractorService struct {
	repo        repository.ContractorRepository
	paymentRepo repository.ContractorPaymentRepository
	projectRepo repository.ProjectRepository
	ledgerRepo  repository.CashLedgerRepository
	auditSvc    *AuditService
}

// NewContractorService creates a new contractor service
func NewContractorService(
	repo repository.ContractorRepository,
	paymentRepo repository.ContractorPaymentRepository,
	projectRepo repository.ProjectRepository,
	ledgerRepo repository.CashLedgerRepository,
	auditSvc *AuditService,
) *ContractorService {
	return &ContractorService{
		repo:        repo,
		paymentRepo: paymentRepo,
		projectRepo: projectRepo,
		ledgerRepo:  ledgerRepo,
		auditSvc:    auditSvc,
	}
}

// FindByID gets a contractor with budget and payments preloaded
func (s *ContractorService) FindByID(ctx context.Context, id uint) (*models.ProjectContractor, error) {
	contractor, err := s.repo.FindByIDWithDetails(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return contractor, err
}

// FindByProject lists the contractors of a project
func (s *ContractorService) FindByProject(ctx context.Context, projectID uint) ([]models.ProjectContractor, error) {
	return s.repo.FindByProject(ctx, projectID)
}

// Register creates a contractor with its budget items
func (s *ContractorService) Register(ctx context.Context, input RegisterContractorInput) (*models.ProjectContractor, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: el nombre del contratista es obligatorio", ErrValidation)
	}
	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, ErrNotFound
	}
	if project.IsDeleted() {
		return nil, ErrProjectDeleted
	}

	contractor := &models.ProjectContractor{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Trade:       input.Trade,
		ContactInfo: input.ContactInfo,
	}
	if err := s.repo.Create(ctx, contractor); err != nil {
		return nil, err
	}

	items := make([]models.ContractorBudgetItem, 0, len(input.BudgetItems))
	for i, in := range input.BudgetItems {
		if in.Quantity < 0 || in.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: cantidad y precio unitario deben ser positivos", ErrValidation)
		}
		items = append(items, models.ContractorBudgetItem{
			ProjectContractorID: contractor.ID,
			Category:            in.Category,
			Description:         in.Description,
			Quantity:            in.Quantity,
			UnitPrice:           in.UnitPrice,
			TotalAmount:         math.Round(in.Quantity*in.UnitPrice*100) / 100,
			OrderIndex:          i,
		})
	}
	if err := s.repo.CreateBudgetItems(ctx, items); err != nil {
		return nil, err
	}
	contractor.BudgetItems = items

	s.auditSvc.Log(ctx, input.Actor, "CREATE", "Contractor", contractor.ID,
		fmt.Sprintf("Contratista %s registrado en el proyecto %s", contractor.Name, project.Code), "")

	return contractor, nil
}

// SchedulePayment creates a pending payment for a contractor
func (s *ContractorService) SchedulePayment(ctx context.Context, input SchedulePaymentInput) (*models.ContractorPayment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", ErrValidation)
	}
	if input.Currency == "" {
		input.Currency = models.CurrencyARS
	}
	if !models.ValidCurrency(input.Currency) {
		return nil, ErrInvalidCurrency
	}
	if input.PaymentType == "" {
		input.PaymentType = models.ContractorPaymentTypeProgress
	}
	if _, err := s.repo.FindByID(ctx, input.ContractorID); err != nil {
		return nil, ErrNotFound
	}

	payment := &models.ContractorPayment{
		ProjectContractorID: input.ContractorID,
		BudgetItemID:        input.BudgetItemID,
		Amount:              input.Amount,
		Currency:            input.Currency,
		Status:              models.ContractorPaymentStatusPending,
		PaymentType:         input.PaymentType,
		Description:         input.Description,
		DueDate:             input.DueDate,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// MarkAsPaid confirms a pending payment. The expense posting validates funds
// inside its transaction: on insufficient balance the typed error propagates
// and the payment stays pending, untouched.
func (s *ContractorService) MarkAsPaid(ctx context.Context, paymentID uint, input PayInput) (*models.ContractorPayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if payment.Status == models.ContractorPaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}
	if !payment.MayPay() {
		return nil, ErrInvalidState
	}

	contractor := payment.Contractor
	if contractor.ID == 0 {
		found, err := s.repo.FindByID(ctx, payment.ProjectContractorID)
		if err != nil {
			return nil, err
		}
		contractor = *found
	}

	desc := fmt.Sprintf("Pago a contratista %s", contractor.Name)
	if payment.Description != nil && *payment.Description != "" {
		desc = fmt.Sprintf("%s: %s", desc, *payment.Description)
	}

	movement, err := s.ledgerRepo.PostProjectExpense(ctx, repository.ExpensePosting{
		ProjectID:       contractor.ProjectID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Description:     desc,
		PaymentMethod:   input.PaymentMethod,
		ReferenceNumber: input.ReferenceNumber,
		CreatedBy:       input.Actor,
	})
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewContractorPaymentFSM(payment)
	if err := fsm.Pay(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	payment.PaidAt = &now
	payment.PaidBy = input.PaidBy
	payment.ReceiptFileURL = input.ReceiptFileURL
	payment.MovementID = &movement.ID
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update paid payment: %w", err)
	}

	s.auditSvc.Log(ctx, input.Actor, "PAY", "ContractorPayment", payment.ID,
		fmt.Sprintf("Pago de %.2f %s a %s", payment.Amount, payment.Currency, contractor.Name), "")

	return payment, nil
}

// RegisterAndPay creates a payment and immediately confirms it. If the
// confirmation fails the created row is removed so no orphan pending
// payment survives the failed operation.
func (s *ContractorService) RegisterAndPay(ctx context.Context, schedule SchedulePaymentInput, pay PayInput) (*models.ContractorPayment, error) {
	payment, err := s.SchedulePayment(ctx, schedule)
	if err != nil {
		return nil, err
	}

	paid, err := s.MarkAsPaid(ctx, payment.ID, pay)
	if err != nil {
		if delErr := s.paymentRepo.HardDelete(ctx, payment.ID); delErr != nil {
			return nil, fmt.Errorf("payment failed (%v) and compensation failed: %w", err, delErr)
		}
		return nil, err
	}
	return paid, nil
}

// CancelPayment voids a pending or overdue payment
func (s *ContractorService) CancelPayment(ctx context.Context, paymentID uint, actor string) (*models.ContractorPayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewContractorPaymentFSM(payment)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "CANCEL", "ContractorPayment", payment.ID, "Pago cancelado", "")
	return payment, nil
}

// Progress computes how much of the contractor's budget has been paid
func (s *ContractorService) Progress(ctx context.Context, contractorID uint) (*ContractorProgress, error) {
	contractor, err := s.repo.FindByIDWithDetails(ctx, contractorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.SumPaidByContractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	progress := &ContractorProgress{
		ContractorID: contractor.ID,
		BudgetTotal:  contractor.BudgetTotal(),
		TotalPaid:    paid,
	}
	if progress.BudgetTotal > 0 {
		progress.Percentage = math.Round(paid/progress.BudgetTotal*100*100) / 100
	}
	return progress, nil
}
