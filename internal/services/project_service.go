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

// ProjectCreationResult is the outcome of creating a project. Warnings carry
// non-fatal degradations (fee processing failures) so callers can surface
// them without treating the project as failed.
type ProjectCreationResult struct {
	Project      *models.Project
	CashBox      *models.ProjectCashBox
	Installments []models.Installment
	Warnings     []string
}

// CreateProjectInput is the validated input for project creation
type CreateProjectInput struct {
	ClientID              uint
	Name                  string
	TotalAmount           float64
	Currency              string
	DownPaymentAmount     float64
	DownPaymentPercentage float64
	InstallmentsCount     int
	PaymentFrequency      string
	FirstPaymentDate      time.Time
	LateFeePercentage     float64
	AdminFeeType          string
	AdminFeePercentage    float64
	AdminFeeFixedAmount   float64
	ConfirmDownPayment    bool
	PaymentMethod         *string
	ReferenceNumber       *string
	Actor                 string
}

// PaymentConfirmation carries the optional metadata of a received payment
type PaymentConfirmation struct {
	Amount          float64
	PaymentMethod   *string
	ReferenceNumber *string
	BankAccount     *string
	Actor           string
}

// ProjectProgress summarizes how much of a project has been collected
type ProjectProgress struct {
	ProjectID      uint       `json:"project_id"`
	TotalAmount    float64    `json:"total_amount"`
	TotalPaid      float64    `json:"total_paid"`
	Percentage     float64    `json:"percentage"`
	PaidCount      int        `json:"paid_installments"`
	PendingCount   int        `json:"pending_installments"`
	OverdueCount   int        `json:"overdue_installments"`
	CancelledCount int        `json:"cancelled_installments"`
	NextDueDate    *time.Time `json:"next_due_date,omitempty"`
	NextDueAmount  float64    `json:"next_due_amount,omitempty"`
}

// ProjectService orchestrates project lifecycle: creation with its cash box
// and schedule, payment confirmation against the dual ledger, status
// transitions and progress reporting.
type ProjectService struct {
	repo            repository.ProjectRepository
	clientRepo      repository.ClientRepository
	installmentRepo repository.InstallmentRepository
	ledgerRepo      repository.CashLedgerRepository
	feeSvc          *AdminFeeService
	auditSvc        *AuditService
	planner         *InstallmentPlanner
}

// NewProjectService creates a new project service
func NewProjectService(
	repo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	installmentRepo repository.InstallmentRepository,
	ledgerRepo repository.CashLedgerRepository,
	feeSvc *AdminFeeService,
	auditSvc *AuditService,
) *ProjectService {
	return &ProjectService{
		repo:            repo,
		clientRepo:      clientRepo,
		installmentRepo: installmentRepo,
		ledgerRepo:      ledgerRepo,
		feeSvc:          feeSvc,
		auditSvc:        auditSvc,
		planner:         NewInstallmentPlanner(),
	}
}

// FindByID gets a project by ID, including soft-deleted ones
func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return project, err
}

// List returns projects matching the query
func (s *ProjectService) List(ctx context.Context, query *repository.ProjectQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

// Installments returns the project schedule ordered by number
func (s *ProjectService) Installments(ctx context.Context, projectID uint) ([]models.Installment, error) {
	return s.installmentRepo.FindByProject(ctx, projectID)
}

// CashBox returns the project cash box
func (s *ProjectService) CashBox(ctx context.Context, projectID uint) (*models.ProjectCashBox, error) {
	return s.ledgerRepo.FindCashBoxByProject(ctx, projectID)
}

// Movements returns the project movement history, newest first
func (s *ProjectService) Movements(ctx context.Context, projectID uint) ([]models.CashMovement, error) {
	return s.ledgerRepo.FindMovementsByProject(ctx, projectID)
}

// Create builds a complete project: the project row with a generated code,
// its cash box, the installment schedule, and optionally the confirmed down
// payment. Cash box creation failure rolls the project back; a down payment
// or fee failure leaves the project standing and is reported as a warning.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*ProjectCreationResult, error) {
	if err := s.validateCreate(ctx, &input); err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project code: %w", err)
	}

	project := &models.Project{
		Code:                  code,
		ClientID:              input.ClientID,
		Name:                  input.Name,
		TotalAmount:           input.TotalAmount,
		Currency:              input.Currency,
		DownPaymentAmount:     input.DownPaymentAmount,
		DownPaymentPercentage: input.DownPaymentPercentage,
		InstallmentsCount:     input.InstallmentsCount,
		PaymentFrequency:      input.PaymentFrequency,
		FirstPaymentDate:      input.FirstPaymentDate,
		LateFeePercentage:     input.LateFeePercentage,
		AdminFeeType:          input.AdminFeeType,
		AdminFeePercentage:    input.AdminFeePercentage,
		AdminFeeFixedAmount:   input.AdminFeeFixedAmount,
		Status:                models.ProjectStatusActive,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	// The cash box is mandatory: without it no money can be received, so a
	// failure here undoes the project row entirely.
	cashBox, err := s.ledgerRepo.CreateProjectCashBox(ctx, project.ID)
	if err != nil {
		if delErr := s.repo.HardDelete(ctx, project.ID); delErr != nil {
			return nil, fmt.Errorf("failed to create cash box (%v) and rollback project: %w", err, delErr)
		}
		return nil, fmt.Errorf("failed to create project cash box: %w", err)
	}

	result := &ProjectCreationResult{Project: project, CashBox: cashBox}

	installments, err := s.planner.Plan(project)
	if err != nil {
		return nil, err
	}
	if err := s.installmentRepo.CreateBatch(ctx, installments); err != nil {
		return nil, fmt.Errorf("failed to create installments: %w", err)
	}
	result.Installments = installments

	if input.ConfirmDownPayment && project.DownPaymentAmount > 0 {
		err := s.ConfirmDownPayment(ctx, project.ID, PaymentConfirmation{
			Amount:          project.DownPaymentAmount,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Actor:           input.Actor,
		})
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("el anticipo no pudo confirmarse automáticamente: %v", err))
		} else {
			// Re-read so the result reflects the paid installment
			if refreshed, err := s.installmentRepo.FindByProject(ctx, project.ID); err == nil {
				result.Installments = refreshed
			}
			if box, err := s.ledgerRepo.FindCashBoxByProject(ctx, project.ID); err == nil {
				result.CashBox = box
			}
		}
	}

	s.auditSvc.Log(ctx, input.Actor, "CREATE", "Project", project.ID,
		fmt.Sprintf("Proyecto %s creado: %s por %.2f %s en %d cuotas",
			project.Code, project.Name, project.TotalAmount, project.Currency, project.InstallmentsCount), "")

	return result, nil
}

func (s *ProjectService) validateCreate(ctx context.Context, input *CreateProjectInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", ErrValidation)
	}
	if input.TotalAmount <= 0 {
		return fmt.Errorf("%w: el monto total debe ser mayor a cero", ErrValidation)
	}
	if !models.ValidCurrency(input.Currency) {
		return ErrInvalidCurrency
	}

	// Percentage wins when both are sent; the amount is derived from it.
	if input.DownPaymentPercentage > 0 {
		if input.DownPaymentPercentage > 100 {
			return fmt.Errorf("%w: el porcentaje de anticipo no puede superar 100", ErrValidation)
		}
		input.DownPaymentAmount = math.Round(input.TotalAmount*input.DownPaymentPercentage) / 100
	}
	if input.DownPaymentAmount < 0 || input.DownPaymentAmount > input.TotalAmount {
		return fmt.Errorf("%w: el anticipo debe estar entre cero y el monto total", ErrValidation)
	}

	if input.InstallmentsCount <= 0 {
		input.InstallmentsCount = 1
	}
	if input.PaymentFrequency == "" {
		input.PaymentFrequency = models.FrequencyMonthly
	}
	if !models.ValidFrequency(input.PaymentFrequency) {
		return fmt.Errorf("%w: frecuencia de pago inválida", ErrValidation)
	}
	if input.FirstPaymentDate.IsZero() {
		input.FirstPaymentDate = time.Now().AddDate(0, 1, 0)
	}
	if input.AdminFeeType == "" {
		input.AdminFeeType = models.FeeTypeNone
	}
	cfg := models.FeeConfig{
		Type:        input.AdminFeeType,
		Percentage:  input.AdminFeePercentage,
		FixedAmount: input.AdminFeeFixedAmount,
	}
	if !cfg.Valid() {
		return fmt.Errorf("%w: configuración de honorarios inválida", ErrValidation)
	}

	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return fmt.Errorf("%w: cliente %d", ErrNotFound, input.ClientID)
	}
	if client.IsDeleted() {
		return ErrClientDeleted
	}
	return nil
}

// generateCode produces the next sequential code for the current year, in
// the form PRY-2026-001.
func (s *ProjectService) generateCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	seq, err := s.repo.NextCodeSequence(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRY-%d-%03d", year, seq), nil
}

// ConfirmDownPayment records the down payment (installment 0) as received.
// This is the single path for down payment confirmation: both the creation
// flow and the manual endpoint land here, so the ledger postings and the
// fee processing cannot diverge.
func (s *ProjectService) ConfirmDownPayment(ctx context.Context, projectID uint, conf PaymentConfirmation) error {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	installment, err := s.installmentRepo.FindByProjectAndNumber(ctx, projectID, 0)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: el proyecto no tiene anticipo", ErrNotFound)
	}
	if err != nil {
		return err
	}
	if installment.Status == models.InstallmentStatusPaid {
		return ErrAlreadyPaid
	}
	if installment.Status == models.InstallmentStatusCancelled {
		return ErrInvalidState
	}

	amount := conf.Amount
	if amount <= 0 {
		amount = installment.Amount
	}

	return s.confirmInstallment(ctx, project, installment, amount, conf)
}

// ConfirmInstallment records a numbered installment as received, posting it
// to the dual ledger and processing the administrator fee.
func (s *ProjectService) ConfirmInstallment(ctx context.Context, projectID uint, number int, conf PaymentConfirmation) error {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	installment, err := s.installmentRepo.FindByProjectAndNumber(ctx, projectID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if installment.Status == models.InstallmentStatusPaid {
		return ErrAlreadyPaid
	}
	if installment.Status == models.InstallmentStatusCancelled {
		return ErrInvalidState
	}

	amount := conf.Amount
	if amount <= 0 {
		amount = installment.Amount + installment.LateFeeAmount
	}

	return s.confirmInstallment(ctx, project, installment, amount, conf)
}

func (s *ProjectService) confirmInstallment(ctx context.Context, project *models.Project, installment *models.Installment, amount float64, conf PaymentConfirmation) error {
	movementType := models.MovementTypeMasterIncome
	description := fmt.Sprintf("Cuota %d del proyecto %s", installment.Number, project.Code)
	if installment.IsDownPayment() {
		movementType = models.MovementTypeDownPayment
		description = fmt.Sprintf("Anticipo del proyecto %s", project.Code)
	}

	// The income posting duplicates into master cash atomically; if it fails
	// the installment stays pending.
	_, err := s.ledgerRepo.PostProjectIncome(ctx, repository.IncomePosting{
		ProjectID:       project.ID,
		Amount:          amount,
		Currency:        project.Currency,
		MovementType:    movementType,
		Description:     description,
		PaymentMethod:   conf.PaymentMethod,
		ReferenceNumber: conf.ReferenceNumber,
		BankAccount:     conf.BankAccount,
		CreatedBy:       conf.Actor,
	})
	if err != nil {
		return err
	}

	installment.MarkPaid(amount, time.Now())
	if err := s.installmentRepo.Update(ctx, installment); err != nil {
		return fmt.Errorf("failed to mark installment paid: %w", err)
	}

	// Fee processing is best-effort: the payment already stands.
	if _, err := s.feeSvc.ProcessForPayment(ctx, project, &installment.ID, amount); err != nil {
		s.auditSvc.Log(ctx, conf.Actor, "FEE_DEFERRED", "Installment", installment.ID,
			fmt.Sprintf("Honorarios pendientes de procesamiento: %v", err), "")
	}

	s.auditSvc.Log(ctx, conf.Actor, "CONFIRM", "Installment", installment.ID, description, "")
	return nil
}

// CalculateProgress recomputes collection progress from the installments.
// Paid amounts count regardless of current status so a later cancellation
// does not hide money already received.
func (s *ProjectService) CalculateProgress(ctx context.Context, projectID uint) (*ProjectProgress, error) {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	progress := &ProjectProgress{
		ProjectID:   project.ID,
		TotalAmount: project.TotalAmount,
	}

	for i := range installments {
		inst := &installments[i]
		progress.TotalPaid += inst.PaidAmount

		switch inst.Status {
		case models.InstallmentStatusPaid:
			progress.PaidCount++
		case models.InstallmentStatusOverdue:
			progress.OverdueCount++
		case models.InstallmentStatusCancelled:
			progress.CancelledCount++
		default:
			progress.PendingCount++
		}

		if inst.Status == models.InstallmentStatusPending || inst.Status == models.InstallmentStatusOverdue {
			if progress.NextDueDate == nil || inst.DueDate.Before(*progress.NextDueDate) {
				due := inst.DueDate
				progress.NextDueDate = &due
				progress.NextDueAmount = inst.Amount + inst.LateFeeAmount
			}
		}
	}

	// Whole-percent figure, the granularity the progress bar shows
	if project.TotalAmount > 0 {
		progress.Percentage = math.Round(progress.TotalPaid / project.TotalAmount * 100)
	}

	return progress, nil
}

// UpdateStatus transitions the project through its state machine
func (s *ProjectService) UpdateStatus(ctx context.Context, projectID uint, event, actor string) (*models.Project, error) {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewProjectFSM(project)
	switch event {
	case "activate":
		err = fsm.Activate(ctx)
	case "hold":
		err = fsm.Hold(ctx)
	case "complete":
		err = fsm.Complete(ctx)
	case "cancel":
		err = fsm.Cancel(ctx)
	default:
		return nil, fmt.Errorf("%w: evento desconocido %q", ErrInvalidState, event)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	// Cancelling a project voids its unpaid installments
	if project.Status == models.ProjectStatusCancelled {
		if err := s.installmentRepo.CancelPendingByProject(ctx, projectID); err != nil {
			return nil, err
		}
	}

	s.auditSvc.Log(ctx, actor, "STATUS", "Project", project.ID,
		fmt.Sprintf("Proyecto %s pasó a %s", project.Code, project.Status), "")

	return project, nil
}

// Delete soft-deletes a project. The row, its cash box and its movements
// remain for audit; the project just stops appearing in listings.
func (s *ProjectService) Delete(ctx context.Context, projectID uint, actor string) error {
	project, err := s.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.IsDeleted() {
		return ErrProjectDeleted
	}

	if err := s.repo.SoftDelete(ctx, projectID); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "DELETE", "Project", project.ID,
		fmt.Sprintf("Proyecto %s eliminado", project.Code), "")
	return nil
}
