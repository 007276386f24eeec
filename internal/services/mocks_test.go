package services

import (
	"context"
	"time"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
)

// Hand-written repository mocks. Each method delegates to an optional func
// field so tests only wire the calls they care about.

type mockProjectRepository struct {
	mockFindByID         func(ctx context.Context, id uint) (*models.Project, error)
	mockCreate           func(ctx context.Context, project *models.Project) error
	mockUpdate           func(ctx context.Context, project *models.Project) error
	mockSoftDelete       func(ctx context.Context, id uint) error
	mockHardDelete       func(ctx context.Context, id uint) error
	mockNextCodeSequence func(ctx context.Context, year int) (int, error)
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockProjectRepository) FindByCode(ctx context.Context, code string) (*models.Project, error) {
	return nil, nil
}
func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, project)
	}
	return nil
}
func (m *mockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, project)
	}
	return nil
}
func (m *mockProjectRepository) SoftDelete(ctx context.Context, id uint) error {
	if m.mockSoftDelete != nil {
		return m.mockSoftDelete(ctx, id)
	}
	return nil
}
func (m *mockProjectRepository) HardDelete(ctx context.Context, id uint) error {
	if m.mockHardDelete != nil {
		return m.mockHardDelete(ctx, id)
	}
	return nil
}
func (m *mockProjectRepository) List(ctx context.Context, query *repository.ProjectQuery) ([]models.Project, int64, error) {
	return nil, 0, nil
}
func (m *mockProjectRepository) NextCodeSequence(ctx context.Context, year int) (int, error) {
	if m.mockNextCodeSequence != nil {
		return m.mockNextCodeSequence(ctx, year)
	}
	return 1, nil
}
func (m *mockProjectRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

type mockClientRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.Client, error)
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.Client{ID: id, FullName: "Cliente de Prueba"}, nil
}
func (m *mockClientRepository) Create(ctx context.Context, client *models.Client) error  { return nil }
func (m *mockClientRepository) Update(ctx context.Context, client *models.Client) error  { return nil }
func (m *mockClientRepository) SoftDelete(ctx context.Context, id uint) error            { return nil }
func (m *mockClientRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return nil, 0, nil
}

type mockInstallmentRepository struct {
	mockFindByID               func(ctx context.Context, id uint) (*models.Installment, error)
	mockFindByProject          func(ctx context.Context, projectID uint) ([]models.Installment, error)
	mockFindByProjectAndNumber func(ctx context.Context, projectID uint, number int) (*models.Installment, error)
	mockCreateBatch            func(ctx context.Context, installments []models.Installment) error
	mockUpdate                 func(ctx context.Context, installment *models.Installment) error
	mockFindOverduePending     func(ctx context.Context, asOf time.Time) ([]models.Installment, error)
	mockFindUnpaidPastDue      func(ctx context.Context, asOf time.Time) ([]models.Installment, error)
	mockMarkReminderSent       func(ctx context.Context, id uint, at time.Time) error
	mockCancelPendingByProject func(ctx context.Context, projectID uint) error
}

func (m *mockInstallmentRepository) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockInstallmentRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Installment, error) {
	if m.mockFindByProject != nil {
		return m.mockFindByProject(ctx, projectID)
	}
	return nil, nil
}
func (m *mockInstallmentRepository) FindByProjectAndNumber(ctx context.Context, projectID uint, number int) (*models.Installment, error) {
	if m.mockFindByProjectAndNumber != nil {
		return m.mockFindByProjectAndNumber(ctx, projectID, number)
	}
	return nil, nil
}
func (m *mockInstallmentRepository) CreateBatch(ctx context.Context, installments []models.Installment) error {
	if m.mockCreateBatch != nil {
		return m.mockCreateBatch(ctx, installments)
	}
	return nil
}
func (m *mockInstallmentRepository) Update(ctx context.Context, installment *models.Installment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, installment)
	}
	return nil
}
func (m *mockInstallmentRepository) FindOverduePending(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
	if m.mockFindOverduePending != nil {
		return m.mockFindOverduePending(ctx, asOf)
	}
	return nil, nil
}
func (m *mockInstallmentRepository) FindUnpaidPastDue(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
	if m.mockFindUnpaidPastDue != nil {
		return m.mockFindUnpaidPastDue(ctx, asOf)
	}
	return nil, nil
}
func (m *mockInstallmentRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	if m.mockMarkReminderSent != nil {
		return m.mockMarkReminderSent(ctx, id, at)
	}
	return nil
}
func (m *mockInstallmentRepository) CancelPendingByProject(ctx context.Context, projectID uint) error {
	if m.mockCancelPendingByProject != nil {
		return m.mockCancelPendingByProject(ctx, projectID)
	}
	return nil
}

type mockCashLedgerRepository struct {
	mockCreateProjectCashBox func(ctx context.Context, projectID uint) (*models.ProjectCashBox, error)
	mockFindCashBoxByProject func(ctx context.Context, projectID uint) (*models.ProjectCashBox, error)
	mockPostProjectIncome    func(ctx context.Context, posting repository.IncomePosting) (*models.CashMovement, error)
	mockPostProjectExpense   func(ctx context.Context, posting repository.ExpensePosting) (*models.CashMovement, error)
	mockPostFeeCollection    func(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error)
}

func (m *mockCashLedgerRepository) CreateProjectCashBox(ctx context.Context, projectID uint) (*models.ProjectCashBox, error) {
	if m.mockCreateProjectCashBox != nil {
		return m.mockCreateProjectCashBox(ctx, projectID)
	}
	return &models.ProjectCashBox{ProjectID: projectID}, nil
}
func (m *mockCashLedgerRepository) FindCashBoxByProject(ctx context.Context, projectID uint) (*models.ProjectCashBox, error) {
	if m.mockFindCashBoxByProject != nil {
		return m.mockFindCashBoxByProject(ctx, projectID)
	}
	return &models.ProjectCashBox{ProjectID: projectID}, nil
}
func (m *mockCashLedgerRepository) GetMasterCash(ctx context.Context) (*models.MasterCash, error) {
	return nil, nil
}
func (m *mockCashLedgerRepository) GetAdminCash(ctx context.Context) (*models.AdminCash, error) {
	return nil, nil
}
func (m *mockCashLedgerRepository) PostProjectIncome(ctx context.Context, posting repository.IncomePosting) (*models.CashMovement, error) {
	if m.mockPostProjectIncome != nil {
		return m.mockPostProjectIncome(ctx, posting)
	}
	return &models.CashMovement{ID: 1}, nil
}
func (m *mockCashLedgerRepository) PostProjectExpense(ctx context.Context, posting repository.ExpensePosting) (*models.CashMovement, error) {
	if m.mockPostProjectExpense != nil {
		return m.mockPostProjectExpense(ctx, posting)
	}
	return &models.CashMovement{ID: 1}, nil
}
func (m *mockCashLedgerRepository) PostFeeCollection(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error) {
	if m.mockPostFeeCollection != nil {
		return m.mockPostFeeCollection(ctx, fee)
	}
	return &models.CashMovement{ID: 2}, nil
}
func (m *mockCashLedgerRepository) ExchangeCurrency(ctx context.Context, posting repository.ExchangePosting) (*models.CashMovement, error) {
	return nil, nil
}
func (m *mockCashLedgerRepository) FindMovementsByProject(ctx context.Context, projectID uint) ([]models.CashMovement, error) {
	return nil, nil
}
func (m *mockCashLedgerRepository) ListMovements(ctx context.Context, query *repository.MovementQuery) ([]models.CashMovement, int64, error) {
	return nil, 0, nil
}
func (m *mockCashLedgerRepository) MonthlyCashFlow(ctx context.Context, months int) ([]repository.MonthlyFlow, error) {
	return nil, nil
}

type mockFeeRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.AdministratorFee, error)
	mockCreate   func(ctx context.Context, fee *models.AdministratorFee) error
	mockUpdate   func(ctx context.Context, fee *models.AdministratorFee) error
}

func (m *mockFeeRepository) FindByID(ctx context.Context, id uint) (*models.AdministratorFee, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockFeeRepository) FindByProject(ctx context.Context, projectID uint) ([]models.AdministratorFee, error) {
	return nil, nil
}
func (m *mockFeeRepository) FindByInstallment(ctx context.Context, installmentID uint) (*models.AdministratorFee, error) {
	return nil, nil
}
func (m *mockFeeRepository) Create(ctx context.Context, fee *models.AdministratorFee) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, fee)
	}
	return nil
}
func (m *mockFeeRepository) Update(ctx context.Context, fee *models.AdministratorFee) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, fee)
	}
	return nil
}
func (m *mockFeeRepository) SumCollected(ctx context.Context) (float64, error) { return 0, nil }

type mockOutboxRepository struct {
	mockEnqueue     func(ctx context.Context, task *models.OutboxTask) error
	mockFindPending func(ctx context.Context, limit int) ([]models.OutboxTask, error)
	mockUpdate      func(ctx context.Context, task *models.OutboxTask) error
}

func (m *mockOutboxRepository) Enqueue(ctx context.Context, task *models.OutboxTask) error {
	if m.mockEnqueue != nil {
		return m.mockEnqueue(ctx, task)
	}
	return nil
}
func (m *mockOutboxRepository) FindPending(ctx context.Context, limit int) ([]models.OutboxTask, error) {
	if m.mockFindPending != nil {
		return m.mockFindPending(ctx, limit)
	}
	return nil, nil
}
func (m *mockOutboxRepository) Update(ctx context.Context, task *models.OutboxTask) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, task)
	}
	return nil
}

type mockExchangeRateRepository struct {
	mockCreate func(ctx context.Context, rate *models.ExchangeRate) error
	mockLatest func(ctx context.Context) (*models.ExchangeRate, error)
}

func (m *mockExchangeRateRepository) Create(ctx context.Context, rate *models.ExchangeRate) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rate)
	}
	return nil
}
func (m *mockExchangeRateRepository) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	if m.mockLatest != nil {
		return m.mockLatest(ctx)
	}
	return nil, nil
}
func (m *mockExchangeRateRepository) History(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	return nil, nil
}

type mockContractorRepository struct {
	mockFindByID            func(ctx context.Context, id uint) (*models.ProjectContractor, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.ProjectContractor, error)
	mockCreate              func(ctx context.Context, contractor *models.ProjectContractor) error
	mockCreateBudgetItems   func(ctx context.Context, items []models.ContractorBudgetItem) error
}

func (m *mockContractorRepository) FindByID(ctx context.Context, id uint) (*models.ProjectContractor, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.ProjectContractor{ID: id}, nil
}
func (m *mockContractorRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.ProjectContractor, error) {
	if m.mockFindByIDWithDetails != nil {
		return m.mockFindByIDWithDetails(ctx, id)
	}
	return &models.ProjectContractor{ID: id}, nil
}
func (m *mockContractorRepository) FindByProject(ctx context.Context, projectID uint) ([]models.ProjectContractor, error) {
	return nil, nil
}
func (m *mockContractorRepository) Create(ctx context.Context, contractor *models.ProjectContractor) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, contractor)
	}
	return nil
}
func (m *mockContractorRepository) Update(ctx context.Context, contractor *models.ProjectContractor) error {
	return nil
}
func (m *mockContractorRepository) Delete(ctx context.Context, id uint) error { return nil }
func (m *mockContractorRepository) CreateBudgetItems(ctx context.Context, items []models.ContractorBudgetItem) error {
	if m.mockCreateBudgetItems != nil {
		return m.mockCreateBudgetItems(ctx, items)
	}
	return nil
}
func (m *mockContractorRepository) FindBudgetItems(ctx context.Context, contractorID uint) ([]models.ContractorBudgetItem, error) {
	return nil, nil
}

type mockContractorPaymentRepository struct {
	mockFindByID            func(ctx context.Context, id uint) (*models.ContractorPayment, error)
	mockCreate              func(ctx context.Context, payment *models.ContractorPayment) error
	mockUpdate              func(ctx context.Context, payment *models.ContractorPayment) error
	mockHardDelete          func(ctx context.Context, id uint) error
	mockSumPaidByContractor func(ctx context.Context, contractorID uint) (float64, error)
}

func (m *mockContractorPaymentRepository) FindByID(ctx context.Context, id uint) (*models.ContractorPayment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockContractorPaymentRepository) FindByContractor(ctx context.Context, contractorID uint) ([]models.ContractorPayment, error) {
	return nil, nil
}
func (m *mockContractorPaymentRepository) FindByProject(ctx context.Context, projectID uint) ([]models.ContractorPayment, error) {
	return nil, nil
}
func (m *mockContractorPaymentRepository) Create(ctx context.Context, payment *models.ContractorPayment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	return nil
}
func (m *mockContractorPaymentRepository) Update(ctx context.Context, payment *models.ContractorPayment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, payment)
	}
	return nil
}
func (m *mockContractorPaymentRepository) HardDelete(ctx context.Context, id uint) error {
	if m.mockHardDelete != nil {
		return m.mockHardDelete(ctx, id)
	}
	return nil
}
func (m *mockContractorPaymentRepository) SumPaidByContractor(ctx context.Context, contractorID uint) (float64, error) {
	if m.mockSumPaidByContractor != nil {
		return m.mockSumPaidByContractor(ctx, contractorID)
	}
	return 0, nil
}
