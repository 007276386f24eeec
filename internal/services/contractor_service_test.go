package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
)

func newContractorServiceForTest(
	repo *mockContractorRepository,
	paymentRepo *mockContractorPaymentRepository,
	projectRepo *mockProjectRepository,
	ledgerRepo *mockCashLedgerRepository,
) *ContractorService {
	return NewContractorService(repo, paymentRepo, projectRepo, ledgerRepo, NewAuditService(nil))
}

func TestRegisterContractor_RecomputesBudgetTotals(t *testing.T) {
	repo := &mockContractorRepository{}
	projectRepo := &mockProjectRepository{}
	svc := newContractorServiceForTest(repo, &mockContractorPaymentRepository{}, projectRepo, &mockCashLedgerRepository{})

	projectRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Project, error) {
		return &models.Project{ID: id, Code: "PRY-2026-001"}, nil
	}
	repo.mockCreate = func(ctx context.Context, contractor *models.ProjectContractor) error {
		contractor.ID = 8
		return nil
	}

	var saved []models.ContractorBudgetItem
	repo.mockCreateBudgetItems = func(ctx context.Context, items []models.ContractorBudgetItem) error {
		saved = items
		return nil
	}

	contractor, err := svc.Register(context.Background(), RegisterContractorInput{
		ProjectID: 11,
		Name:      "Electricidad Pérez",
		Trade:     "electricista",
		BudgetItems: []BudgetItemInput{
			{Category: "materiales", Quantity: 3, UnitPrice: 1500.55},
			{Category: "mano de obra", Quantity: 10, UnitPrice: 2000},
		},
		Actor: "tester",
	})
	require.NoError(t, err)

	require.Len(t, saved, 2)
	assert.Equal(t, uint(8), saved[0].ProjectContractorID)
	assert.InDelta(t, 4501.65, saved[0].TotalAmount, 0.001)
	assert.Equal(t, 0, saved[0].OrderIndex)
	assert.Equal(t, 20000.0, saved[1].TotalAmount)
	assert.Equal(t, 1, saved[1].OrderIndex)
	assert.Len(t, contractor.BudgetItems, 2)
}

func TestMarkAsPaid_InsufficientFunds(t *testing.T) {
	paymentRepo := &mockContractorPaymentRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := newContractorServiceForTest(&mockContractorRepository{}, paymentRepo, &mockProjectRepository{}, ledgerRepo)

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{
			ID:                  id,
			ProjectContractorID: 8,
			Amount:              50000,
			Currency:            models.CurrencyARS,
			Status:              models.ContractorPaymentStatusPending,
			Contractor:          models.ProjectContractor{ID: 8, ProjectID: 11, Name: "Electricidad Pérez"},
		}, nil
	}

	ledgerRepo.mockPostProjectExpense = func(ctx context.Context, posting repository.ExpensePosting) (*models.CashMovement, error) {
		return nil, &repository.InsufficientFundsError{
			ProjectID: posting.ProjectID,
			Currency:  posting.Currency,
			Required:  posting.Amount,
			Available: 12000,
		}
	}

	updateCalled := false
	paymentRepo.mockUpdate = func(ctx context.Context, payment *models.ContractorPayment) error {
		updateCalled = true
		return nil
	}

	paid, err := svc.MarkAsPaid(context.Background(), 3, PayInput{Actor: "tester"})
	assert.Nil(t, paid)

	var insufficient *repository.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(11), insufficient.ProjectID)
	assert.Equal(t, models.CurrencyARS, insufficient.Currency)
	assert.Equal(t, 38000.0, insufficient.Shortfall())
	assert.False(t, updateCalled, "the payment must stay untouched")
}

func TestMarkAsPaid_Success(t *testing.T) {
	paymentRepo := &mockContractorPaymentRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := newContractorServiceForTest(&mockContractorRepository{}, paymentRepo, &mockProjectRepository{}, ledgerRepo)

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{
			ID:                  id,
			ProjectContractorID: 8,
			Amount:              50000,
			Currency:            models.CurrencyARS,
			Status:              models.ContractorPaymentStatusPending,
			Contractor:          models.ProjectContractor{ID: 8, ProjectID: 11, Name: "Electricidad Pérez"},
		}, nil
	}
	ledgerRepo.mockPostProjectExpense = func(ctx context.Context, posting repository.ExpensePosting) (*models.CashMovement, error) {
		return &models.CashMovement{ID: 99}, nil
	}

	var updated *models.ContractorPayment
	paymentRepo.mockUpdate = func(ctx context.Context, payment *models.ContractorPayment) error {
		updated = payment
		return nil
	}

	paidBy := "arq. García"
	paid, err := svc.MarkAsPaid(context.Background(), 3, PayInput{PaidBy: &paidBy, Actor: "tester"})
	require.NoError(t, err)
	require.NotNil(t, paid)

	assert.Equal(t, models.ContractorPaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.MovementID)
	assert.Equal(t, uint(99), *paid.MovementID)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, &paidBy, paid.PaidBy)
	require.NotNil(t, updated)
}

func TestMarkAsPaid_AlreadyPaid(t *testing.T) {
	paymentRepo := &mockContractorPaymentRepository{}
	svc := newContractorServiceForTest(&mockContractorRepository{}, paymentRepo, &mockProjectRepository{}, &mockCashLedgerRepository{})

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{ID: id, Status: models.ContractorPaymentStatusPaid}, nil
	}

	_, err := svc.MarkAsPaid(context.Background(), 3, PayInput{Actor: "tester"})
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestRegisterAndPay_CompensatesOnFailure(t *testing.T) {
	repo := &mockContractorRepository{}
	paymentRepo := &mockContractorPaymentRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := newContractorServiceForTest(repo, paymentRepo, &mockProjectRepository{}, ledgerRepo)

	repo.mockFindByID = func(ctx context.Context, id uint) (*models.ProjectContractor, error) {
		return &models.ProjectContractor{ID: id, ProjectID: 11, Name: "Electricidad Pérez"}, nil
	}
	paymentRepo.mockCreate = func(ctx context.Context, payment *models.ContractorPayment) error {
		payment.ID = 3
		return nil
	}
	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{
			ID:                  id,
			ProjectContractorID: 8,
			Amount:              50000,
			Currency:            models.CurrencyARS,
			Status:              models.ContractorPaymentStatusPending,
		}, nil
	}
	ledgerRepo.mockPostProjectExpense = func(ctx context.Context, posting repository.ExpensePosting) (*models.CashMovement, error) {
		return nil, &repository.InsufficientFundsError{ProjectID: 11, Currency: models.CurrencyARS, Required: 50000, Available: 0}
	}

	var removedID uint
	paymentRepo.mockHardDelete = func(ctx context.Context, id uint) error {
		removedID = id
		return nil
	}

	_, err := svc.RegisterAndPay(context.Background(),
		SchedulePaymentInput{ContractorID: 8, Amount: 50000, DueDate: time.Now()},
		PayInput{Actor: "tester"})

	var insufficient *repository.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(3), removedID, "the created payment row must be removed")
}

func TestCancelPayment_OnlyPendingOrOverdue(t *testing.T) {
	paymentRepo := &mockContractorPaymentRepository{}
	svc := newContractorServiceForTest(&mockContractorRepository{}, paymentRepo, &mockProjectRepository{}, &mockCashLedgerRepository{})

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{ID: id, Status: models.ContractorPaymentStatusPaid}, nil
	}
	_, err := svc.CancelPayment(context.Background(), 3, "tester")
	assert.ErrorIs(t, err, ErrInvalidState)

	paymentRepo.mockFindByID = func(ctx context.Context, id uint) (*models.ContractorPayment, error) {
		return &models.ContractorPayment{ID: id, Status: models.ContractorPaymentStatusOverdue}, nil
	}
	payment, err := svc.CancelPayment(context.Background(), 3, "tester")
	require.NoError(t, err)
	assert.Equal(t, models.ContractorPaymentStatusCancelled, payment.Status)
}

func TestContractorProgress(t *testing.T) {
	repo := &mockContractorRepository{}
	paymentRepo := &mockContractorPaymentRepository{}
	svc := newContractorServiceForTest(repo, paymentRepo, &mockProjectRepository{}, &mockCashLedgerRepository{})

	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.ProjectContractor, error) {
		return &models.ProjectContractor{
			ID: id,
			BudgetItems: []models.ContractorBudgetItem{
				{TotalAmount: 30000},
				{TotalAmount: 20000},
			},
		}, nil
	}
	paymentRepo.mockSumPaidByContractor = func(ctx context.Context, contractorID uint) (float64, error) {
		return 12500, nil
	}

	progress, err := svc.Progress(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, progress.BudgetTotal)
	assert.Equal(t, 12500.0, progress.TotalPaid)
	assert.Equal(t, 25.0, progress.Percentage)
}
