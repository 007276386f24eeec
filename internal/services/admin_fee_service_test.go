package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/models"
)

func TestCompute_Percentage(t *testing.T) {
	svc := NewAdminFeeService(&mockFeeRepository{}, &mockCashLedgerRepository{}, &mockOutboxRepository{})

	cfg := models.FeeConfig{Type: models.FeeTypePercentage, Percentage: 10}
	assert.Equal(t, 20000.0, svc.Compute(cfg, 200000))

	// Rounds to cents
	cfg.Percentage = 3.5
	assert.InDelta(t, 35.0, svc.Compute(cfg, 1000), 0.001)
	assert.InDelta(t, 0.35, svc.Compute(cfg, 10), 0.001)
}

func TestCompute_FixedManualAndNone(t *testing.T) {
	svc := NewAdminFeeService(&mockFeeRepository{}, &mockCashLedgerRepository{}, &mockOutboxRepository{})

	// fixed and manual both charge the configured amount, independent of base
	assert.Equal(t, 1500.0, svc.Compute(models.FeeConfig{Type: models.FeeTypeFixed, FixedAmount: 1500}, 99999))
	assert.Equal(t, 5000.0, svc.Compute(models.FeeConfig{Type: models.FeeTypeManual, FixedAmount: 5000}, 200000))
	assert.Equal(t, 0.0, svc.Compute(models.FeeConfig{Type: models.FeeTypeNone}, 99999))
	assert.Equal(t, 0.0, svc.Compute(models.FeeConfig{Type: ""}, 99999))
}

func TestProcessForPayment_CreatesFeeAndEnqueues(t *testing.T) {
	feeRepo := &mockFeeRepository{}
	outboxRepo := &mockOutboxRepository{}
	svc := NewAdminFeeService(feeRepo, &mockCashLedgerRepository{}, outboxRepo)

	feeRepo.mockCreate = func(ctx context.Context, fee *models.AdministratorFee) error {
		fee.ID = 42
		return nil
	}

	var enqueued *models.OutboxTask
	outboxRepo.mockEnqueue = func(ctx context.Context, task *models.OutboxTask) error {
		enqueued = task
		return nil
	}

	project := &models.Project{
		ID:                 7,
		Currency:           models.CurrencyUSD,
		AdminFeeType:       models.FeeTypePercentage,
		AdminFeePercentage: 12,
	}
	installmentID := uint(3)

	fee, err := svc.ProcessForPayment(context.Background(), project, &installmentID, 10000)
	require.NoError(t, err)
	require.NotNil(t, fee)

	assert.Equal(t, uint(42), fee.ID)
	assert.Equal(t, 1200.0, fee.Amount)
	assert.Equal(t, 10000.0, fee.BaseAmount)
	assert.Equal(t, models.CurrencyUSD, fee.Currency)
	assert.Equal(t, models.FeeStatusCreated, fee.Status)

	require.NotNil(t, enqueued, "collection task must be enqueued")
	assert.Equal(t, models.TaskTypeFeeCollection, enqueued.TaskType)

	var payload feeCollectionPayload
	require.NoError(t, json.Unmarshal([]byte(enqueued.Payload), &payload))
	assert.Equal(t, uint(42), payload.FeeID)
}

func TestProcessForPayment_NoFeeConfigured(t *testing.T) {
	outboxRepo := &mockOutboxRepository{}
	enqueueCalled := false
	outboxRepo.mockEnqueue = func(ctx context.Context, task *models.OutboxTask) error {
		enqueueCalled = true
		return nil
	}
	svc := NewAdminFeeService(&mockFeeRepository{}, &mockCashLedgerRepository{}, outboxRepo)

	project := &models.Project{ID: 7, Currency: models.CurrencyARS, AdminFeeType: models.FeeTypeNone}
	fee, err := svc.ProcessForPayment(context.Background(), project, nil, 10000)
	require.NoError(t, err)
	assert.Nil(t, fee)
	assert.False(t, enqueueCalled)
}

func TestCollect_Idempotent(t *testing.T) {
	feeRepo := &mockFeeRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := NewAdminFeeService(feeRepo, ledgerRepo, &mockOutboxRepository{})

	collected := models.FeeStatusCollected
	feeRepo.mockFindByID = func(ctx context.Context, id uint) (*models.AdministratorFee, error) {
		return &models.AdministratorFee{ID: id, Status: collected}, nil
	}

	postCalled := false
	ledgerRepo.mockPostFeeCollection = func(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error) {
		postCalled = true
		return &models.CashMovement{ID: 1}, nil
	}

	err := svc.Collect(context.Background(), 42)
	assert.NoError(t, err)
	assert.False(t, postCalled, "an already-collected fee must not be posted again")
}

func TestCollect_PostsTransfer(t *testing.T) {
	feeRepo := &mockFeeRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := NewAdminFeeService(feeRepo, ledgerRepo, &mockOutboxRepository{})

	feeRepo.mockFindByID = func(ctx context.Context, id uint) (*models.AdministratorFee, error) {
		return &models.AdministratorFee{ID: id, Amount: 500, Currency: models.CurrencyARS, Status: models.FeeStatusCreated}, nil
	}
	ledgerRepo.mockPostFeeCollection = func(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error) {
		return &models.CashMovement{ID: 9}, nil
	}

	err := svc.Collect(context.Background(), 42)
	assert.NoError(t, err)
}

func TestCollect_LedgerFailurePropagates(t *testing.T) {
	feeRepo := &mockFeeRepository{}
	ledgerRepo := &mockCashLedgerRepository{}
	svc := NewAdminFeeService(feeRepo, ledgerRepo, &mockOutboxRepository{})

	feeRepo.mockFindByID = func(ctx context.Context, id uint) (*models.AdministratorFee, error) {
		return &models.AdministratorFee{ID: id, Amount: 500, Currency: models.CurrencyARS, Status: models.FeeStatusCreated}, nil
	}
	boom := errors.New("db down")
	ledgerRepo.mockPostFeeCollection = func(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error) {
		return nil, boom
	}

	err := svc.Collect(context.Background(), 42)
	assert.ErrorIs(t, err, boom)
}
