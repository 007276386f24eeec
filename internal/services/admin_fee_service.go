package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/pkg/logger"
)

// AdminFeeService computes and collects administrator fees on received
// payments. Fee creation is synchronous with the payment; the transfer from
// master cash to admin cash runs best-effort through the outbox.
type AdminFeeService struct {
	feeRepo    repository.FeeRepository
	ledgerRepo repository.CashLedgerRepository
	outboxRepo repository.OutboxRepository
}

// NewAdminFeeService creates a new admin fee service
func NewAdminFeeService(
	feeRepo repository.FeeRepository,
	ledgerRepo repository.CashLedgerRepository,
	outboxRepo repository.OutboxRepository,
) *AdminFeeService {
	return &AdminFeeService{
		feeRepo:    feeRepo,
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
	}
}

// Compute returns the fee amount for a payment under the given configuration.
// Fixed and manual configurations charge the configured amount regardless of
// the base; only none produces no fee.
func (s *AdminFeeService) Compute(cfg models.FeeConfig, baseAmount float64) float64 {
	switch cfg.Type {
	case models.FeeTypePercentage:
		return math.Round(baseAmount*cfg.Percentage) / 100
	case models.FeeTypeFixed, models.FeeTypeManual:
		return cfg.FixedAmount
	default:
		return 0
	}
}

// feeCollectionPayload is the outbox payload for deferred fee collection
type feeCollectionPayload struct {
	FeeID uint `json:"fee_id"`
}

// ProcessForPayment creates the fee record for a received payment and queues
// its collection. A failure here never fails the payment: the fee row and the
// outbox task are both best-effort, and a returned warning lets the caller
// surface the degradation.
func (s *AdminFeeService) ProcessForPayment(ctx context.Context, project *models.Project, installmentID *uint, baseAmount float64) (*models.AdministratorFee, error) {
	cfg := project.FeeConfig()
	amount := s.Compute(cfg, baseAmount)
	if amount <= 0 {
		return nil, nil
	}

	fee := &models.AdministratorFee{
		ProjectID:     project.ID,
		InstallmentID: installmentID,
		BaseAmount:    baseAmount,
		Amount:        amount,
		Currency:      project.Currency,
		FeeType:       cfg.Type,
		Status:        models.FeeStatusCreated,
	}
	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(feeCollectionPayload{FeeID: fee.ID})
	if err != nil {
		return fee, err
	}
	task := &models.OutboxTask{
		TaskType: models.TaskTypeFeeCollection,
		Payload:  string(payload),
		Status:   models.OutboxStatusPending,
	}
	if err := s.outboxRepo.Enqueue(ctx, task); err != nil {
		logger.Error("failed to enqueue fee collection",
			slog.Uint64("fee_id", uint64(fee.ID)), slog.String("error", err.Error()))
		return fee, err
	}

	return fee, nil
}

// Collect transfers a created fee from master cash to admin cash.
func (s *AdminFeeService) Collect(ctx context.Context, feeID uint) error {
	fee, err := s.feeRepo.FindByID(ctx, feeID)
	if err != nil {
		return ErrNotFound
	}
	if fee.IsCollected() {
		return nil // idempotent: retried outbox tasks are a no-op
	}

	_, err = s.ledgerRepo.PostFeeCollection(ctx, fee)
	if err != nil {
		return err
	}

	logger.Info("administrator fee collected",
		slog.Uint64("fee_id", uint64(fee.ID)),
		slog.Uint64("project_id", uint64(fee.ProjectID)),
		slog.Float64("amount", fee.Amount))
	return nil
}

// CollectFromPayload decodes an outbox payload and collects the fee
func (s *AdminFeeService) CollectFromPayload(ctx context.Context, payload string) error {
	var p feeCollectionPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return err
	}
	return s.Collect(ctx, p.FeeID)
}
