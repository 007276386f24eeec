package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/pkg/logger"
)

// OverdueService runs the daily sweep: pending installments past their due
// date move to overdue and accrue the project's late fee, and clients with
// overdue installments get a reminder email.
type OverdueService struct {
	installmentRepo repository.InstallmentRepository
	clientRepo      repository.ClientRepository
	emailSvc        *EmailService
}

// NewOverdueService creates a new overdue service
func NewOverdueService(
	installmentRepo repository.InstallmentRepository,
	clientRepo repository.ClientRepository,
	emailSvc *EmailService,
) *OverdueService {
	return &OverdueService{
		installmentRepo: installmentRepo,
		clientRepo:      clientRepo,
		emailSvc:        emailSvc,
	}
}

// Sweep marks overdue installments and applies the late fee once, at the
// moment of transition. Returns how many installments were marked.
func (s *OverdueService) Sweep(ctx context.Context) (int, error) {
	installments, err := s.installmentRepo.FindOverduePending(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range installments {
		inst := &installments[i]
		inst.Status = models.InstallmentStatusOverdue
		if pct := inst.Project.LateFeePercentage; pct > 0 {
			inst.LateFeeAmount = math.Round(inst.Amount*pct) / 100
		}
		if err := s.installmentRepo.Update(ctx, inst); err != nil {
			logger.Error("failed to mark installment overdue",
				slog.Uint64("installment_id", uint64(inst.ID)),
				slog.String("error", err.Error()))
			continue
		}
		marked++
	}

	if marked > 0 {
		logger.Info(fmt.Sprintf("overdue sweep marked %d installments", marked))
	}
	return marked, nil
}

// reminderCooldown prevents re-sending the same reminder every day
const reminderCooldown = 7 * 24 * time.Hour

// SendReminders emails each client their overdue installments, grouped.
// Installments reminded within the cooldown window are skipped.
func (s *OverdueService) SendReminders(ctx context.Context) error {
	installments, err := s.installmentRepo.FindUnpaidPastDue(ctx, time.Now())
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-reminderCooldown)
	byClient := make(map[uint][]models.Installment)
	for _, inst := range installments {
		if inst.ReminderSentAt != nil && inst.ReminderSentAt.After(cutoff) {
			continue
		}
		byClient[inst.Project.ClientID] = append(byClient[inst.Project.ClientID], inst)
	}

	for clientID, group := range byClient {
		client, err := s.clientRepo.FindByID(ctx, clientID)
		if err != nil || client.IsDeleted() {
			continue
		}
		if err := s.emailSvc.SendOverdueReminder(ctx, client, group); err != nil {
			continue
		}
		now := time.Now()
		for _, inst := range group {
			s.installmentRepo.MarkReminderSent(ctx, inst.ID, now)
		}
	}
	return nil
}
