package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obra-studio/obra-api/internal/config"
	"github.com/obra-studio/obra-api/internal/models"
)

func newOverdueServiceForTest(installmentRepo *mockInstallmentRepository, clientRepo *mockClientRepository) *OverdueService {
	emailSvc := NewEmailService(&config.Config{FromEmail: "noreply@test.local"})
	return NewOverdueService(installmentRepo, clientRepo, emailSvc)
}

func TestSweep_AppliesLateFeeOnce(t *testing.T) {
	installmentRepo := &mockInstallmentRepository{}
	svc := newOverdueServiceForTest(installmentRepo, &mockClientRepository{})

	installmentRepo.mockFindOverduePending = func(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
		return []models.Installment{
			{ID: 1, Amount: 8000, Status: models.InstallmentStatusPending,
				Project: models.Project{ID: 11, LateFeePercentage: 5}},
			{ID: 2, Amount: 10000, Status: models.InstallmentStatusPending,
				Project: models.Project{ID: 12}},
		}, nil
	}

	var updated []models.Installment
	installmentRepo.mockUpdate = func(ctx context.Context, installment *models.Installment) error {
		updated = append(updated, *installment)
		return nil
	}

	marked, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	require.Len(t, updated, 2)
	assert.Equal(t, models.InstallmentStatusOverdue, updated[0].Status)
	assert.Equal(t, 400.0, updated[0].LateFeeAmount)

	// No late fee configured on the second project
	assert.Equal(t, models.InstallmentStatusOverdue, updated[1].Status)
	assert.Equal(t, 0.0, updated[1].LateFeeAmount)
}

func TestSweep_NothingOverdue(t *testing.T) {
	installmentRepo := &mockInstallmentRepository{}
	svc := newOverdueServiceForTest(installmentRepo, &mockClientRepository{})

	marked, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}

func TestSendReminders_CooldownSkipsRecent(t *testing.T) {
	installmentRepo := &mockInstallmentRepository{}
	clientRepo := &mockClientRepository{}
	svc := newOverdueServiceForTest(installmentRepo, clientRepo)

	recently := time.Now().Add(-time.Hour)
	longAgo := time.Now().Add(-30 * 24 * time.Hour)
	installmentRepo.mockFindUnpaidPastDue = func(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
		return []models.Installment{
			{ID: 1, Amount: 8000, Status: models.InstallmentStatusOverdue,
				ReminderSentAt: &recently, Project: models.Project{ClientID: 5}},
			{ID: 2, Amount: 9000, Status: models.InstallmentStatusOverdue,
				ReminderSentAt: &longAgo, Project: models.Project{ClientID: 5}},
		}, nil
	}

	// No email address: the send is a silent no-op and reminders still mark
	clientRepo.mockFindByID = func(ctx context.Context, id uint) (*models.Client, error) {
		return &models.Client{ID: id, FullName: "Cliente de Prueba"}, nil
	}

	var remindedIDs []uint
	installmentRepo.mockMarkReminderSent = func(ctx context.Context, id uint, at time.Time) error {
		remindedIDs = append(remindedIDs, id)
		return nil
	}

	require.NoError(t, svc.SendReminders(context.Background()))
	assert.Equal(t, []uint{2}, remindedIDs, "only the installment outside the cooldown gets reminded")
}
