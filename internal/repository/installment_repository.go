package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// InstallmentRepository defines the interface for installment data access
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Installment, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.Installment, error)
	FindByProjectAndNumber(ctx context.Context, projectID uint, number int) (*models.Installment, error)
	CreateBatch(ctx context.Context, installments []models.Installment) error
	Update(ctx context.Context, installment *models.Installment) error
	FindOverduePending(ctx context.Context, asOf time.Time) ([]models.Installment, error)
	FindUnpaidPastDue(ctx context.Context, asOf time.Time) ([]models.Installment, error)
	MarkReminderSent(ctx context.Context, id uint, at time.Time) error
	CancelPendingByProject(ctx context.Context, projectID uint) error
}

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) FindByID(ctx context.Context, id uint) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).First(&installment, id).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) FindByProject(ctx context.Context, projectID uint) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) FindByProjectAndNumber(ctx context.Context, projectID uint, number int) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND installment_number = ?", projectID, number).
		First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []models.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&installments).Error
}

func (r *installmentRepository) Update(ctx context.Context, installment *models.Installment) error {
	return r.db.WithContext(ctx).Save(installment).Error
}

// FindOverduePending returns pending installments whose due date has passed,
// with the project preloaded so the sweep can read late fee configuration.
func (r *installmentRepository) FindOverduePending(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", models.InstallmentStatusPending, asOf).
		Preload("Project").
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

// FindUnpaidPastDue returns every unpaid installment past its due date,
// whether it has been swept to overdue yet or not.
func (r *installmentRepository) FindUnpaidPastDue(ctx context.Context, asOf time.Time) ([]models.Installment, error) {
	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?",
			[]string{models.InstallmentStatusPending, models.InstallmentStatusOverdue}, asOf).
		Preload("Project").
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) MarkReminderSent(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Installment{}).
		Where("id = ?", id).
		Update("reminder_sent_at", &at).Error
}

// CancelPendingByProject cancels unpaid installments when a project is cancelled.
// Paid installments keep their status so collected money stays accounted for.
func (r *installmentRepository) CancelPendingByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Model(&models.Installment{}).
		Where("project_id = ? AND status IN ?", projectID,
			[]string{models.InstallmentStatusPending, models.InstallmentStatusOverdue}).
		Update("status", models.InstallmentStatusCancelled).Error
}
