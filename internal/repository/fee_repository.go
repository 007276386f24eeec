package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// FeeRepository defines the interface for administrator fee data access
type FeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.AdministratorFee, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.AdministratorFee, error)
	FindByInstallment(ctx context.Context, installmentID uint) (*models.AdministratorFee, error)
	Create(ctx context.Context, fee *models.AdministratorFee) error
	Update(ctx context.Context, fee *models.AdministratorFee) error
	SumCollected(ctx context.Context) (float64, error)
}

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) FindByID(ctx context.Context, id uint) (*models.AdministratorFee, error) {
	var fee models.AdministratorFee
	err := r.db.WithContext(ctx).First(&fee, id).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepository) FindByProject(ctx context.Context, projectID uint) ([]models.AdministratorFee, error) {
	var fees []models.AdministratorFee
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&fees).Error
	return fees, err
}

func (r *feeRepository) FindByInstallment(ctx context.Context, installmentID uint) (*models.AdministratorFee, error) {
	var fee models.AdministratorFee
	err := r.db.WithContext(ctx).
		Where("installment_id = ?", installmentID).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepository) Create(ctx context.Context, fee *models.AdministratorFee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *feeRepository) Update(ctx context.Context, fee *models.AdministratorFee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *feeRepository) SumCollected(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.AdministratorFee{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.FeeStatusCollected).
		Scan(&total).Error
	return total, err
}
