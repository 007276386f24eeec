package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// ContractorRepository defines the interface for contractor data access
type ContractorRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ProjectContractor, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.ProjectContractor, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.ProjectContractor, error)
	Create(ctx context.Context, contractor *models.ProjectContractor) error
	Update(ctx context.Context, contractor *models.ProjectContractor) error
	Delete(ctx context.Context, id uint) error
	CreateBudgetItems(ctx context.Context, items []models.ContractorBudgetItem) error
	FindBudgetItems(ctx context.Context, contractorID uint) ([]models.ContractorBudgetItem, error)
}

type contractorRepository struct {
	db *gorm.DB
}

// NewContractorRepository creates a new contractor repository
func NewContractorRepository(db *gorm.DB) ContractorRepository {
	return &contractorRepository{db: db}
}

func (r *contractorRepository) FindByID(ctx context.Context, id uint) (*models.ProjectContractor, error) {
	var contractor models.ProjectContractor
	err := r.db.WithContext(ctx).First(&contractor, id).Error
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *contractorRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.ProjectContractor, error) {
	var contractor models.ProjectContractor
	err := r.db.WithContext(ctx).
		Preload("BudgetItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&contractor, id).Error
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *contractorRepository) FindByProject(ctx context.Context, projectID uint) ([]models.ProjectContractor, error) {
	var contractors []models.ProjectContractor
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("BudgetItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Payments").
		Order("created_at ASC").
		Find(&contractors).Error
	return contractors, err
}

func (r *contractorRepository) Create(ctx context.Context, contractor *models.ProjectContractor) error {
	return r.db.WithContext(ctx).Create(contractor).Error
}

func (r *contractorRepository) Update(ctx context.Context, contractor *models.ProjectContractor) error {
	return r.db.WithContext(ctx).Save(contractor).Error
}

func (r *contractorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProjectContractor{}, id).Error
}

func (r *contractorRepository) CreateBudgetItems(ctx context.Context, items []models.ContractorBudgetItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *contractorRepository) FindBudgetItems(ctx context.Context, contractorID uint) ([]models.ContractorBudgetItem, error) {
	var items []models.ContractorBudgetItem
	err := r.db.WithContext(ctx).
		Where("project_contractor_id = ?", contractorID).
		Order("order_index ASC").
		Find(&items).Error
	return items, err
}

// ContractorPaymentRepository defines the interface for contractor payment access
type ContractorPaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ContractorPayment, error)
	FindByContractor(ctx context.Context, contractorID uint) ([]models.ContractorPayment, error)
	FindByProject(ctx context.Context, projectID uint) ([]models.ContractorPayment, error)
	Create(ctx context.Context, payment *models.ContractorPayment) error
	Update(ctx context.Context, payment *models.ContractorPayment) error
	HardDelete(ctx context.Context, id uint) error
	SumPaidByContractor(ctx context.Context, contractorID uint) (float64, error)
}

type contractorPaymentRepository struct {
	db *gorm.DB
}

// NewContractorPaymentRepository creates a new contractor payment repository
func NewContractorPaymentRepository(db *gorm.DB) ContractorPaymentRepository {
	return &contractorPaymentRepository{db: db}
}

func (r *contractorPaymentRepository) FindByID(ctx context.Context, id uint) (*models.ContractorPayment, error) {
	var payment models.ContractorPayment
	err := r.db.WithContext(ctx).Preload("Contractor").First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *contractorPaymentRepository) FindByContractor(ctx context.Context, contractorID uint) ([]models.ContractorPayment, error) {
	var payments []models.ContractorPayment
	err := r.db.WithContext(ctx).
		Where("project_contractor_id = ?", contractorID).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *contractorPaymentRepository) FindByProject(ctx context.Context, projectID uint) ([]models.ContractorPayment, error) {
	var payments []models.ContractorPayment
	err := r.db.WithContext(ctx).
		Joins("JOIN project_contractors ON project_contractors.id = contractor_payments.project_contractor_id").
		Where("project_contractors.project_id = ?", projectID).
		Order("contractor_payments.due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *contractorPaymentRepository) Create(ctx context.Context, payment *models.ContractorPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *contractorPaymentRepository) Update(ctx context.Context, payment *models.ContractorPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// HardDelete removes a payment row. Only used as a compensating action when
// register-and-pay fails after the row was inserted.
func (r *contractorPaymentRepository) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.ContractorPayment{}, id).Error
}

func (r *contractorPaymentRepository) SumPaidByContractor(ctx context.Context, contractorID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.ContractorPayment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("project_contractor_id = ? AND status = ?", contractorID, models.ContractorPaymentStatusPaid).
		Scan(&total).Error
	return total, err
}
