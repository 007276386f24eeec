package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/obra-studio/obra-api/internal/models"
)

// IncomePosting describes money entering a project cash box from outside.
type IncomePosting struct {
	ProjectID       uint
	Amount          float64
	Currency        string
	MovementType    string
	Description     string
	PaymentMethod   *string
	ReferenceNumber *string
	BankAccount     *string
	CreatedBy       string
}

// ExpensePosting describes money leaving a project cash box, typically a
// contractor payment.
type ExpensePosting struct {
	ProjectID       uint
	Amount          float64
	Currency        string
	Description     string
	PaymentMethod   *string
	ReferenceNumber *string
	CreatedBy       string
}

// ExchangePosting converts balance between currencies inside one project box.
type ExchangePosting struct {
	ProjectID    uint
	FromCurrency string
	ToCurrency   string
	Amount       float64
	Rate         float64
	Description  string
	CreatedBy    string
}

// MovementQuery filters the movement listing.
type MovementQuery struct {
	*ListQuery
	ProjectID    uint
	Currency     string
	MovementType string
	From         *time.Time
	To           *time.Time
}

// MonthlyFlow aggregates signed movements per month for the cash flow report.
type MonthlyFlow struct {
	Month    string  `json:"month"`
	Currency string  `json:"currency"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
}

// CashLedgerRepository owns every balance change. All postings run inside a
// single database transaction: the movement rows and the balance updates
// commit together or not at all.
type CashLedgerRepository interface {
	CreateProjectCashBox(ctx context.Context, projectID uint) (*models.ProjectCashBox, error)
	FindCashBoxByProject(ctx context.Context, projectID uint) (*models.ProjectCashBox, error)
	GetMasterCash(ctx context.Context) (*models.MasterCash, error)
	GetAdminCash(ctx context.Context) (*models.AdminCash, error)
	PostProjectIncome(ctx context.Context, posting IncomePosting) (*models.CashMovement, error)
	PostProjectExpense(ctx context.Context, posting ExpensePosting) (*models.CashMovement, error)
	PostFeeCollection(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error)
	ExchangeCurrency(ctx context.Context, posting ExchangePosting) (*models.CashMovement, error)
	FindMovementsByProject(ctx context.Context, projectID uint) ([]models.CashMovement, error)
	ListMovements(ctx context.Context, query *MovementQuery) ([]models.CashMovement, int64, error)
	MonthlyCashFlow(ctx context.Context, months int) ([]MonthlyFlow, error)
}

type cashLedgerRepository struct {
	db *gorm.DB
}

// NewCashLedgerRepository creates a new cash ledger repository
func NewCashLedgerRepository(db *gorm.DB) CashLedgerRepository {
	return &cashLedgerRepository{db: db}
}

func (r *cashLedgerRepository) CreateProjectCashBox(ctx context.Context, projectID uint) (*models.ProjectCashBox, error) {
	box := &models.ProjectCashBox{ProjectID: projectID}
	if err := r.db.WithContext(ctx).Create(box).Error; err != nil {
		return nil, err
	}
	return box, nil
}

func (r *cashLedgerRepository) FindCashBoxByProject(ctx context.Context, projectID uint) (*models.ProjectCashBox, error) {
	var box models.ProjectCashBox
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&box).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCashBoxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// GetMasterCash returns the single master cash row, creating it on first use.
func (r *cashLedgerRepository) GetMasterCash(ctx context.Context) (*models.MasterCash, error) {
	var master models.MasterCash
	err := r.db.WithContext(ctx).
		Where(models.MasterCash{ID: 1}).
		FirstOrCreate(&master).Error
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// GetAdminCash returns the single admin cash row, creating it on first use.
func (r *cashLedgerRepository) GetAdminCash(ctx context.Context) (*models.AdminCash, error) {
	var admin models.AdminCash
	err := r.db.WithContext(ctx).
		Where(models.AdminCash{ID: 1}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// PostProjectIncome records money entering a project: one movement into the
// project cash box and a mirror movement into master cash, both balances
// incremented in the same transaction. This is the double-entry invariant:
// every peso a project receives also appears in master cash.
func (r *cashLedgerRepository) PostProjectIncome(ctx context.Context, posting IncomePosting) (*models.CashMovement, error) {
	if posting.Amount <= 0 {
		return nil, errors.New("el monto del ingreso debe ser mayor a cero")
	}
	if !models.ValidCurrency(posting.Currency) {
		return nil, errors.New("moneda inválida")
	}

	var projectMovement *models.CashMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box models.ProjectCashBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", posting.ProjectID).
			First(&box).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCashBoxNotFound
		}
		if err != nil {
			return err
		}

		projectMovement = &models.CashMovement{
			MovementType:    posting.MovementType,
			Amount:          posting.Amount,
			Currency:        posting.Currency,
			Description:     posting.Description,
			SourceType:      models.LedgerPartyExternal,
			DestinationType: models.LedgerPartyProject,
			DestinationID:   &posting.ProjectID,
			ProjectID:       &posting.ProjectID,
			PaymentMethod:   posting.PaymentMethod,
			ReferenceNumber: posting.ReferenceNumber,
			BankAccount:     posting.BankAccount,
			CreatedBy:       posting.CreatedBy,
		}
		if err := tx.Create(projectMovement).Error; err != nil {
			return err
		}

		balanceCol, incomeCol := cashBoxColumns(posting.Currency)
		err = tx.Model(&models.ProjectCashBox{}).
			Where("id = ?", box.ID).
			Updates(map[string]interface{}{
				balanceCol: gorm.Expr(balanceCol+" + ?", posting.Amount),
				incomeCol:  gorm.Expr(incomeCol+" + ?", posting.Amount),
			}).Error
		if err != nil {
			return err
		}

		// Mirror into master cash
		mirror := &models.CashMovement{
			MovementType:    models.MovementTypeMasterDuplication,
			Amount:          posting.Amount,
			Currency:        posting.Currency,
			Description:     posting.Description,
			SourceType:      models.LedgerPartyProject,
			SourceID:        &posting.ProjectID,
			DestinationType: models.LedgerPartyMaster,
			ProjectID:       &posting.ProjectID,
			RelatedMovement: &projectMovement.ID,
			CreatedBy:       posting.CreatedBy,
		}
		if err := tx.Create(mirror).Error; err != nil {
			return err
		}

		var master models.MasterCash
		if err := tx.Where(models.MasterCash{ID: 1}).FirstOrCreate(&master).Error; err != nil {
			return err
		}
		return tx.Model(&models.MasterCash{}).
			Where("id = ?", master.ID).
			Updates(map[string]interface{}{
				"balance":      gorm.Expr("balance + ?", posting.Amount),
				"total_income": gorm.Expr("total_income + ?", posting.Amount),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return projectMovement, nil
}

// PostProjectExpense records money leaving a project cash box. The box row is
// locked before the funds check so two concurrent payments cannot both pass
// validation against the same balance.
func (r *cashLedgerRepository) PostProjectExpense(ctx context.Context, posting ExpensePosting) (*models.CashMovement, error) {
	if posting.Amount <= 0 {
		return nil, errors.New("el monto del egreso debe ser mayor a cero")
	}
	if !models.ValidCurrency(posting.Currency) {
		return nil, errors.New("moneda inválida")
	}

	var movement *models.CashMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box models.ProjectCashBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", posting.ProjectID).
			First(&box).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCashBoxNotFound
		}
		if err != nil {
			return err
		}

		available := box.BalanceFor(posting.Currency)
		if available < posting.Amount {
			return &InsufficientFundsError{
				ProjectID: posting.ProjectID,
				Currency:  posting.Currency,
				Required:  posting.Amount,
				Available: available,
			}
		}

		movement = &models.CashMovement{
			MovementType:    models.MovementTypeExpense,
			Amount:          -posting.Amount,
			Currency:        posting.Currency,
			Description:     posting.Description,
			SourceType:      models.LedgerPartyProject,
			SourceID:        &posting.ProjectID,
			DestinationType: models.LedgerPartyExternal,
			ProjectID:       &posting.ProjectID,
			PaymentMethod:   posting.PaymentMethod,
			ReferenceNumber: posting.ReferenceNumber,
			CreatedBy:       posting.CreatedBy,
		}
		if err := tx.Create(movement).Error; err != nil {
			return err
		}

		balanceCol, _ := cashBoxColumns(posting.Currency)
		expenseCol := "total_expense_ars"
		if posting.Currency == models.CurrencyUSD {
			expenseCol = "total_expense_usd"
		}
		return tx.Model(&models.ProjectCashBox{}).
			Where("id = ?", box.ID).
			Updates(map[string]interface{}{
				balanceCol: gorm.Expr(balanceCol+" - ?", posting.Amount),
				expenseCol: gorm.Expr(expenseCol+" + ?", posting.Amount),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// PostFeeCollection moves an administrator fee from master cash into admin
// cash and marks the fee collected, all in one transaction.
func (r *cashLedgerRepository) PostFeeCollection(ctx context.Context, fee *models.AdministratorFee) (*models.CashMovement, error) {
	if fee.IsCollected() {
		return nil, errors.New("el honorario ya fue cobrado")
	}
	if fee.Amount <= 0 {
		return nil, errors.New("el monto del honorario debe ser mayor a cero")
	}

	var movement *models.CashMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var master models.MasterCash
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(models.MasterCash{ID: 1}).
			FirstOrCreate(&master).Error
		if err != nil {
			return err
		}

		movement = &models.CashMovement{
			MovementType:    models.MovementTypeFeeCollection,
			Amount:          fee.Amount,
			Currency:        fee.Currency,
			Description:     "Cobro de honorarios de administración",
			SourceType:      models.LedgerPartyMaster,
			DestinationType: models.LedgerPartyAdmin,
			ProjectID:       &fee.ProjectID,
			CreatedBy:       "system",
		}
		if err := tx.Create(movement).Error; err != nil {
			return err
		}

		err = tx.Model(&models.MasterCash{}).
			Where("id = ?", master.ID).
			Updates(map[string]interface{}{
				"balance":       gorm.Expr("balance - ?", fee.Amount),
				"total_expense": gorm.Expr("total_expense + ?", fee.Amount),
			}).Error
		if err != nil {
			return err
		}

		var admin models.AdminCash
		if err := tx.Where(models.AdminCash{ID: 1}).FirstOrCreate(&admin).Error; err != nil {
			return err
		}
		err = tx.Model(&models.AdminCash{}).
			Where("id = ?", admin.ID).
			Updates(map[string]interface{}{
				"balance":         gorm.Expr("balance + ?", fee.Amount),
				"total_collected": gorm.Expr("total_collected + ?", fee.Amount),
			}).Error
		if err != nil {
			return err
		}

		now := time.Now()
		fee.Status = models.FeeStatusCollected
		fee.CollectedAt = &now
		fee.MovementID = &movement.ID
		return tx.Save(fee).Error
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// ExchangeCurrency converts balance between ARS and USD inside one project
// cash box at the given rate, writing paired movements for both legs.
func (r *cashLedgerRepository) ExchangeCurrency(ctx context.Context, posting ExchangePosting) (*models.CashMovement, error) {
	if posting.Amount <= 0 {
		return nil, errors.New("el monto a convertir debe ser mayor a cero")
	}
	if posting.Rate <= 0 {
		return nil, errors.New("la cotización debe ser mayor a cero")
	}
	if posting.FromCurrency == posting.ToCurrency {
		return nil, errors.New("las monedas de origen y destino deben ser distintas")
	}
	if !models.ValidCurrency(posting.FromCurrency) || !models.ValidCurrency(posting.ToCurrency) {
		return nil, errors.New("moneda inválida")
	}

	converted := models.Money{Amount: posting.Amount, Currency: posting.FromCurrency}
	target, err := converted.ConvertTo(posting.ToCurrency, posting.Rate)
	if err != nil {
		return nil, err
	}

	var outMovement *models.CashMovement

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var box models.ProjectCashBox
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", posting.ProjectID).
			First(&box).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCashBoxNotFound
		}
		if err != nil {
			return err
		}

		available := box.BalanceFor(posting.FromCurrency)
		if available < posting.Amount {
			return &InsufficientFundsError{
				ProjectID: posting.ProjectID,
				Currency:  posting.FromCurrency,
				Required:  posting.Amount,
				Available: available,
			}
		}

		outMovement = &models.CashMovement{
			MovementType:    models.MovementTypeCurrencyExchange,
			Amount:          -posting.Amount,
			Currency:        posting.FromCurrency,
			Description:     posting.Description,
			SourceType:      models.LedgerPartyProject,
			SourceID:        &posting.ProjectID,
			DestinationType: models.LedgerPartyProject,
			DestinationID:   &posting.ProjectID,
			ProjectID:       &posting.ProjectID,
			CreatedBy:       posting.CreatedBy,
		}
		if err := tx.Create(outMovement).Error; err != nil {
			return err
		}

		inMovement := &models.CashMovement{
			MovementType:    models.MovementTypeCurrencyExchange,
			Amount:          target.Amount,
			Currency:        posting.ToCurrency,
			Description:     posting.Description,
			SourceType:      models.LedgerPartyProject,
			SourceID:        &posting.ProjectID,
			DestinationType: models.LedgerPartyProject,
			DestinationID:   &posting.ProjectID,
			ProjectID:       &posting.ProjectID,
			RelatedMovement: &outMovement.ID,
			CreatedBy:       posting.CreatedBy,
		}
		if err := tx.Create(inMovement).Error; err != nil {
			return err
		}

		fromCol, _ := cashBoxColumns(posting.FromCurrency)
		toCol, _ := cashBoxColumns(posting.ToCurrency)
		return tx.Model(&models.ProjectCashBox{}).
			Where("id = ?", box.ID).
			Updates(map[string]interface{}{
				fromCol: gorm.Expr(fromCol+" - ?", posting.Amount),
				toCol:   gorm.Expr(toCol+" + ?", target.Amount),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return outMovement, nil
}

func (r *cashLedgerRepository) FindMovementsByProject(ctx context.Context, projectID uint) ([]models.CashMovement, error) {
	var movements []models.CashMovement
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *cashLedgerRepository) ListMovements(ctx context.Context, query *MovementQuery) ([]models.CashMovement, int64, error) {
	var movements []models.CashMovement
	var total int64

	db := r.db.WithContext(ctx).Model(&models.CashMovement{})

	if query.ProjectID > 0 {
		db = db.Where("project_id = ?", query.ProjectID)
	}
	if query.Currency != "" {
		db = db.Where("currency = ?", query.Currency)
	}
	if query.MovementType != "" {
		db = db.Where("movement_type = ?", query.MovementType)
	}
	if query.From != nil {
		db = db.Where("created_at >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("created_at <= ?", *query.To)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("description ILIKE ? OR reference_number ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Offset(query.Offset()).Limit(query.Limit()).
		Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// MonthlyCashFlow aggregates project-level income and expense per month and
// currency over the last N months. Master mirror movements are excluded so
// income is not counted twice.
func (r *cashLedgerRepository) MonthlyCashFlow(ctx context.Context, months int) ([]MonthlyFlow, error) {
	if months <= 0 {
		months = 12
	}
	since := time.Now().AddDate(0, -months, 0)

	var flows []MonthlyFlow
	err := r.db.WithContext(ctx).Model(&models.CashMovement{}).
		Select(`to_char(created_at, 'YYYY-MM') as month,
			currency,
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) as income,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) as expense`).
		Where("created_at >= ? AND movement_type <> ?", since, models.MovementTypeMasterDuplication).
		Group("to_char(created_at, 'YYYY-MM'), currency").
		Order("month ASC").
		Scan(&flows).Error
	return flows, err
}

// cashBoxColumns maps a currency to its balance and income column names.
func cashBoxColumns(currency string) (balanceCol, incomeCol string) {
	if currency == models.CurrencyUSD {
		return "current_balance_usd", "total_income_usd"
	}
	return "current_balance_ars", "total_income_ars"
}
