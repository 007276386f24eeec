package services

import (
	"context"

	"github.com/obra-studio/obra-api/internal/repository"
)

// DashboardSummary is the studio-wide financial snapshot
type DashboardSummary struct {
	MasterBalance      float64                    `json:"master_balance"`
	MasterTotalIncome  float64                    `json:"master_total_income"`
	MasterTotalExpense float64                    `json:"master_total_expense"`
	AdminBalance       float64                    `json:"admin_balance"`
	AdminCollected     float64                    `json:"admin_total_collected"`
	FeesCollected      float64                    `json:"fees_collected"`
	ProjectsByStatus   map[string]int64           `json:"projects_by_status"`
	MonthlyCashFlow    []repository.MonthlyFlow   `json:"monthly_cash_flow"`
}

// ReportService aggregates the ledgers into dashboard figures
type ReportService struct {
	projectRepo repository.ProjectRepository
	ledgerRepo  repository.CashLedgerRepository
	feeRepo     repository.FeeRepository
}

// NewReportService creates a new report service
func NewReportService(
	projectRepo repository.ProjectRepository,
	ledgerRepo repository.CashLedgerRepository,
	feeRepo repository.FeeRepository,
) *ReportService {
	return &ReportService{
		projectRepo: projectRepo,
		ledgerRepo:  ledgerRepo,
		feeRepo:     feeRepo,
	}
}

// Dashboard builds the studio-wide summary
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	master, err := s.ledgerRepo.GetMasterCash(ctx)
	if err != nil {
		return nil, err
	}
	admin, err := s.ledgerRepo.GetAdminCash(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := s.feeRepo.SumCollected(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.projectRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	flow, err := s.ledgerRepo.MonthlyCashFlow(ctx, 12)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		MasterBalance:      master.Balance,
		MasterTotalIncome:  master.TotalIncome,
		MasterTotalExpense: master.TotalExpense,
		AdminBalance:       admin.Balance,
		AdminCollected:     admin.TotalCollected,
		FeesCollected:      fees,
		ProjectsByStatus:   byStatus,
		MonthlyCashFlow:    flow,
	}, nil
}

// MonthlyCashFlow returns the cash flow of the last N months
func (s *ReportService) MonthlyCashFlow(ctx context.Context, months int) ([]repository.MonthlyFlow, error) {
	return s.ledgerRepo.MonthlyCashFlow(ctx, months)
}
