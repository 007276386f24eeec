package services

import (
	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/config"
	"github.com/obra-studio/obra-api/internal/jobs"
	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Client     *ClientService
	Project    *ProjectService
	Contractor *ContractorService
	AdminFee   *AdminFeeService
	Exchange   *ExchangeService
	Overdue    *OverdueService
	Outbox     *OutboxService
	Report     *ReportService
	Export     *ExportService
	Email      *EmailService
	Audit      *AuditService
	Job        *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	emailSvc := NewEmailService(cfg)

	feeSvc := NewAdminFeeService(repos.Fee, repos.CashLedger, repos.Outbox)
	reportSvc := NewReportService(repos.Project, repos.CashLedger, repos.Fee)

	outboxSvc := NewOutboxService(repos.Outbox)
	outboxSvc.Register(models.TaskTypeFeeCollection, feeSvc.CollectFromPayload)

	rateProvider := NewHTTPRateProvider(cfg.ExchangeRateURL)

	return &Services{
		Client:     NewClientService(repos.Client, auditSvc),
		Project:    NewProjectService(repos.Project, repos.Client, repos.Installment, repos.CashLedger, feeSvc, auditSvc),
		Contractor: NewContractorService(repos.Contractor, repos.ContractorPayment, repos.Project, repos.CashLedger, auditSvc),
		AdminFee:   feeSvc,
		Exchange:   NewExchangeService(repos.ExchangeRate, repos.CashLedger, rateProvider, auditSvc),
		Overdue:    NewOverdueService(repos.Installment, repos.Client, emailSvc),
		Outbox:     outboxSvc,
		Report:     reportSvc,
		Export:     NewExportService(reportSvc, repos.CashLedger),
		Email:      emailSvc,
		Audit:      auditSvc,
		Job:        NewJobService(worker),
	}
}
