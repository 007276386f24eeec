package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Client            ClientRepository
	Project           ProjectRepository
	Installment       InstallmentRepository
	CashLedger        CashLedgerRepository
	Contractor        ContractorRepository
	ContractorPayment ContractorPaymentRepository
	Fee               FeeRepository
	ExchangeRate      ExchangeRateRepository
	Outbox            OutboxRepository
	Audit             AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:            NewClientRepository(db),
		Project:           NewProjectRepository(db),
		Installment:       NewInstallmentRepository(db),
		CashLedger:        NewCashLedgerRepository(db),
		Contractor:        NewContractorRepository(db),
		ContractorPayment: NewContractorPaymentRepository(db),
		Fee:               NewFeeRepository(db),
		ExchangeRate:      NewExchangeRateRepository(db),
		Outbox:            NewOutboxRepository(db),
		Audit:             NewAuditRepository(db),
	}
}
