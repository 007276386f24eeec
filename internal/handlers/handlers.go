package handlers

import (
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
	"github.com/obra-studio/obra-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Client     *ClientHandler
	Project    *ProjectHandler
	Contractor *ContractorHandler
	Cash       *CashHandler
	Exchange   *ExchangeHandler
	Document   *DocumentHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, repos *repository.Repositories, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Client:     NewClientHandler(svcs.Client),
		Project:    NewProjectHandler(svcs.Project, svcs.Export, storage),
		Contractor: NewContractorHandler(svcs.Contractor),
		Cash:       NewCashHandler(svcs.Report, svcs.Export, repos.CashLedger),
		Exchange:   NewExchangeHandler(svcs.Exchange),
		Document:   NewDocumentHandler(storage),
		Job:        NewJobHandler(svcs.Job, svcs.Outbox),
	}
}
