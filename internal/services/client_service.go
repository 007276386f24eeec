package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
	"github.com/obra-studio/obra-api/internal/repository"
)

// ClientService manages the studio's client records
type ClientService struct {
	repo     repository.ClientRepository
	auditSvc *AuditService
}

// NewClientService creates a new client service
func NewClientService(repo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, auditSvc: auditSvc}
}

// FindByID gets a client by ID
func (s *ClientService) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return client, err
}

// List returns clients matching the query
func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, client *models.Client, actor string) error {
	if client.FullName == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", ErrValidation)
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "CREATE", "Client", client.ID,
		fmt.Sprintf("Cliente %s registrado", client.FullName), "")
	return nil
}

// Update saves client changes
func (s *ClientService) Update(ctx context.Context, client *models.Client) error {
	return s.repo.Update(ctx, client)
}

// Delete soft-deletes a client
func (s *ClientService) Delete(ctx context.Context, id uint, actor string) error {
	client, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if client.IsDeleted() {
		return ErrClientDeleted
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "DELETE", "Client", id,
		fmt.Sprintf("Cliente %s eliminado", client.FullName), "")
	return nil
}
