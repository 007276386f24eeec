package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry. Without a database it is a no-op.
func (s *AuditService) Log(ctx context.Context, actor, action, entity string, entityID uint, details, ip string) error {
	if s.db == nil {
		return nil
	}
	entry := &models.AuditLog{
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// List retrieves audit logs, newest first
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&logs)
	return logs, total, result.Error
}

// FindByEntity returns the audit trail of a single record
func (s *AuditService) FindByEntity(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at desc").
		Find(&logs).Error
	return logs, err
}
