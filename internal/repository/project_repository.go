package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindByCode(ctx context.Context, code string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ProjectQuery) ([]models.Project, int64, error)
	NextCodeSequence(ctx context.Context, year int) (int, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ProjectQuery extends ListQuery with project-specific filters
type ProjectQuery struct {
	*ListQuery
	ClientID uint
	Status   string
	Currency string
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// FindByID returns the project even when soft-deleted: cancelled or removed
// projects stay reachable by id for auditing and historic movements.
func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByCode(ctx context.Context, code string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SoftDelete marks the project as deleted without removing the row, so
// its cash box and movements keep their foreign keys intact.
func (r *projectRepository) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("deleted_at", &now).Error
}

// HardDelete removes the row entirely. Only used as a compensating action
// when project creation fails after the row was inserted.
func (r *projectRepository) HardDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Project{}, id).Error
}

func (r *projectRepository) List(ctx context.Context, query *ProjectQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("projects.deleted_at IS NULL")

	if query.ClientID > 0 {
		db = db.Where("projects.client_id = ?", query.ClientID)
	}
	if query.Status != "" {
		db = db.Where("projects.status = ?", query.Status)
	}
	if query.Currency != "" {
		db = db.Where("projects.currency = ?", query.Currency)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN clients ON clients.id = projects.client_id").
			Where("projects.name ILIKE ? OR projects.code ILIKE ? OR clients.full_name ILIKE ?",
				search, search, search)
	}

	// Count using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "projects." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("projects.created_at DESC")
	}

	err := db.Offset(query.Offset()).Limit(query.Limit()).Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// NextCodeSequence atomically advances and returns the per-year project code
// counter. The upsert guarantees two concurrent creations never receive the
// same number, even on the first project of a year.
func (r *projectRepository) NextCodeSequence(ctx context.Context, year int) (int, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO project_code_sequences (year, last_seq)
		VALUES (?, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_seq = project_code_sequences.last_seq + 1
		RETURNING last_seq`, year).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *projectRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Select("status, COUNT(*) as total").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}

// CodeSequence backs the per-year atomic project code counter.
type CodeSequence struct {
	Year    int `gorm:"primaryKey"`
	LastSeq int `gorm:"not null;default:0"`
}

// TableName overrides the default table name
func (CodeSequence) TableName() string {
	return "project_code_sequences"
}
