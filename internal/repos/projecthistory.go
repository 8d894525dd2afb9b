package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// ProjectHistoryRepo is append-only: records are created and read, never
// updated or individually deleted. Rows go away only with their project.
type ProjectHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.ProjectHistory) ([]*types.ProjectHistory, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, error)
	CountByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
}

type projectHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ProjectHistoryRepo {
	return &projectHistoryRepo{db: db, log: baseLog.With("repo", "ProjectHistoryRepo")}
}

func (r *projectHistoryRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ProjectHistory) ([]*types.ProjectHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return []*types.ProjectHistory{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *projectHistoryRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.ProjectHistory
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectHistoryRepo) CountByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProjectHistory{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
