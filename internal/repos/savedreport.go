package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type SavedReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reports []*types.SavedReport) ([]*types.SavedReport, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, reportID, userID uuid.UUID) (*types.SavedReport, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedReport, error)
	Save(ctx context.Context, tx *gorm.DB, report *types.SavedReport) error
	Delete(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error
}

type savedReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedReportRepo(db *gorm.DB, baseLog *logger.Logger) SavedReportRepo {
	return &savedReportRepo{db: db, log: baseLog.With("repo", "SavedReportRepo")}
}

func (r *savedReportRepo) Create(ctx context.Context, tx *gorm.DB, reports []*types.SavedReport) ([]*types.SavedReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reports) == 0 {
		return []*types.SavedReport{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *savedReportRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, reportID, userID uuid.UUID) (*types.SavedReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedReport
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", reportID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *savedReportRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedReport
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedReportRepo) Save(ctx context.Context, tx *gorm.DB, report *types.SavedReport) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(report).Error
}

func (r *savedReportRepo) Delete(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.SavedReport{}, "id = ?", reportID).Error
}
