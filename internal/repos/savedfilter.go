package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type SavedFilterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, filters []*types.SavedFilter) ([]*types.SavedFilter, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, filterID, userID uuid.UUID) (*types.SavedFilter, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedFilter, error)
	Save(ctx context.Context, tx *gorm.DB, filter *types.SavedFilter) error
	Delete(ctx context.Context, tx *gorm.DB, filterID uuid.UUID) error
	ClearDefault(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type savedFilterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedFilterRepo(db *gorm.DB, baseLog *logger.Logger) SavedFilterRepo {
	return &savedFilterRepo{db: db, log: baseLog.With("repo", "SavedFilterRepo")}
}

func (r *savedFilterRepo) Create(ctx context.Context, tx *gorm.DB, filters []*types.SavedFilter) ([]*types.SavedFilter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(filters) == 0 {
		return []*types.SavedFilter{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&filters).Error; err != nil {
		return nil, err
	}
	return filters, nil
}

func (r *savedFilterRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, filterID, userID uuid.UUID) (*types.SavedFilter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedFilter
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", filterID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *savedFilterRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedFilter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedFilter
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedFilterRepo) Save(ctx context.Context, tx *gorm.DB, filter *types.SavedFilter) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(filter).Error
}

func (r *savedFilterRepo) Delete(ctx context.Context, tx *gorm.DB, filterID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.SavedFilter{}, "id = ?", filterID).Error
}

func (r *savedFilterRepo) ClearDefault(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.SavedFilter{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
