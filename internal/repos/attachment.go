package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type AttachmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attachments []*types.Attachment) ([]*types.Attachment, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, attachmentIDs []uuid.UUID) ([]*types.Attachment, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Attachment, error)
	Delete(ctx context.Context, tx *gorm.DB, attachmentID uuid.UUID) error
}

type attachmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentRepo {
	return &attachmentRepo{db: db, log: baseLog.With("repo", "AttachmentRepo")}
}

func (r *attachmentRepo) Create(ctx context.Context, tx *gorm.DB, attachments []*types.Attachment) ([]*types.Attachment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(attachments) == 0 {
		return []*types.Attachment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *attachmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, attachmentIDs []uuid.UUID) ([]*types.Attachment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Attachment
	if len(attachmentIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", attachmentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attachmentRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Attachment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Attachment
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, tx *gorm.DB, attachmentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.Attachment{}, "id = ?", attachmentID).Error
}
