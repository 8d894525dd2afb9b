package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

const maxAttachmentSize = 25 << 20 // 25 MiB

// AttachmentInput is the stored-file metadata; the bytes themselves live
// outside the database.
type AttachmentInput struct {
	OriginalFilename string `json:"original_filename"`
	FilePath         string `json:"file_path"`
	FileSize         int64  `json:"file_size"`
	FileType         string `json:"file_type"`
	Description      string `json:"description"`
}

type AttachmentService interface {
	ListProjectAttachments(ctx context.Context, projectID uuid.UUID) ([]*types.Attachment, error)
	CreateAttachment(ctx context.Context, projectID uuid.UUID, in AttachmentInput) (*types.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error
}

type attachmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	attachmentRepo repos.AttachmentRepo
	projectRepo    repos.ProjectRepo
}

func NewAttachmentService(db *gorm.DB, baseLog *logger.Logger, attachmentRepo repos.AttachmentRepo, projectRepo repos.ProjectRepo) AttachmentService {
	return &attachmentService{
		db:             db,
		log:            baseLog.With("service", "AttachmentService"),
		attachmentRepo: attachmentRepo,
		projectRepo:    projectRepo,
	}
}

func (s *attachmentService) ListProjectAttachments(ctx context.Context, projectID uuid.UUID) ([]*types.Attachment, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByProject(ctx, nil, projectID)
}

func (s *attachmentService) CreateAttachment(ctx context.Context, projectID uuid.UUID, in AttachmentInput) (*types.Attachment, error) {
	rd, err := editor(ctx)
	if err != nil {
		return nil, err
	}
	in.OriginalFilename = strings.TrimSpace(in.OriginalFilename)
	if in.OriginalFilename == "" || in.FilePath == "" {
		return nil, fmt.Errorf("%w: original_filename and file_path are required", pkgerr.ErrInvalidArgument)
	}
	if in.FileSize <= 0 || in.FileSize > maxAttachmentSize {
		return nil, fmt.Errorf("%w: file size must be positive and at most %d bytes", pkgerr.ErrInvalidArgument, maxAttachmentSize)
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	id := uuid.New()
	attachment := &types.Attachment{
		ID:               id,
		ProjectID:        projectID,
		Filename:         id.String() + filepath.Ext(in.OriginalFilename),
		OriginalFilename: in.OriginalFilename,
		FilePath:         in.FilePath,
		FileSize:         in.FileSize,
		FileType:         in.FileType,
		UploadedBy:       rd.UserID,
		Description:      in.Description,
	}
	if _, err := s.attachmentRepo.Create(ctx, nil, []*types.Attachment{attachment}); err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return attachment, nil
}

func (s *attachmentService) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	attachments, err := s.attachmentRepo.GetByIDs(ctx, nil, []uuid.UUID{attachmentID})
	if err != nil {
		return fmt.Errorf("load attachment: %w", err)
	}
	if len(attachments) == 0 {
		return fmt.Errorf("%w: attachment", pkgerr.ErrNotFound)
	}
	if attachments[0].UploadedBy != rd.UserID && !authz.Allow(rd.Role, authz.RoleAdmin) {
		return fmt.Errorf("%w: not your attachment", pkgerr.ErrForbidden)
	}
	return s.attachmentRepo.Delete(ctx, nil, attachmentID)
}

func (s *attachmentService) requireProject(ctx context.Context, projectID uuid.UUID) error {
	projects, err := s.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return fmt.Errorf("%w: project", pkgerr.ErrNotFound)
	}
	return nil
}
