package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

const defaultTagColor = "#3498db"

type TagUpdate struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

type TagService interface {
	ListTags(ctx context.Context, offset, limit int) ([]*types.Tag, error)
	GetTag(ctx context.Context, tagID uuid.UUID) (*types.Tag, error)
	CreateTag(ctx context.Context, name, color, description string) (*types.Tag, error)
	UpdateTag(ctx context.Context, tagID uuid.UUID, upd TagUpdate) (*types.Tag, error)
	DeleteTag(ctx context.Context, tagID uuid.UUID) error
	ListTagProjects(ctx context.Context, tagID uuid.UUID) ([]*types.Project, error)
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, baseLog *logger.Logger, tagRepo repos.TagRepo) TagService {
	return &tagService{
		db:      db,
		log:     baseLog.With("service", "TagService"),
		tagRepo: tagRepo,
	}
}

func (s *tagService) ListTags(ctx context.Context, offset, limit int) ([]*types.Tag, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = MaxPageSize
	}
	return s.tagRepo.List(ctx, nil, offset, limit)
}

func (s *tagService) GetTag(ctx context.Context, tagID uuid.UUID) (*types.Tag, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	return s.loadTag(ctx, tagID)
}

func (s *tagService) CreateTag(ctx context.Context, name, color, description string) (*types.Tag, error) {
	rd, err := editor(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", pkgerr.ErrInvalidArgument)
	}
	if exists, err := s.tagRepo.NameExists(ctx, nil, name); err != nil {
		return nil, fmt.Errorf("check tag name: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: tag %q already exists", pkgerr.ErrConflict, name)
	}
	if color == "" {
		color = defaultTagColor
	}
	tag := &types.Tag{
		ID:          uuid.New(),
		Name:        name,
		Color:       color,
		Description: description,
		CreatedBy:   rd.UserID,
	}
	if _, err := s.tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) UpdateTag(ctx context.Context, tagID uuid.UUID, upd TagUpdate) (*types.Tag, error) {
	if _, err := editor(ctx); err != nil {
		return nil, err
	}
	tag, err := s.loadTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", pkgerr.ErrInvalidArgument)
		}
		if name != tag.Name {
			if exists, err := s.tagRepo.NameExists(ctx, nil, name); err != nil {
				return nil, fmt.Errorf("check tag name: %w", err)
			} else if exists {
				return nil, fmt.Errorf("%w: tag %q already exists", pkgerr.ErrConflict, name)
			}
			tag.Name = name
		}
	}
	if upd.Color != nil {
		tag.Color = *upd.Color
	}
	if upd.Description != nil {
		tag.Description = *upd.Description
	}
	if err := s.tagRepo.Save(ctx, nil, tag); err != nil {
		return nil, fmt.Errorf("save tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	if _, err := editor(ctx); err != nil {
		return err
	}
	if _, err := s.loadTag(ctx, tagID); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, nil, tagID)
}

func (s *tagService) ListTagProjects(ctx context.Context, tagID uuid.UUID) ([]*types.Project, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if _, err := s.loadTag(ctx, tagID); err != nil {
		return nil, err
	}
	return s.tagRepo.ListProjects(ctx, nil, tagID)
}

func (s *tagService) loadTag(ctx context.Context, tagID uuid.UUID) (*types.Tag, error) {
	tags, err := s.tagRepo.GetByIDs(ctx, nil, []uuid.UUID{tagID})
	if err != nil {
		return nil, fmt.Errorf("load tag: %w", err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tag", pkgerr.ErrNotFound)
	}
	return tags[0], nil
}
