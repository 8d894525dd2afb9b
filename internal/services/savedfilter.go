package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type SavedFilterInput struct {
	Name      string         `json:"name"`
	Filters   map[string]any `json:"filters"`
	IsDefault bool           `json:"is_default"`
}

type SavedFilterService interface {
	ListFilters(ctx context.Context) ([]*types.SavedFilter, error)
	CreateFilter(ctx context.Context, in SavedFilterInput) (*types.SavedFilter, error)
	UpdateFilter(ctx context.Context, filterID uuid.UUID, in SavedFilterInput) (*types.SavedFilter, error)
	DeleteFilter(ctx context.Context, filterID uuid.UUID) error
}

type savedFilterService struct {
	db         *gorm.DB
	log        *logger.Logger
	filterRepo repos.SavedFilterRepo
}

func NewSavedFilterService(db *gorm.DB, baseLog *logger.Logger, filterRepo repos.SavedFilterRepo) SavedFilterService {
	return &savedFilterService{
		db:         db,
		log:        baseLog.With("service", "SavedFilterService"),
		filterRepo: filterRepo,
	}
}

func (s *savedFilterService) ListFilters(ctx context.Context) ([]*types.SavedFilter, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	return s.filterRepo.ListByUser(ctx, nil, rd.UserID)
}

func (s *savedFilterService) CreateFilter(ctx context.Context, in SavedFilterInput) (*types.SavedFilter, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", pkgerr.ErrInvalidArgument)
	}
	filters := in.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("marshal filters: %w", err)
	}
	filter := &types.SavedFilter{
		ID:        uuid.New(),
		UserID:    rd.UserID,
		Name:      in.Name,
		Filters:   datatypes.JSON(raw),
		IsDefault: in.IsDefault,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One default per user.
		if filter.IsDefault {
			if err := s.filterRepo.ClearDefault(ctx, tx, rd.UserID); err != nil {
				return fmt.Errorf("clear default filter: %w", err)
			}
		}
		_, err := s.filterRepo.Create(ctx, tx, []*types.SavedFilter{filter})
		return err
	}); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *savedFilterService) UpdateFilter(ctx context.Context, filterID uuid.UUID, in SavedFilterInput) (*types.SavedFilter, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := s.filterRepo.GetByIDForUser(ctx, nil, filterID, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load saved filter: %w", err)
	}
	if filter == nil {
		return nil, fmt.Errorf("%w: saved filter", pkgerr.ErrNotFound)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		filter.Name = name
	}
	if in.Filters != nil {
		raw, err := json.Marshal(in.Filters)
		if err != nil {
			return nil, fmt.Errorf("marshal filters: %w", err)
		}
		filter.Filters = datatypes.JSON(raw)
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault && !filter.IsDefault {
			if err := s.filterRepo.ClearDefault(ctx, tx, rd.UserID); err != nil {
				return fmt.Errorf("clear default filter: %w", err)
			}
		}
		filter.IsDefault = in.IsDefault
		return s.filterRepo.Save(ctx, tx, filter)
	}); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *savedFilterService) DeleteFilter(ctx context.Context, filterID uuid.UUID) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	filter, err := s.filterRepo.GetByIDForUser(ctx, nil, filterID, rd.UserID)
	if err != nil {
		return fmt.Errorf("load saved filter: %w", err)
	}
	if filter == nil {
		return fmt.Errorf("%w: saved filter", pkgerr.ErrNotFound)
	}
	return s.filterRepo.Delete(ctx, nil, filterID)
}
