package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// UserUpdate carries only supplied fields. Role and IsActive are admin-only.
type UserUpdate struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
}

type UserService interface {
	ListUsers(ctx context.Context, role string, offset, limit int) ([]*types.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*types.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, sessionRepo repos.SessionRepo) UserService {
	return &userService{
		db:          db,
		log:         baseLog.With("service", "UserService"),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *userService) ListUsers(ctx context.Context, role string, offset, limit int) ([]*types.User, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if role != "" && !authz.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", pkgerr.ErrInvalidArgument, role)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return s.userRepo.List(ctx, nil, role, offset, limit)
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user", pkgerr.ErrNotFound)
	}
	return users[0], nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: not authenticated", pkgerr.ErrUnauthorized)
	}
	isAdmin := authz.Allow(rd.Role, authz.RoleAdmin)
	if rd.UserID != userID && !isAdmin {
		return nil, fmt.Errorf("%w: cannot modify another user", pkgerr.ErrForbidden)
	}
	if (upd.Role != nil || upd.IsActive != nil) && !isAdmin {
		return nil, fmt.Errorf("%w: admin role required", pkgerr.ErrForbidden)
	}
	if upd.Role != nil && !authz.ValidRole(*upd.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", pkgerr.ErrInvalidArgument, *upd.Role)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		user.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Save(ctx, tx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		// Deactivation revokes every outstanding refresh grant.
		if upd.IsActive != nil && !*upd.IsActive {
			return s.sessionRepo.DeleteByUserID(ctx, tx, userID)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("%w: not authenticated", pkgerr.ErrUnauthorized)
	}
	if !authz.Allow(rd.Role, authz.RoleAdmin) {
		return fmt.Errorf("%w: admin role required", pkgerr.ErrForbidden)
	}
	if rd.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", pkgerr.ErrInvalidArgument)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sessionRepo.DeleteByUserID(ctx, tx, userID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return s.userRepo.Delete(ctx, tx, userID)
	})
}
