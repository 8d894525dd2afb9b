package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, unreadOnly bool, offset, limit int) ([]*types.Notification, int64, error)
	GetNotification(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error)
	SetRead(ctx context.Context, notificationID uuid.UUID, read bool) (*types.Notification, error)
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, notificationID uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:               db,
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, unreadOnly bool, offset, limit int) ([]*types.Notification, int64, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, nil, rd.UserID, unreadOnly, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("load notifications: %w", err)
	}
	unread, err := s.notificationRepo.CountUnread(ctx, nil, rd.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("count unread: %w", err)
	}
	return notifications, unread, nil
}

func (s *notificationService) GetNotification(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	notification, err := s.notificationRepo.GetByIDForUser(ctx, nil, notificationID, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load notification: %w", err)
	}
	if notification == nil {
		return nil, fmt.Errorf("%w: notification", pkgerr.ErrNotFound)
	}
	return notification, nil
}

// SetRead toggles the read flag either way and is idempotent in both
// directions. Marking unread clears read_at.
func (s *notificationService) SetRead(ctx context.Context, notificationID uuid.UUID, read bool) (*types.Notification, error) {
	notification, err := s.GetNotification(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.IsRead == read {
		return notification, nil
	}
	if read {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
	} else {
		notification.IsRead = false
		notification.ReadAt = nil
	}
	if err := s.notificationRepo.Save(ctx, nil, notification); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	return s.notificationRepo.MarkAllRead(ctx, nil, rd.UserID, time.Now())
}

func (s *notificationService) DeleteNotification(ctx context.Context, notificationID uuid.UUID) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	notification, err := s.notificationRepo.GetByIDForUser(ctx, nil, notificationID, rd.UserID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if notification == nil {
		return fmt.Errorf("%w: notification", pkgerr.ErrNotFound)
	}
	return s.notificationRepo.Delete(ctx, nil, notificationID)
}
