package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/services"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

func newNotificationService(t *testing.T) (services.NotificationService, *fakeNotificationRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	repo := &fakeNotificationRepo{}
	return services.NewNotificationService(db, log, repo), repo
}

func notificationCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Role:   authz.RoleViewer,
	})
}

func TestSetReadTogglesBothWays(t *testing.T) {
	svc, repo := newNotificationService(t)
	userID := uuid.New()
	n := &types.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    "comment_added",
		Title:   "New comment",
		Message: "someone commented",
	}
	repo.notifications = append(repo.notifications, n)
	ctx := notificationCtx(userID)

	got, err := svc.SetRead(ctx, n.ID, true)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !got.IsRead || got.ReadAt == nil {
		t.Fatalf("expected read with timestamp, got is_read=%v read_at=%v", got.IsRead, got.ReadAt)
	}
	firstReadAt := got.ReadAt

	// Marking read again must not move the timestamp.
	got, err = svc.SetRead(ctx, n.ID, true)
	if err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if got.ReadAt != firstReadAt {
		t.Fatalf("idempotent mark read must keep read_at")
	}

	got, err = svc.SetRead(ctx, n.ID, false)
	if err != nil {
		t.Fatalf("mark unread: %v", err)
	}
	if got.IsRead || got.ReadAt != nil {
		t.Fatalf("expected unread with cleared read_at, got is_read=%v read_at=%v", got.IsRead, got.ReadAt)
	}
}

func TestGetNotificationScopedToUser(t *testing.T) {
	svc, repo := newNotificationService(t)
	owner := uuid.New()
	n := &types.Notification{ID: uuid.New(), UserID: owner, Type: "project_assigned", Title: "t", Message: "m"}
	repo.notifications = append(repo.notifications, n)

	got, err := svc.GetNotification(notificationCtx(owner), n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != n.ID {
		t.Fatalf("wrong notification returned")
	}

	if _, err := svc.GetNotification(notificationCtx(uuid.New()), n.ID); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
}
