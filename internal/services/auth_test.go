package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/services"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*types.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return sessions, nil
}

func (f *fakeSessionRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.Session, error) {
	for _, s := range f.sessions {
		if s.RefreshToken == refreshToken {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error {
	return nil
}

func newAuthService(t *testing.T) (services.AuthService, *fakeUserRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	users := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	sessions := &fakeSessionRepo{sessions: map[uuid.UUID]*types.Session{}}
	svc := services.NewAuthService(db, log, users, sessions, "test-secret", time.Hour, 24*time.Hour)
	return svc, users
}

func TestRegisterUserAlwaysStartsAsViewer(t *testing.T) {
	svc, users := newAuthService(t)

	user, err := svc.RegisterUser(context.Background(), services.RegisterInput{
		Username: "newcomer",
		Email:    "newcomer@example.com",
		Password: "hunter22",
		FullName: "New Comer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != authz.RoleViewer {
		t.Fatalf("self-registration must create a viewer, got %s", user.Role)
	}
	if stored := users.users[user.ID]; stored == nil || stored.Role != authz.RoleViewer {
		t.Fatalf("stored user must be a viewer")
	}
	if !user.IsActive {
		t.Fatalf("new accounts start active")
	}
}
