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

func newTagService(t *testing.T) (services.TagService, *fakeTagRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	repo := &fakeTagRepo{tags: map[uuid.UUID]*types.Tag{}}
	return services.NewTagService(db, log, repo), repo
}

func TestGetTag(t *testing.T) {
	svc, repo := newTagService(t)
	tag := &types.Tag{ID: uuid.New(), Name: "fiber", Color: "#112233"}
	repo.tags[tag.ID] = tag
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   authz.RoleViewer,
	})

	got, err := svc.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if got.Name != "fiber" {
		t.Fatalf("wrong tag returned: %s", got.Name)
	}

	if _, err := svc.GetTag(ctx, uuid.New()); !errors.Is(err, pkgerr.ErrNotFound) {
		t.Fatalf("expected not found for unknown tag, got %v", err)
	}
}
