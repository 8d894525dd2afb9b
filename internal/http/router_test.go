package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/audit"
	"github.com/sitetrack/sitetrack-backend/internal/authz"
	httpH "github.com/sitetrack/sitetrack-backend/internal/http/handlers"
	httpMW "github.com/sitetrack/sitetrack-backend/internal/http/middleware"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/services"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type stubTokenService struct {
	role string
}

func (s *stubTokenService) RegisterUser(ctx context.Context, in services.RegisterInput) (*types.User, error) {
	return nil, nil
}

func (s *stubTokenService) LoginUser(ctx context.Context, usernameOrEmail, password string) (string, string, error) {
	return "", "", nil
}

func (s *stubTokenService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	return "", "", nil
}

func (s *stubTokenService) LogoutUser(ctx context.Context, refreshToken string) error { return nil }

func (s *stubTokenService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      uuid.New(),
		Role:        s.role,
	}), nil
}

func (s *stubTokenService) GetMe(ctx context.Context) (*types.User, error) { return nil, nil }

func (s *stubTokenService) GetAccessTTL() time.Duration { return time.Hour }

type countingProjectService struct {
	createCalls int
	listCalls   int
}

func (s *countingProjectService) CreateProject(ctx context.Context, in services.ProjectCreateInput) (*types.Project, error) {
	s.createCalls++
	return &types.Project{ID: uuid.New()}, nil
}

func (s *countingProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, []*types.ProjectHistory, error) {
	return &types.Project{ID: projectID}, nil, nil
}

func (s *countingProjectService) ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, int64, error) {
	s.listCalls++
	return nil, 0, nil
}

func (s *countingProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, upd *audit.ProjectUpdate) (*types.Project, error) {
	return &types.Project{ID: projectID}, nil
}

func (s *countingProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (s *countingProjectService) ListForMap(ctx context.Context, status string) ([]*types.Project, error) {
	return nil, nil
}

func (s *countingProjectService) ListHistory(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, int64, error) {
	return nil, 0, nil
}

func (s *countingProjectService) BulkAction(ctx context.Context, in services.BulkActionInput) (*services.BulkActionResult, error) {
	return &services.BulkActionResult{}, nil
}

func (s *countingProjectService) Stats(ctx context.Context) (*services.ProjectStats, error) {
	return &services.ProjectStats{}, nil
}

func TestNewServerBuildsEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	s := NewServer(RouterConfig{Log: log})
	if s == nil || s.Engine == nil {
		t.Fatalf("server must carry a configured engine")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	s.Engine.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unconfigured handler must not be routed, got %d", w.Code)
	}
}

func TestRouterGatesMutatingProjectRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	tokens := &stubTokenService{role: authz.RoleViewer}
	projects := &countingProjectService{}

	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, tokens),
		ProjectHandler: httpH.NewProjectHandler(projects),
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer sometoken")
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		r.ServeHTTP(w, req)
		return w
	}

	// Viewers can read but not mutate.
	if w := do(http.MethodGet, "/api/v1/projects", ""); w.Code != http.StatusOK {
		t.Fatalf("viewer list: expected 200, got %d", w.Code)
	}
	if w := do(http.MethodPost, "/api/v1/projects", `{"site_code":"ILN-001"}`); w.Code != http.StatusForbidden {
		t.Fatalf("viewer create: expected 403, got %d", w.Code)
	}
	if w := do(http.MethodPost, "/api/v1/projects/bulk", `{"action":"delete","project_ids":[]}`); w.Code != http.StatusForbidden {
		t.Fatalf("viewer bulk: expected 403, got %d", w.Code)
	}
	if projects.createCalls != 0 {
		t.Fatalf("viewer request must be rejected before the handler runs")
	}

	tokens.role = authz.RoleEditor
	if w := do(http.MethodPost, "/api/v1/projects", `{"site_code":"ILN-001"}`); w.Code != http.StatusCreated {
		t.Fatalf("editor create: expected 201, got %d", w.Code)
	}
	if projects.createCalls != 1 {
		t.Fatalf("editor create must reach the handler once, got %d", projects.createCalls)
	}
}
