package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/audit"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/services"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

type stubProjectService struct {
	lastFilter repos.ProjectFilter
	listCalls  int
}

func (s *stubProjectService) CreateProject(ctx context.Context, in services.ProjectCreateInput) (*types.Project, error) {
	return &types.Project{ID: uuid.New()}, nil
}

func (s *stubProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, []*types.ProjectHistory, error) {
	return nil, nil, nil
}

func (s *stubProjectService) ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, int64, error) {
	s.listCalls++
	s.lastFilter = filter
	return nil, 0, nil
}

func (s *stubProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, upd *audit.ProjectUpdate) (*types.Project, error) {
	return nil, nil
}

func (s *stubProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return nil
}

func (s *stubProjectService) ListForMap(ctx context.Context, status string) ([]*types.Project, error) {
	return nil, nil
}

func (s *stubProjectService) ListHistory(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, int64, error) {
	return nil, 0, nil
}

func (s *stubProjectService) BulkAction(ctx context.Context, in services.BulkActionInput) (*services.BulkActionResult, error) {
	return &services.BulkActionResult{}, nil
}

func (s *stubProjectService) Stats(ctx context.Context) (*services.ProjectStats, error) {
	return &services.ProjectStats{}, nil
}

func newProjectTestRouter(stub *stubProjectService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects", NewProjectHandler(stub).ListProjects)
	return r
}

func TestListProjectsPagination(t *testing.T) {
	stub := &stubProjectService{}
	r := newProjectTestRouter(stub)

	cases := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"page without limit uses the default size", "?page=3", 40, 20},
		{"explicit limit drives the offset", "?page=2&limit=10", 10, 10},
		{"oversized limit is clamped before paging", "?page=2&limit=500", 100, 100},
		{"defaults", "", 0, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/projects"+tc.query, nil)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if stub.lastFilter.Offset != tc.wantOffset || stub.lastFilter.Limit != tc.wantLimit {
				t.Fatalf("got offset=%d limit=%d, want offset=%d limit=%d",
					stub.lastFilter.Offset, stub.lastFilter.Limit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}
