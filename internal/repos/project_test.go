package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// The production schema comes from the postgres migrator; tests run the same
// repos against in-memory sqlite with an equivalent hand-written schema, so
// every generated query has to stay portable SQL.
var testSchema = []string{
	`CREATE TABLE projects (
		id text PRIMARY KEY,
		site_code text NOT NULL UNIQUE,
		project_name text NOT NULL,
		site_name text NOT NULL,
		barangay text NOT NULL DEFAULT '',
		municipality text NOT NULL DEFAULT '',
		province text NOT NULL DEFAULT '',
		district text DEFAULT '',
		latitude real NOT NULL DEFAULT 0,
		longitude real NOT NULL DEFAULT 0,
		activation_date datetime,
		completion_date datetime,
		status text NOT NULL DEFAULT 'planning',
		notes text DEFAULT '',
		progress integer NOT NULL DEFAULT 0,
		assigned_to text,
		created_by text NOT NULL,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE tags (
		id text PRIMARY KEY,
		name text NOT NULL UNIQUE,
		color text DEFAULT '#3498db',
		description text DEFAULT '',
		created_by text,
		created_at datetime
	)`,
	`CREATE TABLE project_tags (
		project_id text NOT NULL,
		tag_id text NOT NULL,
		PRIMARY KEY (project_id, tag_id)
	)`,
	`CREATE TABLE project_history (
		id text PRIMARY KEY,
		project_id text NOT NULL,
		old_status text,
		new_status text,
		old_assigned_to text,
		new_assigned_to text,
		changed_fields text,
		changed_by text NOT NULL,
		change_reason text,
		created_at datetime
	)`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func seedProject(t *testing.T, repo repos.ProjectRepo, siteCode, name, province, status string, progress int, lat, lng float64) *types.Project {
	t.Helper()
	p := &types.Project{
		ID:             uuid.New(),
		SiteCode:       siteCode,
		ProjectName:    name,
		SiteName:       name + " Site",
		Province:       province,
		Municipality:   "Laoag",
		Latitude:       lat,
		Longitude:      lng,
		ActivationDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:         status,
		Progress:       progress,
		CreatedBy:      uuid.New(),
	}
	if _, err := repo.Create(context.Background(), nil, []*types.Project{p}); err != nil {
		t.Fatalf("seed %s: %v", siteCode, err)
	}
	return p
}

func TestSiteCodeExists(t *testing.T) {
	repo := repos.NewProjectRepo(openTestDB(t), testLogger(t))
	seedProject(t, repo, "ILN-001", "Fiber Rollout", "Ilocos Norte", types.StatusPlanning, 0, 18.19, 120.59)

	exists, err := repo.SiteCodeExists(context.Background(), nil, "ILN-001")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("ILN-001 should exist")
	}
	exists, err = repo.SiteCodeExists(context.Background(), nil, "ILN-999")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("ILN-999 should not exist")
	}
}

func TestListFiltersSearchAndSort(t *testing.T) {
	repo := repos.NewProjectRepo(openTestDB(t), testLogger(t))
	ctx := context.Background()
	seedProject(t, repo, "ILN-001", "Laoag Fiber", "Ilocos Norte", types.StatusInProgress, 40, 18.19, 120.59)
	seedProject(t, repo, "ILN-002", "Vigan Tower", "Ilocos Sur", types.StatusInProgress, 80, 17.57, 120.39)
	seedProject(t, repo, "ILN-003", "Batac Upgrade", "Ilocos Norte", types.StatusDone, 100, 18.05, 120.56)

	// Status filter.
	projects, total, err := repo.List(ctx, nil, repos.ProjectFilter{Status: types.StatusInProgress, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(projects) != 2 {
		t.Fatalf("expected 2 in_progress, got total=%d len=%d", total, len(projects))
	}

	// Province filter combined with status.
	projects, total, err = repo.List(ctx, nil, repos.ProjectFilter{
		Status:   types.StatusInProgress,
		Province: "Ilocos Norte",
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || projects[0].SiteCode != "ILN-001" {
		t.Fatalf("province filter wrong: total=%d", total)
	}

	// Search hits project_name.
	projects, total, err = repo.List(ctx, nil, repos.ProjectFilter{Search: "Vigan", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || projects[0].SiteCode != "ILN-002" {
		t.Fatalf("search wrong: total=%d", total)
	}

	// Sort by progress descending.
	projects, _, err = repo.List(ctx, nil, repos.ProjectFilter{SortBy: "progress", SortDesc: true, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 3 || projects[0].Progress != 100 || projects[2].Progress != 40 {
		t.Fatalf("sort wrong: %+v", projects)
	}

	// Unknown sort column falls back instead of injecting.
	if _, _, err := repo.List(ctx, nil, repos.ProjectFilter{SortBy: "id; DROP TABLE projects", Limit: 10}); err != nil {
		t.Fatalf("fallback sort: %v", err)
	}

	// Pagination.
	projects, total, err = repo.List(ctx, nil, repos.ProjectFilter{SortBy: "site_code", Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(projects) != 1 || projects[0].SiteCode != "ILN-002" {
		t.Fatalf("pagination wrong: total=%d", total)
	}
}

func TestCountByStatus(t *testing.T) {
	repo := repos.NewProjectRepo(openTestDB(t), testLogger(t))
	seedProject(t, repo, "A-1", "A", "P1", types.StatusPlanning, 0, 10, 10)
	seedProject(t, repo, "A-2", "B", "P1", types.StatusPlanning, 0, 10, 10)
	seedProject(t, repo, "A-3", "C", "P2", types.StatusDone, 100, 10, 10)

	counts, err := repo.CountByStatus(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[types.StatusPlanning] != 2 || counts[types.StatusDone] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	byProvince, err := repo.CountByProvince(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if byProvince["P1"] != 2 || byProvince["P2"] != 1 {
		t.Fatalf("unexpected province counts: %v", byProvince)
	}
}

func TestHeatMapBucketsRoundedCoordinates(t *testing.T) {
	repo := repos.NewProjectRepo(openTestDB(t), testLogger(t))
	// Two sites whose coordinates agree to two decimals share a bucket.
	seedProject(t, repo, "H-1", "A", "P1", types.StatusPlanning, 0, 18.1901, 120.5902)
	seedProject(t, repo, "H-2", "B", "P1", types.StatusPlanning, 0, 18.1898, 120.5899)
	seedProject(t, repo, "H-3", "C", "P1", types.StatusDone, 100, 17.5700, 120.3900)

	points, err := repo.HeatMap(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(points), points)
	}
	var merged bool
	for _, pt := range points {
		if pt.Count == 2 && pt.Status == types.StatusPlanning {
			merged = true
		}
	}
	if !merged {
		t.Fatalf("nearby sites should merge into one bucket: %+v", points)
	}

	points, err = repo.HeatMap(context.Background(), nil, types.StatusDone)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(points) != 1 || points[0].Count != 1 {
		t.Fatalf("status filter wrong: %+v", points)
	}
}

func TestReplaceTagsAndDelete(t *testing.T) {
	db := openTestDB(t)
	log := testLogger(t)
	projectRepo := repos.NewProjectRepo(db, log)
	tagRepo := repos.NewTagRepo(db, log)
	ctx := context.Background()

	project := seedProject(t, projectRepo, "T-1", "Tagged", "P1", types.StatusPlanning, 0, 10, 10)
	tag := &types.Tag{ID: uuid.New(), Name: "priority", Color: "#ff0000", CreatedBy: uuid.New()}
	if _, err := tagRepo.Create(ctx, nil, []*types.Tag{tag}); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	if err := projectRepo.ReplaceTags(ctx, nil, project, []*types.Tag{tag}); err != nil {
		t.Fatalf("replace tags: %v", err)
	}
	loaded, err := projectRepo.GetByIDs(ctx, nil, []uuid.UUID{project.ID})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || len(loaded[0].Tags) != 1 || loaded[0].Tags[0].Name != "priority" {
		t.Fatalf("tag not attached: %+v", loaded)
	}

	if err := projectRepo.Delete(ctx, nil, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	loaded, err = projectRepo.GetByIDs(ctx, nil, []uuid.UUID{project.ID})
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("project should be gone")
	}
}

func TestHistoryRepoAppendOnly(t *testing.T) {
	db := openTestDB(t)
	repo := repos.NewProjectHistoryRepo(db, testLogger(t))
	ctx := context.Background()
	projectID := uuid.New()

	oldStatus := types.StatusPlanning
	newStatus := types.StatusInProgress
	for i := 0; i < 3; i++ {
		rec := &types.ProjectHistory{
			ID:        uuid.New(),
			ProjectID: projectID,
			OldStatus: &oldStatus,
			NewStatus: &newStatus,
			ChangedBy: uuid.New(),
			CreatedAt: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if _, err := repo.Create(ctx, nil, []*types.ProjectHistory{rec}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	records, err := repo.ListByProject(ctx, nil, projectID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("limit ignored, got %d", len(records))
	}
	if !records[0].CreatedAt.After(records[1].CreatedAt) {
		t.Fatalf("records must come newest first")
	}

	total, err := repo.CountByProject(ctx, nil, projectID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 records, got %d", total)
	}
}
