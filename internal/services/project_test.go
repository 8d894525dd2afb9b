package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/audit"
	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/services"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// ---- fakes ----

type fakeProjectRepo struct {
	projects map[uuid.UUID]*types.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uuid.UUID]*types.Project{}}
}

func (f *fakeProjectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return projects, nil
}

func (f *fakeProjectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error) {
	var out []*types.Project
	for _, id := range projectIDs {
		if p, ok := f.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) GetByIDsForUpdate(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error) {
	return f.GetByIDs(ctx, tx, projectIDs)
}

func (f *fakeProjectRepo) SiteCodeExists(ctx context.Context, tx *gorm.DB, siteCode string) (bool, error) {
	for _, p := range f.projects {
		if p.SiteCode == siteCode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectRepo) List(ctx context.Context, tx *gorm.DB, filter repos.ProjectFilter) ([]*types.Project, int64, error) {
	all, _ := f.ListAll(ctx, tx, filter.Status)
	return all, int64(len(all)), nil
}

func (f *fakeProjectRepo) ListAll(ctx context.Context, tx *gorm.DB, status string) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range f.projects {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) ListCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Project, error) {
	return f.ListAll(ctx, tx, "")
}

func (f *fakeProjectRepo) ListByProvince(ctx context.Context, tx *gorm.DB, province string) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range f.projects {
		if p.Province == province {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Save(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return errors.New("project vanished")
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	delete(f.projects, projectID)
	return nil
}

func (f *fakeProjectRepo) ReplaceTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error {
	project.Tags = tags
	return nil
}

func (f *fakeProjectRepo) AppendTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error {
	project.Tags = append(project.Tags, tags...)
	return nil
}

func (f *fakeProjectRepo) CountTotal(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(f.projects)), nil
}

func (f *fakeProjectRepo) CountCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return int64(len(f.projects)), nil
}

func (f *fakeProjectRepo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	out := map[string]int64{}
	for _, p := range f.projects {
		out[p.Status]++
	}
	return out, nil
}

func (f *fakeProjectRepo) CountByProvince(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	out := map[string]int64{}
	for _, p := range f.projects {
		out[p.Province]++
	}
	return out, nil
}

func (f *fakeProjectRepo) HeatMap(ctx context.Context, tx *gorm.DB, status string) ([]repos.HeatPoint, error) {
	return nil, nil
}

type fakeHistoryRepo struct {
	records []*types.ProjectHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ProjectHistory) ([]*types.ProjectHistory, error) {
	f.records = append(f.records, records...)
	return records, nil
}

func (f *fakeHistoryRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, error) {
	var out []*types.ProjectHistory
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].ProjectID == projectID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) CountByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistoryRepo) byProject(projectID uuid.UUID) []*types.ProjectHistory {
	var out []*types.ProjectHistory
	for _, r := range f.records {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out
}

type fakeTagRepo struct {
	tags map[uuid.UUID]*types.Tag
}

func (f *fakeTagRepo) Create(ctx context.Context, tx *gorm.DB, tags []*types.Tag) ([]*types.Tag, error) {
	for _, tag := range tags {
		f.tags[tag.ID] = tag
	}
	return tags, nil
}

func (f *fakeTagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) ([]*types.Tag, error) {
	var out []*types.Tag
	for _, id := range tagIDs {
		if tag, ok := f.tags[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (f *fakeTagRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	for _, tag := range f.tags {
		if tag.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTagRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Tag, error) {
	var out []*types.Tag
	for _, tag := range f.tags {
		out = append(out, tag)
	}
	return out, nil
}

func (f *fakeTagRepo) Save(ctx context.Context, tx *gorm.DB, tag *types.Tag) error {
	f.tags[tag.ID] = tag
	return nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) error {
	delete(f.tags, tagID)
	return nil
}

func (f *fakeTagRepo) ListProjects(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) ([]*types.Project, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		f.users[u.ID] = u
	}
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByUsernameOrEmail(ctx context.Context, tx *gorm.DB, usernameOrEmail string) (*types.User, error) {
	for _, u := range f.users {
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	u, _ := f.GetByUsernameOrEmail(ctx, tx, username)
	return u != nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	u, _ := f.GetByUsernameOrEmail(ctx, tx, email)
	return u != nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context, tx *gorm.DB, role string, offset, limit int) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, tx *gorm.DB, user *types.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	delete(f.users, userID)
	return nil
}

type fakeNotificationRepo struct {
	notifications []*types.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error) {
	f.notifications = append(f.notifications, notifications...)
	return notifications, nil
}

func (f *fakeNotificationRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) (*types.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]*types.Notification, error) {
	var out []*types.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, readAt time.Time) error {
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeActivityRepo struct {
	entries []*types.ActivityLog
}

func (f *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ActivityLog) ([]*types.ActivityLog, error) {
	f.entries = append(f.entries, entries...)
	return entries, nil
}

func (f *fakeActivityRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLog, error) {
	return f.entries, nil
}

// ---- harness ----

type harness struct {
	svc           services.ProjectService
	projects      *fakeProjectRepo
	history       *fakeHistoryRepo
	tags          *fakeTagRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	activity      *fakeActivityRepo
	editor        *types.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	h := &harness{
		projects:      newFakeProjectRepo(),
		history:       &fakeHistoryRepo{},
		tags:          &fakeTagRepo{tags: map[uuid.UUID]*types.Tag{}},
		users:         &fakeUserRepo{users: map[uuid.UUID]*types.User{}},
		notifications: &fakeNotificationRepo{},
		activity:      &fakeActivityRepo{},
	}
	h.editor = &types.User{ID: uuid.New(), Username: "editor1", Role: authz.RoleEditor, IsActive: true}
	h.users.users[h.editor.ID] = h.editor

	h.svc = services.NewProjectService(db, log, h.projects, h.history, h.tags, h.users, h.notifications, h.activity)
	return h
}

func (h *harness) ctx() context.Context {
	return h.ctxAs(h.editor)
}

func (h *harness) ctxAs(user *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: user.ID,
		Role:   user.Role,
	})
}

func (h *harness) seedProject(t *testing.T, status string, assignedTo *uuid.UUID) *types.Project {
	t.Helper()
	project := &types.Project{
		ID:          uuid.New(),
		SiteCode:    "SITE-" + uuid.New().String()[:8],
		ProjectName: "Tower Upgrade",
		SiteName:    "Site A",
		Province:    "Ilocos Norte",
		Status:      status,
		AssignedTo:  assignedTo,
		CreatedBy:   h.editor.ID,
	}
	h.projects.projects[project.ID] = project
	return project
}

// ---- tests ----

func TestCreateProjectWritesCreationRecord(t *testing.T) {
	h := newHarness(t)
	project, err := h.svc.CreateProject(h.ctx(), services.ProjectCreateInput{
		SiteCode:       "ILN-001",
		ProjectName:    "Fiber Rollout",
		SiteName:       "Laoag Central",
		Province:       "Ilocos Norte",
		Latitude:       18.19,
		Longitude:      120.59,
		ActivationDate: "2024-03-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.Status != types.StatusPlanning {
		t.Fatalf("default status should be planning, got %s", project.Status)
	}

	records := h.history.byProject(project.ID)
	if len(records) != 1 {
		t.Fatalf("expected exactly one creation record, got %d", len(records))
	}
	rec := records[0]
	if rec.OldStatus != nil {
		t.Fatalf("creation record must have no old status")
	}
	if rec.NewStatus == nil || *rec.NewStatus != types.StatusPlanning {
		t.Fatalf("creation record must carry initial status")
	}
	if rec.ChangeReason == nil || *rec.ChangeReason != audit.CreationReason {
		t.Fatalf("creation reason missing")
	}
	if len(h.activity.entries) != 1 || h.activity.entries[0].Action != "project_created" {
		t.Fatalf("activity log entry missing")
	}

	// Same site code again is rejected.
	_, err = h.svc.CreateProject(h.ctx(), services.ProjectCreateInput{
		SiteCode:       "ILN-001",
		ProjectName:    "Duplicate",
		SiteName:       "Laoag Central",
		Latitude:       18.19,
		Longitude:      120.59,
		ActivationDate: "2024-03-01",
	})
	if !errors.Is(err, pkgerr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProjectRecordsStatusChange(t *testing.T) {
	h := newHarness(t)
	project := h.seedProject(t, types.StatusPlanning, nil)

	status := "in_progress"
	notes := "crew mobilized"
	_, err := h.svc.UpdateProject(h.ctx(), project.ID, &audit.ProjectUpdate{
		Status: &status,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	records := h.history.byProject(project.ID)
	if len(records) != 1 {
		t.Fatalf("expected one history record, got %d", len(records))
	}
	rec := records[0]
	if rec.OldStatus == nil || *rec.OldStatus != types.StatusPlanning {
		t.Fatalf("old status must be the pre-update value, got %v", rec.OldStatus)
	}
	if rec.NewStatus == nil || *rec.NewStatus != types.StatusInProgress {
		t.Fatalf("new status wrong: %v", rec.NewStatus)
	}
	var cs map[string]map[string]any
	if err := json.Unmarshal(rec.ChangedFields, &cs); err != nil {
		t.Fatalf("changed_fields not JSON: %v", err)
	}
	if _, ok := cs["status"]; !ok {
		t.Fatalf("changed_fields must contain status")
	}
	if _, ok := cs["notes"]; ok {
		t.Fatalf("notes edits are not tracked")
	}
	if project.Notes != "crew mobilized" {
		t.Fatalf("notes not applied")
	}
}

func TestUpdateProjectNotesOnlyNoRecord(t *testing.T) {
	h := newHarness(t)
	project := h.seedProject(t, types.StatusPlanning, nil)

	notes := "just a note"
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, &audit.ProjectUpdate{Notes: &notes}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(h.history.byProject(project.ID)) != 0 {
		t.Fatalf("untracked-field edit must not write history")
	}
	if project.Notes != "just a note" {
		t.Fatalf("notes must still be applied")
	}
}

func TestUpdateProjectIdempotentStatus(t *testing.T) {
	h := newHarness(t)
	project := h.seedProject(t, types.StatusInProgress, nil)

	status := "In_Progress"
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, &audit.ProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(h.history.byProject(project.ID)) != 0 {
		t.Fatalf("same status (case-insensitive) must not write history")
	}
}

func TestUpdateProjectReasonOnly(t *testing.T) {
	h := newHarness(t)
	project := h.seedProject(t, types.StatusPlanning, nil)

	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, &audit.ProjectUpdate{ChangeReason: "audit note"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	records := h.history.byProject(project.ID)
	if len(records) != 1 {
		t.Fatalf("a bare reason still warrants a record, got %d", len(records))
	}
	if records[0].OldStatus != nil || records[0].NewStatus != nil {
		t.Fatalf("status pair must stay null")
	}
}

func TestUpdateProjectUnassign(t *testing.T) {
	h := newHarness(t)
	assignee := &types.User{ID: uuid.New(), Username: "tech1", Role: authz.RoleEditor, IsActive: true}
	h.users.users[assignee.ID] = assignee
	project := h.seedProject(t, types.StatusInProgress, &assignee.ID)

	var upd audit.ProjectUpdate
	if err := json.Unmarshal([]byte(`{"assigned_to":null}`), &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	records := h.history.byProject(project.ID)
	if len(records) != 1 {
		t.Fatalf("unassign must write history, got %d records", len(records))
	}
	rec := records[0]
	if rec.OldAssignedTo == nil || *rec.OldAssignedTo != assignee.ID {
		t.Fatalf("old assignee not recorded")
	}
	if rec.NewAssignedTo != nil {
		t.Fatalf("new assignee must be null after unassign")
	}
	if project.AssignedTo != nil {
		t.Fatalf("project must be unassigned")
	}
}

func TestUpdateProjectViewerForbidden(t *testing.T) {
	h := newHarness(t)
	project := h.seedProject(t, types.StatusPlanning, nil)
	viewer := &types.User{ID: uuid.New(), Username: "viewer1", Role: authz.RoleViewer, IsActive: true}
	h.users.users[viewer.ID] = viewer

	status := "done"
	_, err := h.svc.UpdateProject(h.ctxAs(viewer), project.ID, &audit.ProjectUpdate{Status: &status})
	if !errors.Is(err, pkgerr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(h.history.byProject(project.ID)) != 0 {
		t.Fatalf("denied update must not write history")
	}
}

func TestBulkUpdateStatusPartialFailure(t *testing.T) {
	h := newHarness(t)
	p1 := h.seedProject(t, types.StatusPlanning, nil)
	p2 := h.seedProject(t, types.StatusOnHold, nil)
	missing := uuid.New()

	result, err := h.svc.BulkAction(h.ctx(), services.BulkActionInput{
		ProjectIDs: []uuid.UUID{p1.ID, missing, p2.ID},
		Action:     services.BulkUpdateStatus,
		Status:     "done",
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if result.SuccessCount != 2 || result.FailedCount != 1 {
		t.Fatalf("expected 2 ok / 1 failed, got %d/%d", result.SuccessCount, result.FailedCount)
	}
	if len(result.Errors) != 1 || result.Errors[0].SiteCode != missing.String() {
		t.Fatalf("failure must be keyed by identifier, got %+v", result.Errors)
	}

	// Histories carry the true pre-mutation status of each project.
	r1 := h.history.byProject(p1.ID)
	if len(r1) != 1 || r1[0].OldStatus == nil || *r1[0].OldStatus != types.StatusPlanning {
		t.Fatalf("p1 history wrong: %+v", r1)
	}
	r2 := h.history.byProject(p2.ID)
	if len(r2) != 1 || r2[0].OldStatus == nil || *r2[0].OldStatus != types.StatusOnHold {
		t.Fatalf("p2 history wrong: %+v", r2)
	}
	if p1.Status != types.StatusDone || p2.Status != types.StatusDone {
		t.Fatalf("statuses not applied")
	}
}

func TestBulkDeleteIsolation(t *testing.T) {
	h := newHarness(t)
	p1 := h.seedProject(t, types.StatusPlanning, nil)
	missing := uuid.New()

	result, err := h.svc.BulkAction(h.ctx(), services.BulkActionInput{
		ProjectIDs: []uuid.UUID{p1.ID, missing},
		Action:     services.BulkDelete,
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("expected 1 ok / 1 failed, got %d/%d", result.SuccessCount, result.FailedCount)
	}
	if _, ok := h.projects.projects[p1.ID]; ok {
		t.Fatalf("p1 should be deleted")
	}
}

func TestBulkRejectsUnknownAction(t *testing.T) {
	h := newHarness(t)
	p1 := h.seedProject(t, types.StatusPlanning, nil)

	_, err := h.svc.BulkAction(h.ctx(), services.BulkActionInput{
		ProjectIDs: []uuid.UUID{p1.ID},
		Action:     "archive",
	})
	if !errors.Is(err, pkgerr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestStatusChangeNotifiesCreator(t *testing.T) {
	h := newHarness(t)
	creator := &types.User{ID: uuid.New(), Username: "owner", Role: authz.RoleEditor, IsActive: true}
	h.users.users[creator.ID] = creator
	project := h.seedProject(t, types.StatusInProgress, nil)
	project.CreatedBy = creator.ID

	status := "done"
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, &audit.ProjectUpdate{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var found bool
	for _, n := range h.notifications.notifications {
		if n.UserID == creator.ID && n.Type == types.NotifyProjectCompleted {
			found = true
			if !strings.Contains(n.Message, project.SiteCode) {
				t.Fatalf("notification message should name the site code: %q", n.Message)
			}
		}
	}
	if !found {
		t.Fatalf("creator must be notified of completion")
	}
}

func TestAssignNotifiesAssignee(t *testing.T) {
	h := newHarness(t)
	assignee := &types.User{ID: uuid.New(), Username: "tech2", Role: authz.RoleViewer, IsActive: true}
	h.users.users[assignee.ID] = assignee
	project := h.seedProject(t, types.StatusPlanning, nil)

	upd := &audit.ProjectUpdate{AssignedTo: &assignee.ID, AssignedToSet: true}
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	var found bool
	for _, n := range h.notifications.notifications {
		if n.UserID == assignee.ID && n.Type == types.NotifyProjectAssigned {
			found = true
		}
	}
	if !found {
		t.Fatalf("assignee must be notified")
	}

	// Assigning the same user again changes nothing and stays quiet.
	before := len(h.notifications.notifications)
	if _, err := h.svc.UpdateProject(h.ctx(), project.ID, upd); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(h.notifications.notifications) != before {
		t.Fatalf("no-op assignment must not notify")
	}
	if len(h.history.byProject(project.ID)) != 1 {
		t.Fatalf("no-op assignment must not write history")
	}
}
