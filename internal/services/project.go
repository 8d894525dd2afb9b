package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/audit"
	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/requestdata"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	historyPageSize = 50
	detailHistory   = 20
)

type ProjectCreateInput struct {
	SiteCode       string      `json:"site_code"`
	ProjectName    string      `json:"project_name"`
	SiteName       string      `json:"site_name"`
	Barangay       string      `json:"barangay"`
	Municipality   string      `json:"municipality"`
	Province       string      `json:"province"`
	District       string      `json:"district"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	ActivationDate string      `json:"activation_date"`
	CompletionDate string      `json:"completion_date"`
	Status         string      `json:"status"`
	Notes          string      `json:"notes"`
	Progress       int         `json:"progress"`
	AssignedTo     *uuid.UUID  `json:"assigned_to"`
	Tags           []uuid.UUID `json:"tags"`
}

// Bulk actions.
const (
	BulkDelete       = "delete"
	BulkUpdateStatus = "update_status"
	BulkAssign       = "assign"
	BulkAddTags      = "add_tags"
)

type BulkActionInput struct {
	ProjectIDs []uuid.UUID `json:"project_ids"`
	Action     string      `json:"action"`
	Status     string      `json:"status"`
	AssignedTo *uuid.UUID  `json:"assigned_to"`
	TagIDs     []uuid.UUID `json:"tag_ids"`
	Reason     string      `json:"reason"`
}

// BulkItemError reports one failed item, keyed by site code. When the
// project could not even be loaded the raw ID stands in for the code.
type BulkItemError struct {
	SiteCode string `json:"site_code"`
	Error    string `json:"error"`
}

type BulkActionResult struct {
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	Errors       []BulkItemError `json:"errors"`
}

type ProjectStats struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByProvince    map[string]int64 `json:"by_province"`
	RecentCount   int64            `json:"recent_count"`
	CompletedRate float64          `json:"completed_rate"`
}

type ProjectService interface {
	CreateProject(ctx context.Context, in ProjectCreateInput) (*types.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, []*types.ProjectHistory, error)
	ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, int64, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, upd *audit.ProjectUpdate) (*types.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
	ListForMap(ctx context.Context, status string) ([]*types.Project, error)
	ListHistory(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, int64, error)
	BulkAction(ctx context.Context, in BulkActionInput) (*BulkActionResult, error)
	Stats(ctx context.Context) (*ProjectStats, error)
}

type projectService struct {
	db               *gorm.DB
	log              *logger.Logger
	projectRepo      repos.ProjectRepo
	historyRepo      repos.ProjectHistoryRepo
	tagRepo          repos.TagRepo
	userRepo         repos.UserRepo
	notificationRepo repos.NotificationRepo
	activityRepo     repos.ActivityLogRepo
}

func NewProjectService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	historyRepo repos.ProjectHistoryRepo,
	tagRepo repos.TagRepo,
	userRepo repos.UserRepo,
	notificationRepo repos.NotificationRepo,
	activityRepo repos.ActivityLogRepo,
) ProjectService {
	return &projectService{
		db:               db,
		log:              baseLog.With("service", "ProjectService"),
		projectRepo:      projectRepo,
		historyRepo:      historyRepo,
		tagRepo:          tagRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		activityRepo:     activityRepo,
	}
}

func editor(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: not authenticated", pkgerr.ErrUnauthorized)
	}
	if !authz.CanEdit(rd.Role) {
		return nil, fmt.Errorf("%w: editor role required", pkgerr.ErrForbidden)
	}
	return rd, nil
}

func viewer(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: not authenticated", pkgerr.ErrUnauthorized)
	}
	return rd, nil
}

func (s *projectService) CreateProject(ctx context.Context, in ProjectCreateInput) (*types.Project, error) {
	rd, err := editor(ctx)
	if err != nil {
		return nil, err
	}

	in.SiteCode = strings.TrimSpace(in.SiteCode)
	if in.SiteCode == "" || in.ProjectName == "" || in.SiteName == "" {
		return nil, fmt.Errorf("%w: site_code, project_name and site_name are required", pkgerr.ErrInvalidArgument)
	}
	status := audit.NormalizeStatus(in.Status)
	if status == "" {
		status = types.StatusPlanning
	}
	if !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, in.Status)
	}
	if in.Progress < 0 || in.Progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", pkgerr.ErrInvalidArgument)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", pkgerr.ErrInvalidArgument)
	}
	activation, err := time.Parse("2006-01-02", in.ActivationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid activation_date", pkgerr.ErrInvalidArgument)
	}
	var completion *time.Time
	if in.CompletionDate != "" {
		t, err := time.Parse("2006-01-02", in.CompletionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid completion_date", pkgerr.ErrInvalidArgument)
		}
		completion = &t
	}

	if exists, err := s.projectRepo.SiteCodeExists(ctx, nil, in.SiteCode); err != nil {
		return nil, fmt.Errorf("check site code: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: site code %q already exists", pkgerr.ErrConflict, in.SiteCode)
	}
	if in.AssignedTo != nil {
		if err := s.requireUser(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	project := &types.Project{
		ID:             uuid.New(),
		SiteCode:       in.SiteCode,
		ProjectName:    in.ProjectName,
		SiteName:       in.SiteName,
		Barangay:       in.Barangay,
		Municipality:   in.Municipality,
		Province:       in.Province,
		District:       in.District,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		ActivationDate: activation,
		CompletionDate: completion,
		Status:         status,
		Notes:          in.Notes,
		Progress:       in.Progress,
		AssignedTo:     in.AssignedTo,
		CreatedBy:      rd.UserID,
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.projectRepo.Create(ctx, tx, []*types.Project{project}); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if len(in.Tags) > 0 {
			tags, err := s.tagRepo.GetByIDs(ctx, tx, in.Tags)
			if err != nil {
				return fmt.Errorf("load tags: %w", err)
			}
			if len(tags) != len(in.Tags) {
				return fmt.Errorf("%w: one or more tags not found", pkgerr.ErrInvalidArgument)
			}
			if err := s.projectRepo.ReplaceTags(ctx, tx, project, tags); err != nil {
				return fmt.Errorf("attach tags: %w", err)
			}
		}
		rec := audit.NewCreationRecord(project, rd.UserID)
		if _, err := s.historyRepo.Create(ctx, tx, []*types.ProjectHistory{rec}); err != nil {
			return fmt.Errorf("record creation: %w", err)
		}
		if err := s.logActivity(ctx, tx, rd.UserID, "project_created", project.ID, map[string]any{
			"site_code": project.SiteCode,
		}); err != nil {
			return err
		}
		if project.AssignedTo != nil && *project.AssignedTo != rd.UserID {
			return s.notify(ctx, tx, *project.AssignedTo, types.NotifyProjectAssigned,
				"Project assigned to you",
				fmt.Sprintf("You have been assigned to %s (%s)", project.ProjectName, project.SiteCode),
				project)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("Project created", "site_code", project.SiteCode, "created_by", rd.UserID.String())
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, []*types.ProjectHistory, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, nil, err
	}
	project, err := s.loadProject(ctx, nil, projectID)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.historyRepo.ListByProject(ctx, nil, projectID, detailHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	return project, history, nil
}

func (s *projectService) ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, int64, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, 0, err
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}
	if filter.Status != "" && !types.ValidStatus(audit.NormalizeStatus(filter.Status)) {
		return nil, 0, fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, filter.Status)
	}
	filter.Status = audit.NormalizeStatus(filter.Status)
	return s.projectRepo.List(ctx, nil, filter)
}

// UpdateProject is the audited edit path: capture the pre-image, validate,
// apply, diff, persist project and audit entry in one transaction.
func (s *projectService) UpdateProject(ctx context.Context, projectID uuid.UUID, upd *audit.ProjectUpdate) (*types.Project, error) {
	rd, err := editor(ctx)
	if err != nil {
		return nil, err
	}
	if upd == nil {
		return nil, fmt.Errorf("%w: empty update", pkgerr.ErrInvalidArgument)
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if upd.AssignedToSet && upd.AssignedTo != nil {
		if err := s.requireUser(ctx, *upd.AssignedTo); err != nil {
			return nil, err
		}
	}

	var project *types.Project
	var cs audit.ChangeSet
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = s.loadProjectForUpdate(ctx, tx, projectID)
		if err != nil {
			return err
		}
		cs, err = s.applyAndRecord(ctx, tx, project, upd, rd.UserID)
		if err != nil {
			return err
		}
		if len(cs) > 0 {
			if err := s.logActivity(ctx, tx, rd.UserID, "project_updated", project.ID, cs); err != nil {
				return err
			}
		}
		return s.notifyChanges(ctx, tx, project, cs, rd.UserID)
	}); err != nil {
		return nil, err
	}
	return project, nil
}

// applyAndRecord mutates the project per the update, saves it, syncs tags
// and appends the audit entry when one is warranted. Must run inside tx.
func (s *projectService) applyAndRecord(ctx context.Context, tx *gorm.DB, project *types.Project, upd *audit.ProjectUpdate, actorID uuid.UUID) (audit.ChangeSet, error) {
	prev := audit.TakeSnapshot(project)
	upd.Apply(project)
	cs := audit.ComputeChangeSet(prev, upd)

	if err := s.projectRepo.Save(ctx, tx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	if upd.Tags != nil {
		tags, err := s.tagRepo.GetByIDs(ctx, tx, *upd.Tags)
		if err != nil {
			return nil, fmt.Errorf("load tags: %w", err)
		}
		if len(tags) != len(*upd.Tags) {
			return nil, fmt.Errorf("%w: one or more tags not found", pkgerr.ErrInvalidArgument)
		}
		if err := s.projectRepo.ReplaceTags(ctx, tx, project, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
	}

	rec, err := audit.NewHistoryRecord(project.ID, cs, actorID, upd.ChangeReason)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if _, err := s.historyRepo.Create(ctx, tx, []*types.ProjectHistory{rec}); err != nil {
			return nil, fmt.Errorf("record history: %w", err)
		}
	}
	return cs, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	rd, err := editor(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := s.loadProjectForUpdate(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if err := s.projectRepo.Delete(ctx, tx, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return s.logActivity(ctx, tx, rd.UserID, "project_deleted", projectID, map[string]any{
			"site_code": project.SiteCode,
		})
	})
}

func (s *projectService) ListForMap(ctx context.Context, status string) ([]*types.Project, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	status = audit.NormalizeStatus(status)
	if status != "" && !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, status)
	}
	return s.projectRepo.ListAll(ctx, nil, status)
}

func (s *projectService) ListHistory(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ProjectHistory, int64, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, 0, err
	}
	if _, err := s.loadProject(ctx, nil, projectID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = historyPageSize
	}
	records, err := s.historyRepo.ListByProject(ctx, nil, projectID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("load history: %w", err)
	}
	total, err := s.historyRepo.CountByProject(ctx, nil, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}
	return records, total, nil
}

// BulkAction runs one action across many projects. Each item gets its own
// transaction, so one failure never rolls back the others; the result
// reports per-item errors keyed by site code.
func (s *projectService) BulkAction(ctx context.Context, in BulkActionInput) (*BulkActionResult, error) {
	rd, err := editor(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.ProjectIDs) == 0 {
		return nil, fmt.Errorf("%w: project_ids is required", pkgerr.ErrInvalidArgument)
	}

	var tags []*types.Tag
	switch in.Action {
	case BulkDelete:
	case BulkUpdateStatus:
		in.Status = audit.NormalizeStatus(in.Status)
		if !types.ValidStatus(in.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, in.Status)
		}
	case BulkAssign:
		if in.AssignedTo != nil {
			if err := s.requireUser(ctx, *in.AssignedTo); err != nil {
				return nil, err
			}
		}
	case BulkAddTags:
		if len(in.TagIDs) == 0 {
			return nil, fmt.Errorf("%w: tag_ids is required", pkgerr.ErrInvalidArgument)
		}
		tags, err = s.tagRepo.GetByIDs(ctx, nil, in.TagIDs)
		if err != nil {
			return nil, fmt.Errorf("load tags: %w", err)
		}
		if len(tags) != len(in.TagIDs) {
			return nil, fmt.Errorf("%w: one or more tags not found", pkgerr.ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %q", pkgerr.ErrInvalidArgument, in.Action)
	}

	result := &BulkActionResult{Errors: []BulkItemError{}}
	for _, projectID := range in.ProjectIDs {
		siteCode := projectID.String()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			project, err := s.loadProjectForUpdate(ctx, tx, projectID)
			if err != nil {
				return err
			}
			siteCode = project.SiteCode
			switch in.Action {
			case BulkDelete:
				return s.projectRepo.Delete(ctx, tx, projectID)
			case BulkUpdateStatus:
				upd := &audit.ProjectUpdate{Status: &in.Status, ChangeReason: in.Reason}
				cs, err := s.applyAndRecord(ctx, tx, project, upd, rd.UserID)
				if err != nil {
					return err
				}
				return s.notifyChanges(ctx, tx, project, cs, rd.UserID)
			case BulkAssign:
				upd := &audit.ProjectUpdate{AssignedTo: in.AssignedTo, AssignedToSet: true, ChangeReason: in.Reason}
				cs, err := s.applyAndRecord(ctx, tx, project, upd, rd.UserID)
				if err != nil {
					return err
				}
				return s.notifyChanges(ctx, tx, project, cs, rd.UserID)
			case BulkAddTags:
				return s.projectRepo.AppendTags(ctx, tx, project, tags)
			}
			return nil
		})
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, BulkItemError{SiteCode: siteCode, Error: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	if err := s.logActivity(ctx, nil, rd.UserID, "bulk_"+in.Action, uuid.Nil, map[string]any{
		"requested": len(in.ProjectIDs),
		"succeeded": result.SuccessCount,
		"failed":    result.FailedCount,
	}); err != nil {
		s.log.Warn("Failed to log bulk activity", "error", err.Error())
	}
	s.log.Info("Bulk action finished",
		"action", in.Action,
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount)
	return result, nil
}

func (s *projectService) Stats(ctx context.Context) (*ProjectStats, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	total, err := s.projectRepo.CountTotal(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	byStatus, err := s.projectRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byProvince, err := s.projectRepo.CountByProvince(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by province: %w", err)
	}
	recent, err := s.projectRepo.CountCreatedSince(ctx, nil, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("count recent: %w", err)
	}
	stats := &ProjectStats{
		Total:       total,
		ByStatus:    byStatus,
		ByProvince:  byProvince,
		RecentCount: recent,
	}
	if total > 0 {
		stats.CompletedRate = float64(byStatus[types.StatusDone]) / float64(total) * 100
	}
	return stats, nil
}

func (s *projectService) loadProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error) {
	projects, err := s.projectRepo.GetByIDs(ctx, tx, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: project", pkgerr.ErrNotFound)
	}
	return projects[0], nil
}

func (s *projectService) loadProjectForUpdate(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.Project, error) {
	projects, err := s.projectRepo.GetByIDsForUpdate(ctx, tx, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: project", pkgerr.ErrNotFound)
	}
	return projects[0], nil
}

func (s *projectService) requireUser(ctx context.Context, userID uuid.UUID) error {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || !users[0].IsActive {
		return fmt.Errorf("%w: assignee not found or inactive", pkgerr.ErrInvalidArgument)
	}
	return nil
}

// notifyChanges fans out notifications driven by the change-set of one edit.
func (s *projectService) notifyChanges(ctx context.Context, tx *gorm.DB, project *types.Project, cs audit.ChangeSet, actorID uuid.UUID) error {
	if fc, ok := cs["assigned_to"]; ok {
		if newAssignee, ok := fc.New.(*uuid.UUID); ok && newAssignee != nil && *newAssignee != actorID {
			if err := s.notify(ctx, tx, *newAssignee, types.NotifyProjectAssigned,
				"Project assigned to you",
				fmt.Sprintf("You have been assigned to %s (%s)", project.ProjectName, project.SiteCode),
				project); err != nil {
				return err
			}
		}
	}
	fc, ok := cs["status"]
	if !ok {
		return nil
	}
	newStatus, _ := fc.New.(string)
	notifyType := types.NotifyProjectStatusChanged
	title := "Project status changed"
	if newStatus == types.StatusDone {
		notifyType = types.NotifyProjectCompleted
		title = "Project completed"
	}
	message := fmt.Sprintf("%s (%s) moved to %s", project.ProjectName, project.SiteCode, newStatus)

	recipients := map[uuid.UUID]struct{}{}
	if project.CreatedBy != actorID {
		recipients[project.CreatedBy] = struct{}{}
	}
	if project.AssignedTo != nil && *project.AssignedTo != actorID {
		recipients[*project.AssignedTo] = struct{}{}
	}
	for userID := range recipients {
		if err := s.notify(ctx, tx, userID, notifyType, title, message, project); err != nil {
			return err
		}
	}
	return nil
}

func (s *projectService) notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notifyType, title, message string, project *types.Project) error {
	data, err := json.Marshal(map[string]any{
		"project_id": project.ID,
		"site_code":  project.SiteCode,
	})
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}
	notification := &types.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    notifyType,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(data),
	}
	if _, err := s.notificationRepo.Create(ctx, tx, []*types.Notification{notification}); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *projectService) logActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, entityID uuid.UUID, details any) error {
	var raw datatypes.JSON
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal activity details: %w", err)
		}
		raw = datatypes.JSON(b)
	}
	uid := userID
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		UserID:     &uid,
		Action:     action,
		EntityType: "project",
		EntityID:   entityID,
		Details:    raw,
	}
	if _, err := s.activityRepo.Create(ctx, tx, []*types.ActivityLog{entry}); err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}
