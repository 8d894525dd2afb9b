package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// ProjectFilter narrows project listings. Zero values mean "no filter".
type ProjectFilter struct {
	Status       string
	Province     string
	Municipality string
	District     string
	AssignedTo   *uuid.UUID
	Search       string
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
}

// GroupCount is one row of a grouped count aggregation.
type GroupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// HeatPoint is one rounded-coordinate bucket for the heat map.
type HeatPoint struct {
	Lat    float64 `gorm:"column:lat" json:"lat"`
	Lng    float64 `gorm:"column:lng" json:"lng"`
	Count  int64   `gorm:"column:count" json:"count"`
	Status string  `gorm:"column:status" json:"status"`
}

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error)
	GetByIDsForUpdate(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error)
	SiteCodeExists(ctx context.Context, tx *gorm.DB, siteCode string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filter ProjectFilter) ([]*types.Project, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB, status string) ([]*types.Project, error)
	ListCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Project, error)
	ListByProvince(ctx context.Context, tx *gorm.DB, province string) ([]*types.Project, error)
	Save(ctx context.Context, tx *gorm.DB, project *types.Project) error
	Delete(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
	ReplaceTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error
	AppendTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error
	CountTotal(ctx context.Context, tx *gorm.DB) (int64, error)
	CountCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	CountByProvince(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	HeatMap(ctx context.Context, tx *gorm.DB, status string) ([]HeatPoint, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(projects) == 0 {
		return []*types.Project{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if len(projectIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Tags").
		Where("id IN ?", projectIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByIDsForUpdate is the load used inside mutation transactions; it skips
// relation preloads so the row written back is exactly the row read.
func (r *projectRepo) GetByIDsForUpdate(ctx context.Context, tx *gorm.DB, projectIDs []uuid.UUID) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if len(projectIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", projectIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) SiteCodeExists(ctx context.Context, tx *gorm.DB, siteCode string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("site_code = ?", siteCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var sortableColumns = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"site_code":       "site_code",
	"project_name":    "project_name",
	"province":        "province",
	"municipality":    "municipality",
	"status":          "status",
	"progress":        "progress",
	"activation_date": "activation_date",
}

func (r *projectRepo) List(ctx context.Context, tx *gorm.DB, filter ProjectFilter) ([]*types.Project, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Project{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Province != "" {
		q = q.Where("province = ?", filter.Province)
	}
	if filter.Municipality != "" {
		q = q.Where("municipality = ?", filter.Municipality)
	}
	if filter.District != "" {
		q = q.Where("district = ?", filter.District)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		q = q.Where(
			"project_name LIKE ? OR site_name LIKE ? OR site_code LIKE ? OR barangay LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortableColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := column + " ASC"
	if filter.SortDesc {
		order = column + " DESC"
	}

	var results []*types.Project
	if err := q.Preload("Tags").
		Order(order).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *projectRepo) ListAll(ctx context.Context, tx *gorm.DB, status string) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Project{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var results []*types.Project
	if err := q.Preload("Tags").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) ListCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if err := transaction.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) ListByProvince(ctx context.Context, tx *gorm.DB, province string) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if err := transaction.WithContext(ctx).
		Where("province = ?", province).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) Save(ctx context.Context, tx *gorm.DB, project *types.Project) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Tags", "Creator", "Assignee").Save(project).Error
}

func (r *projectRepo) Delete(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Select("Tags").Delete(&types.Project{ID: projectID}).Error
}

func (r *projectRepo) ReplaceTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(project).Association("Tags").Replace(tags)
}

func (r *projectRepo) AppendTags(ctx context.Context, tx *gorm.DB, project *types.Project, tags []*types.Tag) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(project).Association("Tags").Append(tags)
}

func (r *projectRepo) CountTotal(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Project{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *projectRepo) CountCreatedSince(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("created_at >= ?", cutoff).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *projectRepo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return r.groupCount(ctx, tx, "status")
}

func (r *projectRepo) CountByProvince(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return r.groupCount(ctx, tx, "province")
}

func (r *projectRepo) groupCount(ctx context.Context, tx *gorm.DB, column string) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []GroupCount
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Select(column + " as key, count(*) as count").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *projectRepo) HeatMap(ctx context.Context, tx *gorm.DB, status string) ([]HeatPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Select("ROUND(latitude, 2) as lat, ROUND(longitude, 2) as lng, count(*) as count, status").
		Group("ROUND(latitude, 2), ROUND(longitude, 2), status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []HeatPoint
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
