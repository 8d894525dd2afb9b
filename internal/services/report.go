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

	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// SummaryReport is the full-portfolio rollup.
type SummaryReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByProvince  map[string]int64 `json:"by_province"`
	AvgProgress float64          `json:"avg_progress"`
	Completed   int64            `json:"completed"`
	Rate        float64          `json:"completion_rate"`
}

// ProvinceReport details one province, per municipality.
type ProvinceReport struct {
	Province       string           `json:"province"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByMunicipality map[string]int64 `json:"by_municipality"`
	AvgProgress    float64          `json:"avg_progress"`
	Projects       []*types.Project `json:"projects"`
}

// StatusReport breaks each status down with its average progress.
type StatusBucket struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	AvgProgress float64 `json:"avg_progress"`
}

type SavedReportInput struct {
	Name       string         `json:"name"`
	ReportType string         `json:"report_type"`
	Config     map[string]any `json:"config"`
}

type ReportService interface {
	Summary(ctx context.Context) (*SummaryReport, error)
	Province(ctx context.Context, province string) (*ProvinceReport, error)
	Timeline(ctx context.Context, months int) ([]TrendPoint, error)
	StatusBreakdown(ctx context.Context) ([]StatusBucket, error)
	SaveReport(ctx context.Context, in SavedReportInput) (*types.SavedReport, error)
	ListSavedReports(ctx context.Context) ([]*types.SavedReport, error)
	DeleteSavedReport(ctx context.Context, reportID uuid.UUID) error
}

type reportService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	savedRepo    repos.SavedReportRepo
	analyticsSvc AnalyticsService
}

func NewReportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	savedRepo repos.SavedReportRepo,
	analyticsSvc AnalyticsService,
) ReportService {
	return &reportService{
		db:           db,
		log:          baseLog.With("service", "ReportService"),
		projectRepo:  projectRepo,
		savedRepo:    savedRepo,
		analyticsSvc: analyticsSvc,
	}
}

func (s *reportService) Summary(ctx context.Context) (*SummaryReport, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListAll(ctx, nil, "")
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	report := &SummaryReport{
		GeneratedAt: time.Now(),
		ByStatus:    map[string]int64{},
		ByProvince:  map[string]int64{},
	}
	var progressSum int64
	for _, p := range projects {
		report.Total++
		report.ByStatus[p.Status]++
		report.ByProvince[p.Province]++
		progressSum += int64(p.Progress)
		if p.Status == types.StatusDone {
			report.Completed++
		}
	}
	if report.Total > 0 {
		report.AvgProgress = float64(progressSum) / float64(report.Total)
		report.Rate = float64(report.Completed) / float64(report.Total) * 100
	}
	return report, nil
}

func (s *reportService) Province(ctx context.Context, province string) (*ProvinceReport, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	province = strings.TrimSpace(province)
	if province == "" {
		return nil, fmt.Errorf("%w: province is required", pkgerr.ErrInvalidArgument)
	}
	projects, err := s.projectRepo.ListByProvince(ctx, nil, province)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: no projects in province %q", pkgerr.ErrNotFound, province)
	}
	report := &ProvinceReport{
		Province:       province,
		GeneratedAt:    time.Now(),
		ByStatus:       map[string]int64{},
		ByMunicipality: map[string]int64{},
		Projects:       projects,
	}
	var progressSum int64
	for _, p := range projects {
		report.Total++
		report.ByStatus[p.Status]++
		report.ByMunicipality[p.Municipality]++
		progressSum += int64(p.Progress)
	}
	report.AvgProgress = float64(progressSum) / float64(report.Total)
	return report, nil
}

func (s *reportService) Timeline(ctx context.Context, months int) ([]TrendPoint, error) {
	return s.analyticsSvc.Trends(ctx, months)
}

func (s *reportService) StatusBreakdown(ctx context.Context) ([]StatusBucket, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListAll(ctx, nil, "")
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	counts := map[string]int64{}
	progressSum := map[string]int64{}
	for _, p := range projects {
		counts[p.Status]++
		progressSum[p.Status] += int64(p.Progress)
	}
	statuses := []string{
		types.StatusPlanning, types.StatusInProgress, types.StatusOnHold,
		types.StatusDone, types.StatusPending, types.StatusCancelled,
	}
	buckets := make([]StatusBucket, 0, len(statuses))
	for _, status := range statuses {
		bucket := StatusBucket{Status: status, Count: counts[status]}
		if bucket.Count > 0 {
			bucket.AvgProgress = float64(progressSum[status]) / float64(bucket.Count)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

func (s *reportService) SaveReport(ctx context.Context, in SavedReportInput) (*types.SavedReport, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", pkgerr.ErrInvalidArgument)
	}
	if !types.ValidReportType(in.ReportType) {
		return nil, fmt.Errorf("%w: invalid report type %q", pkgerr.ErrInvalidArgument, in.ReportType)
	}
	config := in.Config
	if config == nil {
		config = map[string]any{}
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	report := &types.SavedReport{
		ID:         uuid.New(),
		UserID:     rd.UserID,
		Name:       in.Name,
		ReportType: in.ReportType,
		Config:     datatypes.JSON(raw),
	}
	if _, err := s.savedRepo.Create(ctx, nil, []*types.SavedReport{report}); err != nil {
		return nil, fmt.Errorf("create saved report: %w", err)
	}
	return report, nil
}

func (s *reportService) ListSavedReports(ctx context.Context) ([]*types.SavedReport, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	return s.savedRepo.ListByUser(ctx, nil, rd.UserID)
}

func (s *reportService) DeleteSavedReport(ctx context.Context, reportID uuid.UUID) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	report, err := s.savedRepo.GetByIDForUser(ctx, nil, reportID, rd.UserID)
	if err != nil {
		return fmt.Errorf("load saved report: %w", err)
	}
	if report == nil {
		return fmt.Errorf("%w: saved report", pkgerr.ErrNotFound)
	}
	return s.savedRepo.Delete(ctx, nil, reportID)
}
