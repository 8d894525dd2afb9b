package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

const monthLayout = "2006-01"

// TrendPoint is one month bucket of project creation and completion counts.
type TrendPoint struct {
	Month     string `json:"month"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

// ProvincePerformance aggregates progress per province.
type ProvincePerformance struct {
	Province    string  `json:"province"`
	Total       int64   `json:"total"`
	Done        int64   `json:"done"`
	InProgress  int64   `json:"in_progress"`
	AvgProgress float64 `json:"avg_progress"`
}

// DistrictPerformance is the same rollup one level down.
type DistrictPerformance struct {
	District    string  `json:"district"`
	Total       int64   `json:"total"`
	Done        int64   `json:"done"`
	AvgProgress float64 `json:"avg_progress"`
}

type CompletionRate struct {
	Period    string  `json:"period"`
	Total     int64   `json:"total"`
	Completed int64   `json:"completed"`
	Rate      float64 `json:"rate"`
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*ProjectStats, error)
	HeatMap(ctx context.Context, status string) ([]repos.HeatPoint, error)
	Trends(ctx context.Context, months int) ([]TrendPoint, error)
	ActivityFeed(ctx context.Context, limit int) ([]*types.ActivityLog, error)
	ProvincePerformance(ctx context.Context) ([]ProvincePerformance, error)
	DistrictPerformance(ctx context.Context, province string) ([]DistrictPerformance, error)
	CompletionRate(ctx context.Context, period string) (*CompletionRate, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	activityRepo repos.ActivityLogRepo
	projectSvc   ProjectService
}

func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	activityRepo repos.ActivityLogRepo,
	projectSvc ProjectService,
) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          baseLog.With("service", "AnalyticsService"),
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
		projectSvc:   projectSvc,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*ProjectStats, error) {
	return s.projectSvc.Stats(ctx)
}

func (s *analyticsService) HeatMap(ctx context.Context, status string) ([]repos.HeatPoint, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if status != "" && !types.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", pkgerr.ErrInvalidArgument, status)
	}
	return s.projectRepo.HeatMap(ctx, nil, status)
}

// Trends buckets project activity by calendar month, oldest first. Buckets
// with no activity are still emitted so charts keep a continuous axis.
func (s *analyticsService) Trends(ctx context.Context, months int) ([]TrendPoint, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 6
	}
	if months > 36 {
		months = 36
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	projects, err := s.projectRepo.ListCreatedSince(ctx, nil, start)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	created := map[string]int64{}
	completed := map[string]int64{}
	for _, p := range projects {
		created[p.CreatedAt.Format(monthLayout)]++
		if p.CompletionDate != nil && !p.CompletionDate.Before(start) {
			completed[p.CompletionDate.Format(monthLayout)]++
		}
	}

	points := make([]TrendPoint, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format(monthLayout)
		points = append(points, TrendPoint{
			Month:     month,
			Created:   created[month],
			Completed: completed[month],
		})
	}
	return points, nil
}

func (s *analyticsService) ActivityFeed(ctx context.Context, limit int) ([]*types.ActivityLog, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return s.activityRepo.ListRecent(ctx, nil, limit)
}

func (s *analyticsService) ProvincePerformance(ctx context.Context) ([]ProvincePerformance, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListAll(ctx, nil, "")
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	byProvince := map[string]*ProvincePerformance{}
	progressSum := map[string]int64{}
	for _, p := range projects {
		perf, ok := byProvince[p.Province]
		if !ok {
			perf = &ProvincePerformance{Province: p.Province}
			byProvince[p.Province] = perf
		}
		perf.Total++
		progressSum[p.Province] += int64(p.Progress)
		switch p.Status {
		case types.StatusDone:
			perf.Done++
		case types.StatusInProgress:
			perf.InProgress++
		}
	}
	out := make([]ProvincePerformance, 0, len(byProvince))
	for province, perf := range byProvince {
		perf.AvgProgress = float64(progressSum[province]) / float64(perf.Total)
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Province < out[j].Province })
	return out, nil
}

func (s *analyticsService) DistrictPerformance(ctx context.Context, province string) ([]DistrictPerformance, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if province == "" {
		return nil, fmt.Errorf("%w: province is required", pkgerr.ErrInvalidArgument)
	}
	projects, err := s.projectRepo.ListByProvince(ctx, nil, province)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	byDistrict := map[string]*DistrictPerformance{}
	progressSum := map[string]int64{}
	for _, p := range projects {
		district := p.District
		if district == "" {
			district = "unassigned"
		}
		perf, ok := byDistrict[district]
		if !ok {
			perf = &DistrictPerformance{District: district}
			byDistrict[district] = perf
		}
		perf.Total++
		progressSum[district] += int64(p.Progress)
		if p.Status == types.StatusDone {
			perf.Done++
		}
	}
	out := make([]DistrictPerformance, 0, len(byDistrict))
	for district, perf := range byDistrict {
		perf.AvgProgress = float64(progressSum[district]) / float64(perf.Total)
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].District < out[j].District })
	return out, nil
}

func (s *analyticsService) CompletionRate(ctx context.Context, period string) (*CompletionRate, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if period == "" {
		period = "all"
	}
	var cutoff time.Time
	switch period {
	case "all":
	case "7d":
		cutoff = time.Now().AddDate(0, 0, -7)
	case "30d":
		cutoff = time.Now().AddDate(0, 0, -30)
	case "90d":
		cutoff = time.Now().AddDate(0, 0, -90)
	case "1y":
		cutoff = time.Now().AddDate(-1, 0, 0)
	default:
		return nil, fmt.Errorf("%w: invalid period %q", pkgerr.ErrInvalidArgument, period)
	}

	var projects []*types.Project
	var err error
	if cutoff.IsZero() {
		projects, err = s.projectRepo.ListAll(ctx, nil, "")
	} else {
		projects, err = s.projectRepo.ListCreatedSince(ctx, nil, cutoff)
	}
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	rate := &CompletionRate{Period: period}
	for _, p := range projects {
		rate.Total++
		if p.Status == types.StatusDone {
			rate.Completed++
		}
	}
	if rate.Total > 0 {
		rate.Rate = float64(rate.Completed) / float64(rate.Total) * 100
	}
	return rate, nil
}
