package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (ah *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := ah.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (ah *AnalyticsHandler) HeatMap(c *gin.Context) {
	points, err := ah.analyticsService.HeatMap(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"points": points})
}

func (ah *AnalyticsHandler) Trends(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "0"))
	points, err := ah.analyticsService.Trends(c.Request.Context(), months)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trends": points})
}

func (ah *AnalyticsHandler) ActivityFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	entries, err := ah.analyticsService.ActivityFeed(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": entries})
}

func (ah *AnalyticsHandler) ProvincePerformance(c *gin.Context) {
	rows, err := ah.analyticsService.ProvincePerformance(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"provinces": rows})
}

func (ah *AnalyticsHandler) DistrictPerformance(c *gin.Context) {
	rows, err := ah.analyticsService.DistrictPerformance(c.Request.Context(), c.Query("province"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"districts": rows})
}

func (ah *AnalyticsHandler) CompletionRate(c *gin.Context) {
	rate, err := ah.analyticsService.CompletionRate(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, rate)
}
